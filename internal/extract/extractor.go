package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/cfs-facility/rapportini-service/internal/model"
)

// Fields are the partial report fields recovered from free text. Absent
// fields stay nil/empty; the form layer decides what to pre-fill.
type Fields struct {
	TechnicianName    string          `json:"technician_name,omitempty"`
	Location          string          `json:"location,omitempty"`
	Description       string          `json:"description,omitempty"`
	InterventionHours *float64        `json:"intervention_hours,omitempty"`
	TravelHours       *float64        `json:"travel_hours,omitempty"`
	WorkType          *model.WorkType `json:"work_type,omitempty"`
}

// Extractor turns a technician's free-text note into structured report
// fields. It only pre-fills the input form: the reporting core never
// depends on it and works fully without it.
type Extractor struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

func NewExtractor(apiKey, chatModel string, log zerolog.Logger) *Extractor {
	return &Extractor{
		client: openai.NewClient(apiKey),
		model:  chatModel,
		log:    log,
	}
}

const systemPrompt = `Analizza il testo descrittivo di un intervento tecnico ed estrai i dati strutturati in JSON.
Regole:
- Se si menziona "reperibilita'" o "chiamata urgente", work_type e' "on_call".
- Se si menziona "straordinario", "extra" o "fuori orario" (non reperibilita'), work_type e' "extraordinary".
- Altrimenti work_type e' "ordinary".
- Estrai le ore di lavoro (intervention_hours) e le ore di viaggio (travel_hours, solo reperibilita').
- Riassumi le operazioni in un linguaggio professionale nel campo description.
- Ometti i campi mancanti.
Campi ammessi: technician_name, location, description, intervention_hours, travel_hours, work_type.`

func (e *Extractor) Extract(ctx context.Context, freeText string) (*Fields, error) {
	freeText = strings.TrimSpace(freeText)
	if freeText == "" {
		return nil, fmt.Errorf("empty input text")
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: freeText},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extract request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty extract response")
	}

	var fields Fields
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		e.log.Error().Err(err).Str("content", content).Msg("unparseable extract response")
		return nil, fmt.Errorf("parse extract response: %w", err)
	}
	if fields.WorkType != nil && !fields.WorkType.Valid() {
		fields.WorkType = nil
	}
	return &fields, nil
}
