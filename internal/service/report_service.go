package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cfs-facility/rapportini-service/internal/model"
)

type ReportStore interface {
	Insert(ctx context.Context, report model.Report) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDate(ctx context.Context, technician, date string) ([]model.Report, error)
	ListDayGroups(ctx context.Context, technician string) ([]model.DayGroup, error)
	ListByMonth(ctx context.Context, technician, month string) ([]model.Report, error)
}

type DayFlagStore interface {
	Flags(ctx context.Context) ([]model.DayFlags, error)
	MarkClosed(ctx context.Context, date string) error
	MarkSent(ctx context.Context, dates []string) error
	MarkUnsent(ctx context.Context, date string) error
}

type DocumentComposer interface {
	ComposeDay(reports []model.Report, date, technician string) ([]model.GeneratedFile, error)
}

type RecapGenerator interface {
	Generate(technician, month string, reports []model.Report) ([]byte, error)
}

type ReportService struct {
	reports  ReportStore
	flags    DayFlagStore
	composer DocumentComposer
	recap    RecapGenerator
}

func NewReportService(reports ReportStore, flags DayFlagStore, composer DocumentComposer, recap RecapGenerator) *ReportService {
	return &ReportService{
		reports:  reports,
		flags:    flags,
		composer: composer,
		recap:    recap,
	}
}

type AddReportInput struct {
	TechnicianName    string
	Location          string
	Description       string
	Date              string
	WorkType          model.WorkType
	InterventionHours float64
	TravelHours       float64
	Photos            [][]byte
}

func (s *ReportService) AddReport(ctx context.Context, principal model.Principal, input AddReportInput) (*model.Report, error) {
	if !principal.CanAccessTechnician(input.TechnicianName) {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.TechnicianName) == "" {
		return nil, fmt.Errorf("%w: technician_name is required", ErrInvalidInput)
	}
	if err := validateDate(input.Date); err != nil {
		return nil, err
	}
	if !input.WorkType.Valid() {
		return nil, fmt.Errorf("%w: invalid work_type", ErrInvalidInput)
	}
	if input.InterventionHours < 0 || input.TravelHours < 0 {
		return nil, fmt.Errorf("%w: hours must be non-negative", ErrInvalidInput)
	}

	// Travel time only carries meaning for on-call work; normalize it to
	// zero everywhere else.
	travel := input.TravelHours
	if input.WorkType != model.WorkTypeOnCall {
		travel = 0
	}

	report := model.Report{
		ID:                uuid.New(),
		TechnicianName:    strings.TrimSpace(input.TechnicianName),
		Location:          strings.TrimSpace(input.Location),
		Description:       strings.TrimSpace(input.Description),
		Date:              input.Date,
		WorkType:          input.WorkType,
		InterventionHours: input.InterventionHours,
		TravelHours:       travel,
		Photos:            input.Photos,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	if err := s.reports.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListDays returns the technician's day groups, newest first, merged with
// the lifecycle flags.
func (s *ReportService) ListDays(ctx context.Context, principal model.Principal, technician string) ([]model.DayGroup, error) {
	if !principal.CanAccessTechnician(technician) {
		return nil, ErrPermissionDenied
	}

	groups, err := s.reports.ListDayGroups(ctx, technician)
	if err != nil {
		return nil, err
	}
	flags, err := s.flags.Flags(ctx)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]model.DayFlags, len(flags))
	for _, f := range flags {
		byDate[f.Date] = f
	}
	for i := range groups {
		if f, ok := byDate[groups[i].Date]; ok {
			groups[i].Closed = f.Closed
			groups[i].Sent = f.Sent
		}
	}
	return groups, nil
}

// GenerateDay composes the documents for one technician/day. A day with no
// reports still yields the summary document with an all-blank table.
// Closing a day never gates generation.
func (s *ReportService) GenerateDay(ctx context.Context, principal model.Principal, technician, date string) ([]model.GeneratedFile, error) {
	if !principal.CanAccessTechnician(technician) {
		return nil, ErrPermissionDenied
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	reports, err := s.reports.ListByDate(ctx, technician, date)
	if err != nil {
		return nil, err
	}
	return s.composer.ComposeDay(reports, date, technician)
}

// ExportDays composes documents for the selected dates sequentially, in
// selection order, attaching the day's photos alongside the PDFs. On a
// per-date failure everything produced so far stays valid and is returned
// with the error, so the caller can retry that date alone.
func (s *ReportService) ExportDays(ctx context.Context, principal model.Principal, technician string, dates []string) ([]model.GeneratedFile, error) {
	if !principal.CanAccessTechnician(technician) {
		return nil, ErrPermissionDenied
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: dates are required", ErrInvalidInput)
	}
	for _, date := range dates {
		if err := validateDate(date); err != nil {
			return nil, err
		}
	}

	techName := strings.Join(strings.Fields(technician), "_")
	var files []model.GeneratedFile
	for _, date := range dates {
		reports, err := s.reports.ListByDate(ctx, technician, date)
		if err != nil {
			return files, fmt.Errorf("list reports for %s: %w", date, err)
		}

		dayFiles, err := s.composer.ComposeDay(reports, date, technician)
		files = append(files, dayFiles...)
		if err != nil {
			return files, fmt.Errorf("compose %s: %w", date, err)
		}

		for ri, report := range reports {
			for pi, photo := range report.Photos {
				files = append(files, model.GeneratedFile{
					FileName: fmt.Sprintf("Foto_%s_%s_%d_%d.jpg", techName, date, ri+1, pi+1),
					Content:  photo,
				})
			}
		}
	}
	return files, nil
}

// CloseDay flips the one-way closed flag. Idempotent; there is no reopen.
func (s *ReportService) CloseDay(ctx context.Context, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	return s.flags.MarkClosed(ctx, date)
}

// MarkSent records the dates as handed to the transport: an atomic union
// over the sent set.
func (s *ReportService) MarkSent(ctx context.Context, dates []string) error {
	if len(dates) == 0 {
		return fmt.Errorf("%w: dates are required", ErrInvalidInput)
	}
	for _, date := range dates {
		if err := validateDate(date); err != nil {
			return err
		}
	}
	return s.flags.MarkSent(ctx, dates)
}

func (s *ReportService) MarkUnsent(ctx context.Context, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	return s.flags.MarkUnsent(ctx, date)
}

// MonthlyRecap builds the spreadsheet of a technician's month (YYYY-MM).
func (s *ReportService) MonthlyRecap(ctx context.Context, principal model.Principal, technician, month string) (*model.GeneratedFile, error) {
	if !principal.CanAccessTechnician(technician) {
		return nil, ErrPermissionDenied
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}

	reports, err := s.reports.ListByMonth(ctx, technician, month)
	if err != nil {
		return nil, err
	}
	content, err := s.recap.Generate(technician, month, reports)
	if err != nil {
		return nil, err
	}

	techName := strings.Join(strings.Fields(technician), "_")
	return &model.GeneratedFile{
		FileName: fmt.Sprintf("Riepilogo_%s_%s.xlsx", techName, month),
		Content:  content,
	}, nil
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}
