package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cfs-facility/rapportini-service/internal/extract"
	"github.com/cfs-facility/rapportini-service/internal/http/middleware"
	"github.com/cfs-facility/rapportini-service/internal/model"
	"github.com/cfs-facility/rapportini-service/internal/service"
)

type Handler struct {
	reports   *service.ReportService
	extractor *extract.Extractor // nil when no API key is configured
	log       zerolog.Logger
}

func NewHandler(reports *service.ReportService, extractor *extract.Extractor, log zerolog.Logger) *Handler {
	return &Handler{reports: reports, extractor: extractor, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/reports", h.createReport)
	protected.DELETE("/reports/:id", h.deleteReport)

	protected.GET("/days", h.listDays)
	protected.GET("/days/:date/documents", h.dayDocuments)
	protected.GET("/days/:date/documents/:kind", h.dayDocument)
	protected.POST("/days/:date/close", h.closeDay)
	protected.POST("/days/export", h.exportDays)
	protected.POST("/days/sent", h.markSent)
	protected.DELETE("/days/:date/sent", h.markUnsent)

	protected.GET("/recap/:month", h.monthlyRecap)
	protected.POST("/extract", h.extractFields)
}

type createReportRequest struct {
	TechnicianName    string   `json:"technician_name"`
	Location          string   `json:"location"`
	Description       string   `json:"description"`
	Date              string   `json:"date" binding:"required"`
	WorkType          string   `json:"work_type" binding:"required"`
	InterventionHours float64  `json:"intervention_hours"`
	TravelHours       float64  `json:"travel_hours"`
	Photos            [][]byte `json:"photos"`
}

func (h *Handler) createReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	technician := req.TechnicianName
	if technician == "" {
		technician = principal.TechnicianName
	}

	report, err := h.reports.AddReport(c.Request.Context(), principal, service.AddReportInput{
		TechnicianName:    technician,
		Location:          req.Location,
		Description:       req.Description,
		Date:              req.Date,
		WorkType:          model.WorkType(req.WorkType),
		InterventionHours: req.InterventionHours,
		TravelHours:       req.TravelHours,
		Photos:            req.Photos,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": report.ID, "created_at": report.CreatedAt})
}

func (h *Handler) deleteReport(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	if err := h.reports.DeleteReport(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listDays(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	days, err := h.reports.ListDays(c.Request.Context(), principal, h.technicianParam(c, principal))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

type generatedFileResponse struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"content"` // base64 on the wire
}

func (h *Handler) dayDocuments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	files, err := h.reports.GenerateDay(c.Request.Context(), principal, h.technicianParam(c, principal), c.Param("date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": fileResponses(files)})
}

// dayDocument serves a single PDF attachment; kind is "summary" or
// "extraordinary". The extraordinary document 404s when the day has no
// extraordinary reports.
func (h *Handler) dayDocument(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	kind := strings.ToLower(strings.TrimSpace(c.Param("kind")))
	index := 0
	switch kind {
	case "summary":
	case "extraordinary":
		index = 1
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document kind"})
		return
	}

	files, err := h.reports.GenerateDay(c.Request.Context(), principal, h.technicianParam(c, principal), c.Param("date"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	if index >= len(files) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no extraordinary reports for this day"})
		return
	}

	file := files[index]
	c.Header("Content-Disposition", "attachment; filename=\""+file.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", file.Content)
}

func (h *Handler) closeDay(c *gin.Context) {
	if err := h.reports.CloseDay(c.Request.Context(), c.Param("date")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type exportDaysRequest struct {
	TechnicianName string   `json:"technician_name"`
	Dates          []string `json:"dates" binding:"required"`
}

func (h *Handler) exportDays(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req exportDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	technician := req.TechnicianName
	if technician == "" {
		technician = principal.TechnicianName
	}

	files, err := h.reports.ExportDays(c.Request.Context(), principal, technician, req.Dates)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": fileResponses(files)})
}

type markSentRequest struct {
	Dates []string `json:"dates" binding:"required"`
}

func (h *Handler) markSent(c *gin.Context) {
	var req markSentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.reports.MarkSent(c.Request.Context(), req.Dates); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) markUnsent(c *gin.Context) {
	if err := h.reports.MarkUnsent(c.Request.Context(), c.Param("date")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) monthlyRecap(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	file, err := h.reports.MonthlyRecap(c.Request.Context(), principal, h.technicianParam(c, principal), c.Param("month"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+file.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.Content)
}

type extractRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) extractFields(c *gin.Context) {
	if h.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "extraction is not configured"})
		return
	}

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := h.extractor.Extract(c.Request.Context(), req.Text)
	if err != nil {
		h.log.Error().Err(err).Msg("extract failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "extraction failed"})
		return
	}
	c.JSON(http.StatusOK, fields)
}

func (h *Handler) technicianParam(c *gin.Context, principal model.Principal) string {
	technician := strings.TrimSpace(c.Query("technician"))
	if technician == "" {
		return principal.TechnicianName
	}
	return technician
}

func fileResponses(files []model.GeneratedFile) []generatedFileResponse {
	out := make([]generatedFileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, generatedFileResponse{FileName: f.FileName, Content: f.Content})
	}
	return out
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
