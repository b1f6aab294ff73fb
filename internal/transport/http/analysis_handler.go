package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/middleware"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/services"
)

// Analyzer runs the analysis pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req services.AnalysisRequest) (*services.AnalysisResult, error)
}

// AnalysisHandler handles analysis requests with RFC 7807 errors
type AnalysisHandler struct {
	service      Analyzer
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service Analyzer, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "analysis_handler")),
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(middleware.ContentTypeValidator(h.errorHandler, "application/json"))

	r.Post("/", h.Create)
	return r
}

// Create handles POST /api/v1/analyses
func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.AnalysisRequest
	if err := h.validator.DecodeJSON(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "analysis completed",
		slog.String("analysis_id", result.ID),
		slog.Int64("duration_ms", result.DurationMS))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}
