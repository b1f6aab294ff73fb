package http

import (
	"context"
	"net/http"

	"github.com/go-chi/render"

	apperrors "github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/errors"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/files"
)

// DatasetLister lists analysable dataset files.
type DatasetLister interface {
	List(ctx context.Context, match string) ([]files.FileInfo, error)
}

// DatasetHandler serves the dataset catalogue
type DatasetHandler struct {
	service      DatasetLister
	errorHandler *apperrors.ErrorHandler
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service DatasetLister, errorHandler *apperrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{service: service, errorHandler: errorHandler}
}

// List handles GET /api/v1/datasets[?match=glob]
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.service.List(r.Context(), r.URL.Query().Get("match"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"datasets": datasets,
		"count":    len(datasets),
	})
}
