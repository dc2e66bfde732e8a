package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "cleansheet/internal/errors"
	"cleansheet/internal/exporter"
)

// ExportsHandler lists files written to the exports directory
type ExportsHandler struct {
	service      CleaningServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportsHandler creates a new exports handler
func NewExportsHandler(service CleaningServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "exports_handler")),
		errorHandler: errorHandler,
	}
}

// ExportsResponse wraps the export listing
type ExportsResponse struct {
	Exports []exporter.ExportInfo `json:"exports"`
	Count   int                   `json:"count"`
}

// List handles GET /api/exports
func (h *ExportsHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.ListExports(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, &ExportsResponse{Exports: infos, Count: len(infos)})
}
