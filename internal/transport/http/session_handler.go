package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"cleansheet/internal/cleaning"
	apierrors "cleansheet/internal/errors"
	"cleansheet/internal/session"
	"cleansheet/internal/table"
	"cleansheet/internal/validation"
)

var validate = validator.New()

// SessionHandler handles the session-scoped cleaning API
type SessionHandler struct {
	service        CleaningServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	uploadMaxBytes int64
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service CleaningServiceInterface, uploadMaxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "session_handler")),
		errorHandler:   errorHandler,
		uploadMaxBytes: uploadMaxBytes,
	}
}

// Routes returns the session routes
func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)

	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Get("/summary", h.GetSummary)
		r.Get("/preview", h.GetPreview)
		r.Post("/clean", h.Clean)
		r.Post("/reset", h.Reset)
		r.Post("/export", h.Export)
		r.Get("/columns/{column}/boxplot", h.BoxPlot)
	})

	return r
}

// SessionResponse describes a session and the shape of its working table
type SessionResponse struct {
	SessionID   string             `json:"session_id"`
	Filename    string             `json:"filename"`
	Rows        int                `json:"rows"`
	Cols        int                `json:"cols"`
	Columns     []table.ColumnInfo `json:"columns"`
	MemoryBytes int64              `json:"memory_bytes"`
}

func sessionResponse(sess *session.Session) *SessionResponse {
	rows, cols := sess.Working.Shape()
	return &SessionResponse{
		SessionID:   sess.ID,
		Filename:    sess.Filename,
		Rows:        rows,
		Cols:        cols,
		Columns:     sess.Working.Overview(),
		MemoryBytes: sess.Working.MemoryEstimate(),
	}
}

// Upload handles POST /api/sessions: a multipart CSV upload that opens a
// new cleaning session.
func (h *SessionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "multipart field 'file' is required"))
		return
	}
	defer file.Close()

	sess, err := h.service.Upload(r.Context(), filepath.Base(header.Filename), file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sessionResponse(sess))
}

// GetSession handles GET /api/sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, sessionResponse(sess))
}

// SummaryResponse carries descriptive statistics and missing-value counts
type SummaryResponse struct {
	Numeric      []table.ColumnSummary `json:"numeric"`
	Missing      map[string]int        `json:"missing"`
	TotalMissing int                   `json:"total_missing"`
}

// GetSummary handles GET /api/sessions/{sessionID}/summary
func (h *SessionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, &SummaryResponse{
		Numeric:      sess.Working.Summary(),
		Missing:      sess.Working.MissingCounts(),
		TotalMissing: sess.Working.TotalMissing(),
	})
}

// GetPreview handles GET /api/sessions/{sessionID}/preview?head=N&tail=M
func (h *SessionHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	head := queryInt(r, "head", 5)
	tail := queryInt(r, "tail", 5)

	preview, err := h.service.Preview(r.Context(), chi.URLParam(r, "sessionID"), head, tail)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, preview)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// CleanRequest selects which cleaning steps to run
type CleanRequest struct {
	DropMissing    bool     `json:"drop_missing"`
	Columns        []string `json:"columns" validate:"omitempty,dive,required"`
	HandleOutliers bool     `json:"handle_outliers"`
	OutlierMethod  string   `json:"outlier_method"`
}

// CleanResponse pairs the updated session with the pipeline report
type CleanResponse struct {
	Session *SessionResponse `json:"session"`
	Report  *cleaning.Report `json:"report"`
}

// Clean handles POST /api/sessions/{sessionID}/clean
func (h *SessionHandler) Clean(w http.ResponseWriter, r *http.Request) {
	var req CleanRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	policy, err := cleaning.ParsePolicy(req.OutlierMethod)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	sess, report, err := h.service.Clean(r.Context(), chi.URLParam(r, "sessionID"), cleaning.Options{
		DropMissing:    req.DropMissing,
		Columns:        req.Columns,
		HandleOutliers: req.HandleOutliers,
		Policy:         policy,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, &CleanResponse{
		Session: sessionResponse(sess),
		Report:  report,
	})
}

// Reset handles POST /api/sessions/{sessionID}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Reset(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, sessionResponse(sess))
}

// ExportRequest names the export target
type ExportRequest struct {
	Filename string `json:"filename" validate:"required"`
	Format   string `json:"format" validate:"omitempty,oneof=csv xlsx"`
}

// ExportResponse reports where the export was written
type ExportResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
}

// Export handles POST /api/sessions/{sessionID}/export
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	format := validation.FormatCSV
	if req.Format == string(validation.FormatExcel) {
		format = validation.FormatExcel
	}

	result, err := h.service.Export(r.Context(), chi.URLParam(r, "sessionID"), req.Filename, format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, &ExportResponse{
		Filename: filepath.Base(result.Path),
		Path:     result.Path,
		Rows:     result.Rows,
		Cols:     result.Cols,
	})
}

// BoxPlot handles GET /api/sessions/{sessionID}/columns/{column}/boxplot.
// The plot is rendered into a buffer first so failures can still return a
// problem document.
func (h *SessionHandler) BoxPlot(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := h.service.BoxPlot(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "column"), &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// DeleteSession handles DELETE /api/sessions/{sessionID}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.service.Delete(r.Context(), chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}
