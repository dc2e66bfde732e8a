package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cleansheet/internal/charts"
	"cleansheet/internal/cleaning"
	"cleansheet/internal/config"
	apperrors "cleansheet/internal/errors"
	"cleansheet/internal/exporter"
	"cleansheet/internal/infrastructure"
	"cleansheet/internal/metrics"
	"cleansheet/internal/session"
	"cleansheet/internal/table"
	"cleansheet/internal/validation"
)

// CleaningService orchestrates the cleaning workflow: upload, inspection,
// cleaning, and export. It owns the session store and the export writers.
type CleaningService struct {
	cfg         *config.Config
	paths       *config.Paths
	store       *session.Store
	csvWriter   *exporter.CSVWriter
	excelWriter *exporter.ExcelWriter
	validator   *validation.FileValidator
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewCleaningService creates the cleaning service
func NewCleaningService(cfg *config.Config, paths *config.Paths, store *session.Store, m *metrics.Metrics, logger *slog.Logger) *CleaningService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "cleaning_service"))

	return &CleaningService{
		cfg:         cfg,
		paths:       paths,
		store:       store,
		csvWriter:   exporter.NewCSVWriter(paths, logger),
		excelWriter: exporter.NewExcelWriter(paths, logger),
		validator:   validation.NewFileValidator(logger),
		metrics:     m,
		logger:      logger,
	}
}

// Upload parses an uploaded CSV and opens a session around it
func (s *CleaningService) Upload(ctx context.Context, filename string, r io.Reader) (*session.Session, error) {
	ctx, span := infrastructure.StartSpan(ctx, "service.upload",
		trace.WithAttributes(attribute.String("upload.filename", filename)))
	var err error
	defer func() { infrastructure.EndSpan(span, err) }()

	start := time.Now()

	filename, err = s.validator.ValidateUploadFilename(filename)
	if err != nil {
		return nil, apperrors.ErrValidation("filename", err.Error())
	}

	tbl, err := table.Load(r, table.LoadOptions{MaxRows: s.cfg.Upload.MaxRows})
	if err != nil {
		return nil, err
	}

	sess := s.store.Create(filename, tbl)
	s.metrics.UploadsTotal.Inc()
	s.metrics.SessionsLive.Set(float64(s.store.Len()))

	rows, cols := tbl.Shape()
	s.logger.InfoContext(ctx, "upload complete",
		slog.String("session_id", sess.ID),
		slog.String("filename", filename),
		slog.Int("rows", rows),
		slog.Int("cols", cols),
		slog.Duration("duration", time.Since(start)))
	return sess, nil
}

// Get returns the session for id
func (s *CleaningService) Get(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, apperrors.SessionNotFoundError(id)
	}
	return sess, nil
}

// Preview holds the head and tail rows of the working table
type Preview struct {
	Columns []string   `json:"columns"`
	Head    [][]string `json:"head"`
	Tail    [][]string `json:"tail"`
}

// Preview returns head and tail rows of the session's working table. Counts
// are clamped to the 1..10 range the UI slider offers.
func (s *CleaningService) Preview(ctx context.Context, id string, head, tail int) (*Preview, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Columns: sess.Working.Names(),
		Head:    sess.Working.Head(clampPreview(head)),
		Tail:    sess.Working.Tail(clampPreview(tail)),
	}, nil
}

func clampPreview(n int) int {
	if n < 1 {
		return 5
	}
	if n > 10 {
		return 10
	}
	return n
}

// Clean runs the cleaning pipeline on the session's working table and
// replaces it with the result
func (s *CleaningService) Clean(ctx context.Context, id string, opts cleaning.Options) (*session.Session, *cleaning.Report, error) {
	ctx, span := infrastructure.StartSpan(ctx, "service.clean",
		trace.WithAttributes(
			attribute.String("session.id", id),
			attribute.String("clean.policy", string(opts.Policy)),
			attribute.Bool("clean.drop_missing", opts.DropMissing)))
	var err error
	defer func() { infrastructure.EndSpan(span, err) }()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	cleaned, report, err := cleaning.Clean(sess.Working, opts)
	if err != nil {
		return nil, nil, err
	}
	sess, err = s.store.Replace(id, cleaned)
	if err != nil {
		return nil, nil, apperrors.SessionNotFoundError(id)
	}

	policy := string(report.Policy)
	if policy == "" {
		policy = "none"
	}
	s.metrics.CleansTotal.WithLabelValues(policy).Inc()
	s.metrics.RowsProcessed.Observe(float64(report.RowsBefore))
	s.metrics.RowsDropped.Add(float64(report.RowsBefore - report.RowsAfter))

	s.logger.InfoContext(ctx, "cleaning complete",
		slog.String("session_id", id),
		slog.String("policy", policy),
		slog.Int("rows_before", report.RowsBefore),
		slog.Int("rows_after", report.RowsAfter),
		slog.Int("missing_dropped", report.MissingDropped),
		slog.Int("outliers_dropped", report.OutliersDropped))
	return sess, report, nil
}

// Reset restores the session's working table to the original upload
func (s *CleaningService) Reset(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.store.Reset(id)
	if err != nil {
		return nil, apperrors.SessionNotFoundError(id)
	}
	s.logger.InfoContext(ctx, "session reset",
		slog.String("session_id", id),
		slog.Int("rows", sess.Working.Nrow()))
	return sess, nil
}

// ExportResult reports where an export was written and the shape of the
// table at the moment it was written
type ExportResult struct {
	Path string
	Rows int
	Cols int
}

// Export writes the session's working table to the exports directory in the
// given format. The row and column counts in the result are derived from the
// records actually written, so they match the file even when a concurrent
// Clean replaces the working table right after.
func (s *CleaningService) Export(ctx context.Context, id, filename string, format validation.ExportFormat) (*ExportResult, error) {
	ctx, span := infrastructure.StartSpan(ctx, "service.export",
		trace.WithAttributes(
			attribute.String("session.id", id),
			attribute.String("export.format", string(format))))
	var err error
	defer func() { infrastructure.EndSpan(span, err) }()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	filename, err = s.validator.SanitizeExportFilename(filename, format)
	if err != nil {
		return nil, apperrors.ErrValidation("filename", err.Error())
	}

	records := sess.Working.Records()

	var path string
	switch format {
	case validation.FormatCSV:
		path, err = s.csvWriter.WriteTable(filename, records)
	case validation.FormatExcel:
		path, err = s.excelWriter.WriteTable(filename, records)
	default:
		err = apperrors.ErrValidation("format", fmt.Sprintf("unknown export format %q", format))
		return nil, err
	}
	if err != nil {
		return nil, apperrors.FileSystemError("export", err)
	}

	result := &ExportResult{
		Path: path,
		Rows: len(records) - 1,
		Cols: len(records[0]),
	}

	s.metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
	s.logger.InfoContext(ctx, "export complete",
		slog.String("session_id", id),
		slog.String("path", path),
		slog.Int("rows", result.Rows))
	return result, nil
}

// BoxPlot renders a box plot PNG for one numeric column of the working table
func (s *CleaningService) BoxPlot(ctx context.Context, id, column string, w io.Writer) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !sess.Working.HasColumn(column) {
		return apperrors.ColumnNotFoundError(column)
	}
	return charts.BoxPlotPNG(sess.Working, column, w)
}

// Delete removes the session
func (s *CleaningService) Delete(ctx context.Context, id string) {
	s.store.Delete(id)
	s.metrics.SessionsLive.Set(float64(s.store.Len()))
}

// ListExports lists the files currently in the exports directory
func (s *CleaningService) ListExports(ctx context.Context) ([]exporter.ExportInfo, error) {
	infos, err := exporter.ListExports(s.paths)
	if err != nil {
		return nil, apperrors.FileSystemError("list exports", err)
	}
	return infos, nil
}
