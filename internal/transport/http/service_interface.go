package http

import (
	"context"
	"io"

	"cleansheet/internal/cleaning"
	"cleansheet/internal/exporter"
	"cleansheet/internal/services"
	"cleansheet/internal/session"
	"cleansheet/internal/validation"
)

// CleaningServiceInterface is the service surface the handlers depend on.
// Defined here so handler tests can substitute a stub.
type CleaningServiceInterface interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Preview(ctx context.Context, id string, head, tail int) (*services.Preview, error)
	Clean(ctx context.Context, id string, opts cleaning.Options) (*session.Session, *cleaning.Report, error)
	Reset(ctx context.Context, id string) (*session.Session, error)
	Export(ctx context.Context, id, filename string, format validation.ExportFormat) (*services.ExportResult, error)
	BoxPlot(ctx context.Context, id, column string, w io.Writer) error
	Delete(ctx context.Context, id string)
	ListExports(ctx context.Context) ([]exporter.ExportInfo, error)
}
