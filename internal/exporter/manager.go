package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"logisticsmart/internal/config"
	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/pkg/contracts/domain"
)

// PDFPrinter turns an HTML document into PDF bytes
type PDFPrinter interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// Result is the outcome of exporting one format
type Result struct {
	Format      domain.ExportFormat
	Filename    string
	ContentType string
	Data        []byte
	Err         error
}

// Manager renders tables in every supported format
type Manager struct {
	cfg     config.ExportConfig
	pdf     PDFPrinter
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager creates a manager. PDF output is enabled only when a Chrome
// executable is found and PDF is not disabled in cfg.
func NewManager(cfg config.ExportConfig, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "exporter")),
		now:     time.Now,
	}

	if !cfg.DisablePDF {
		if path, ok := FindChrome(cfg.ChromePath); ok {
			m.pdf = NewPDFRenderer(path, cfg.PDFTimeout, logger)
			m.logger.Info("pdf export enabled", slog.String("chrome", path))
		} else {
			m.logger.Warn("chrome not found, pdf export disabled")
		}
	}
	return m
}

// WithPDFPrinter replaces the PDF backend; nil disables PDF output
func (m *Manager) WithPDFPrinter(p PDFPrinter) *Manager {
	m.pdf = p
	return m
}

// WithClock replaces the time source used for generation timestamps
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// AvailableFormats lists the formats usable on this host in display order.
// Excel, CSV and Word are always present.
func (m *Manager) AvailableFormats() []domain.ExportFormat {
	out := make([]domain.ExportFormat, 0, len(domain.AllFormats))
	for _, f := range domain.AllFormats {
		if m.Available(f) {
			out = append(out, f)
		}
	}
	return out
}

// Available reports whether format can be exported right now
func (m *Manager) Available(format domain.ExportFormat) bool {
	switch format {
	case domain.FormatExcel, domain.FormatCSV, domain.FormatWord:
		return true
	case domain.FormatPDF:
		return m.pdf != nil
	default:
		return false
	}
}

// Export renders t in format
func (m *Manager) Export(ctx context.Context, t *domain.Table, format domain.ExportFormat) ([]byte, error) {
	ctx, span := otel.Tracer(infrastructure.InstrumentationName).Start(ctx, "exporter.Export")
	defer span.End()
	span.SetAttributes(
		attribute.String("export.format", string(format)),
		attribute.Int("export.rows", t.Len()),
	)

	start := time.Now()
	data, err := m.export(ctx, t, format)
	m.metrics.RecordStage(ctx, "export", start, err)
	m.metrics.RecordExport(ctx, string(format), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.ErrorContext(ctx, "export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return nil, err
	}

	m.logger.InfoContext(ctx, "export completed",
		slog.String("format", string(format)),
		slog.Int("records", t.Len()),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", time.Since(start)))
	return data, nil
}

func (m *Manager) export(ctx context.Context, t *domain.Table, format domain.ExportFormat) ([]byte, error) {
	if !m.Available(format) {
		return nil, apperrors.ExportUnavailable(string(format))
	}

	generated := m.now()
	var (
		data []byte
		err  error
	)
	switch format {
	case domain.FormatExcel:
		data, err = ExcelBytes(t, Metadata{Title: m.cfg.ReportTitle, GeneratedAt: generated, Records: t.Len()})
	case domain.FormatCSV:
		data, err = CSVBytes(t)
	case domain.FormatWord:
		data, err = DocxBytes(t, Metadata{Title: m.cfg.DocumentTitle, GeneratedAt: generated, Records: t.Len()})
	case domain.FormatPDF:
		var html []byte
		html, err = RenderHTML(t, Metadata{Title: m.cfg.DocumentTitle, GeneratedAt: generated, Records: t.Len()})
		if err == nil {
			data, err = m.pdf.Render(ctx, html)
		}
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeExport,
			fmt.Sprintf("Erro na exportação %s", format.Label()), err).
			WithContext("format", string(format))
	}
	return data, nil
}

// ExportMultiple exports every requested format independently. One failing
// format never prevents the others; its Result carries the error.
func (m *Manager) ExportMultiple(ctx context.Context, t *domain.Table, formats []domain.ExportFormat, baseName string) []Result {
	if baseName == "" {
		baseName = DefaultBaseName(m.now())
	}

	results := make([]Result, 0, len(formats))
	for _, f := range formats {
		data, err := m.Export(ctx, t, f)
		results = append(results, Result{
			Format:      f,
			Filename:    Filename(baseName, f),
			ContentType: f.ContentType(),
			Data:        data,
			Err:         err,
		})
	}
	return results
}

// DefaultBaseName names an export after the time it was generated
func DefaultBaseName(now time.Time) string {
	return "relatorio_logistic_" + now.Format("20060102_150405")
}

// Filename appends the format extension to base
func Filename(base string, format domain.ExportFormat) string {
	return base + format.Extension()
}
