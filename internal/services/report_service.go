package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"logisticsmart/internal/dataprocessing"
	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/exporter"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/internal/ingest"
	"logisticsmart/internal/session"
	"logisticsmart/pkg/contracts/domain"
)

// LoadSummary is the operator-facing outcome of a load
type LoadSummary struct {
	Success         bool
	Message         string
	Filename        string
	Records         int
	RawRows         int
	Columns         domain.ColumnMap
	OriginalColumns []string
}

// QueryRequest selects the rows of a report
type QueryRequest struct {
	Filters domain.FilterSpec
	Mode    domain.StatusMode
}

// QueryResult is a filtered table with its per-deliverer summary
type QueryResult struct {
	Table     *domain.Table
	Aggregate domain.AggregateResult
	Mode      domain.StatusMode
	Total     int
}

// ExportRequest describes what to export. Aggregated exports the
// per-deliverer summary instead of the filtered rows.
type ExportRequest struct {
	Query      QueryRequest
	Formats    []domain.ExportFormat
	Aggregated bool
	BaseName   string
}

// ReportService orchestrates the report pipeline over a session
type ReportService struct {
	loader   *ingest.Loader
	exporter *exporter.Manager
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewReportService creates a report service. metrics may be nil.
func NewReportService(loader *ingest.Loader, exp *exporter.Manager, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *ReportService {
	return &ReportService{
		loader:   loader,
		exporter: exp,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "report_service")),
		now:      time.Now,
	}
}

// WithClock replaces time.Now used for quality scoring
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// Load reads data into sess. On failure the session keeps its previous
// table and the summary carries the message to show the operator.
func (s *ReportService) Load(ctx context.Context, sess *session.Session, data []byte, filename string) (LoadSummary, error) {
	res, err := s.loader.Load(ctx, data, filename)
	if err != nil {
		return LoadSummary{Success: false, Message: apperrors.UserMessage(err), Filename: filename}, err
	}

	sess.Replace(session.Data{
		Table:           res.Table,
		Columns:         res.Columns,
		OriginalColumns: res.OriginalColumns,
		Filename:        res.Filename,
		LoadedAt:        res.LoadedAt,
	})

	return LoadSummary{
		Success:         true,
		Message:         res.Message,
		Filename:        res.Filename,
		Records:         res.Table.Len(),
		RawRows:         res.RawRows,
		Columns:         res.Columns.Clone(),
		OriginalColumns: append([]string(nil), res.OriginalColumns...),
	}, nil
}

// Query filters the loaded table and groups the result by deliverer. The
// filters and mode are remembered on the session.
func (s *ReportService) Query(ctx context.Context, sess *session.Session, req QueryRequest) (*QueryResult, error) {
	ctx, span := otel.Tracer(infrastructure.InstrumentationName).Start(ctx, "report.Query")
	defer span.End()
	start := time.Now()

	snap, err := loaded(sess)
	if err != nil {
		return nil, err
	}

	result, err := s.query(snap, req)
	s.metrics.RecordStage(ctx, "query", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sess.SetFilters(req.Filters, req.Mode)
	span.SetAttributes(
		attribute.Int("rows.total", result.Total),
		attribute.Int("rows.selected", result.Table.Len()),
		attribute.String("status.mode", string(result.Mode)),
	)
	s.logger.DebugContext(ctx, "query executed",
		slog.Int("total", result.Total),
		slog.Int("selected", result.Table.Len()),
		slog.String("mode", string(result.Mode)))
	return result, nil
}

func (s *ReportService) query(snap session.Snapshot, req QueryRequest) (*QueryResult, error) {
	if req.Filters.Range != nil {
		if err := dataprocessing.ValidateRange(*req.Filters.Range); err != nil {
			return nil, err
		}
	}

	mode := req.Mode
	if !mode.Valid() {
		mode = snap.Mode
	}

	filtered := dataprocessing.ApplyFilters(snap.Table, snap.Columns, req.Filters)
	filtered = dataprocessing.FilterByStatus(filtered, snap.Columns, mode)

	return &QueryResult{
		Table:     filtered,
		Aggregate: dataprocessing.GroupByDeliverer(filtered, snap.Columns),
		Mode:      mode,
		Total:     snap.Table.Len(),
	}, nil
}

// Statistics describes the whole loaded table
func (s *ReportService) Statistics(ctx context.Context, sess *session.Session) (domain.Statistics, error) {
	snap, err := loaded(sess)
	if err != nil {
		return domain.Statistics{}, err
	}
	return dataprocessing.ComputeStatistics(snap.Table, snap.Columns), nil
}

// Quality scores the completeness and consistency of the loaded table
func (s *ReportService) Quality(ctx context.Context, sess *session.Session) (domain.QualityReport, error) {
	_, span := otel.Tracer(infrastructure.InstrumentationName).Start(ctx, "report.Quality")
	defer span.End()

	snap, err := loaded(sess)
	if err != nil {
		return domain.QualityReport{}, err
	}
	report := dataprocessing.AssessQuality(snap.Table, snap.Columns, s.now())
	span.SetAttributes(attribute.Float64("quality.score", report.Score))
	return report, nil
}

// Options lists the distinct values of a role or column for selectors
func (s *ReportService) Options(ctx context.Context, sess *session.Session, key string) ([]string, error) {
	snap, err := loaded(sess)
	if err != nil {
		return nil, err
	}
	return dataprocessing.FilterOptions(snap.Table, snap.Columns, key), nil
}

// Columns returns the detected column map and the original header
func (s *ReportService) Columns(ctx context.Context, sess *session.Session) (domain.ColumnMap, []string, error) {
	snap, err := loaded(sess)
	if err != nil {
		return nil, nil, err
	}
	return snap.Columns, snap.OriginalColumns, nil
}

// AvailableFormats lists the export formats usable right now
func (s *ReportService) AvailableFormats() []domain.ExportFormat {
	return s.exporter.AvailableFormats()
}

// Export runs req.Query and renders the result in each requested format.
// Formats fail independently; only a failed query fails the whole call.
func (s *ReportService) Export(ctx context.Context, sess *session.Session, req ExportRequest) ([]exporter.Result, error) {
	ctx, span := otel.Tracer(infrastructure.InstrumentationName).Start(ctx, "report.Export")
	defer span.End()

	snap, err := loaded(sess)
	if err != nil {
		return nil, err
	}

	result, err := s.query(snap, req.Query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	table := result.Table
	if req.Aggregated {
		table = dataprocessing.AggregateTable(result.Aggregate)
	}

	formats := req.Formats
	if len(formats) == 0 {
		formats = s.exporter.AvailableFormats()
	}
	base := req.BaseName
	if base == "" {
		base = exporter.DefaultBaseName(s.now())
	}

	results := s.exporter.ExportMultiple(ctx, table, formats, base)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttributes(
		attribute.Int("export.formats", len(results)),
		attribute.Int("export.failed", failed),
		attribute.Bool("export.aggregated", req.Aggregated),
	)
	s.logger.InfoContext(ctx, "export finished",
		slog.String("user", sess.User.Username),
		slog.Int("rows", table.Len()),
		slog.Int("formats", len(results)),
		slog.Int("failed", failed))
	return results, nil
}

func loaded(sess *session.Session) (session.Snapshot, error) {
	snap := sess.Snapshot()
	if !snap.Loaded() {
		return snap, apperrors.NewAppError(apperrors.ErrTypeInput,
			"Nenhum arquivo carregado", apperrors.ErrNoDataLoaded)
	}
	return snap, nil
}
