package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"logisticsmart/internal/dataprocessing"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/pkg/contracts/domain"
)

// LoadResult is a validated, normalized delivery table ready for queries.
// Results may be shared through the cache and must be treated as read-only.
type LoadResult struct {
	Table           *domain.Table
	Columns         domain.ColumnMap
	OriginalColumns []string
	Filename        string
	Format          Format
	RawRows         int
	Message         string
	LoadedAt        time.Time
}

// Loader reads uploaded files and prepares them for the report pipeline
type Loader struct {
	pipeline *dataprocessing.Pipeline
	cache    *Cache
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

// NewLoader creates a loader. cache and metrics may be nil.
func NewLoader(pipeline *dataprocessing.Pipeline, cache *Cache, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Loader {
	return &Loader{
		pipeline: pipeline,
		cache:    cache,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "loader")),
	}
}

// Load decodes data, validates it, detects columns and preprocesses the
// rows. On failure no table is returned.
func (l *Loader) Load(ctx context.Context, data []byte, filename string) (*LoadResult, error) {
	ctx, span := otel.Tracer(infrastructure.InstrumentationName).Start(ctx, "ingest.Load")
	defer span.End()
	span.SetAttributes(
		attribute.String("file.name", filename),
		attribute.Int("file.size", len(data)),
	)

	start := time.Now()
	format, err := DetectFormat(filename)
	if err != nil {
		l.fail(ctx, span, filename, string(format), start, err)
		return nil, err
	}

	var (
		result *LoadResult
		cached bool
	)
	if l.cache != nil {
		result, cached, err = l.cache.GetOrLoad(CacheKey(data, filename), func() (*LoadResult, error) {
			return l.load(data, filename, format)
		})
	} else {
		result, err = l.load(data, filename, format)
	}
	if err != nil {
		l.fail(ctx, span, filename, string(format), start, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows.raw", result.RawRows),
		attribute.Int("rows.prepared", result.Table.Len()),
		attribute.Bool("cache.hit", cached),
	)
	l.metrics.RecordStage(ctx, "load", start, nil)
	l.metrics.RecordLoad(ctx, string(format), result.Table.Len(), cached, nil)

	l.logger.InfoContext(ctx, "file loaded",
		slog.String("filename", filename),
		slog.String("format", string(format)),
		slog.Int("raw_rows", result.RawRows),
		slog.Int("rows", result.Table.Len()),
		slog.Bool("cached", cached),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

func (l *Loader) load(data []byte, filename string, format Format) (*LoadResult, error) {
	raw, err := ReadTable(data, filename)
	if err != nil {
		return nil, err
	}

	prepared, err := l.pipeline.Prepare(raw)
	if err != nil {
		return nil, err
	}

	return &LoadResult{
		Table:           prepared.Table,
		Columns:         prepared.Columns,
		OriginalColumns: prepared.OriginalColumns,
		Filename:        filename,
		Format:          format,
		RawRows:         prepared.RawRows,
		Message:         fmt.Sprintf("Arquivo carregado: %d registros", prepared.RawRows),
		LoadedAt:        time.Now(),
	}, nil
}

func (l *Loader) fail(ctx context.Context, span trace.Span, filename, format string, start time.Time, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	l.metrics.RecordStage(ctx, "load", start, err)
	l.metrics.RecordLoad(ctx, format, 0, false, err)
	l.logger.WarnContext(ctx, "file load failed",
		slog.String("filename", filename),
		slog.String("error", err.Error()))
}
