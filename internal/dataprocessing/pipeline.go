package dataprocessing

import (
	"log/slog"

	"logisticsmart/pkg/contracts/domain"
)

// Options configures the load-time pipeline
type Options struct {
	RequiredColumns []string
	Dates           DateOptions
}

// Prepared is a validated, normalized table with its column map
type Prepared struct {
	Table           *domain.Table
	Columns         domain.ColumnMap
	OriginalColumns []string
	RawRows         int
}

// Pipeline runs validation, column detection and preprocessing on raw tables
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

// NewPipeline creates a pipeline
func NewPipeline(opts Options, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		opts:   opts,
		logger: logger.With(slog.String("component", "pipeline")),
	}
}

// Options returns the configured options
func (p *Pipeline) Options() Options {
	return p.opts
}

// Prepare validates raw and returns its normalized form. Validation
// failures stop immediately and no table is returned.
func (p *Pipeline) Prepare(raw *domain.Table) (*Prepared, error) {
	if err := Validate(raw, p.opts.RequiredColumns); err != nil {
		p.logger.Warn("validation failed",
			slog.Int("rows", raw.Len()),
			slog.Int("columns", len(raw.Columns)),
			slog.String("error", err.Error()))
		return nil, err
	}

	cols := DetectColumns(raw.Columns, p.opts.RequiredColumns)
	table := Preprocess(raw, cols, p.opts.Dates)

	p.logger.Debug("table prepared",
		slog.Int("raw_rows", raw.Len()),
		slog.Int("rows", table.Len()),
		slog.Any("columns", cols))

	return &Prepared{
		Table:           table,
		Columns:         cols,
		OriginalColumns: append([]string(nil), raw.Columns...),
		RawRows:         raw.Len(),
	}, nil
}
