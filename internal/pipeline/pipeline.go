// Package pipeline runs the cinelens wrangling stages in order.
//
// # Overview
//
// A run loads the configured CSV file and passes the table through:
//   - project: drop columns the analysis never reads
//   - dedupe: remove exact duplicate rows
//   - impute: fill numeric nulls with the column mean
//   - dates: parse the release date column
//   - enrich: derive the release year
//
// Every stage is a pure function over an immutable table. The pipeline adds
// logging, metrics and tracing around each one and records its statistics.
//
// # Basic Usage
//
//	p := pipeline.New(cfg, logger,
//	    pipeline.WithMetrics(collector),
//	    pipeline.WithTracing(provider),
//	)
//	result, err := p.Run(ctx)
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajitpratap0/cinelens/pkg/aggregate"
	"github.com/ajitpratap0/cinelens/pkg/clean"
	"github.com/ajitpratap0/cinelens/pkg/config"
	"github.com/ajitpratap0/cinelens/pkg/enrich"
	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/loader"
	"github.com/ajitpratap0/cinelens/pkg/logger"
	"github.com/ajitpratap0/cinelens/pkg/metrics"
	"github.com/ajitpratap0/cinelens/pkg/models"
	"github.com/ajitpratap0/cinelens/pkg/observability"
)

// Pipeline executes the wrangling stages for one configuration
type Pipeline struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector         // optional
	tracer  *observability.StageTracer // optional
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithMetrics records stage metrics on c
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pipeline) { p.metrics = c }
}

// WithTracing opens one span per stage on the provider's tracer
func WithTracing(provider *observability.Provider) Option {
	return func(p *Pipeline) { p.tracer = observability.NewStageTracer(provider, "cinelens") }
}

// New creates a pipeline. A nil logger disables logging.
func New(cfg *config.Config, log *zap.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: log.With(zap.String("component", "pipeline")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads, cleans and enriches the configured dataset. It stops at the
// first failing stage and returns that stage's error unchanged.
//
// Log entries carry the run ID, dataset and stage found in ctx. A run ID is
// generated when ctx has none.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID, _ := ctx.Value(logger.RunIDKey).(string)
	if runID == "" {
		runID = uuid.NewString()
		ctx = context.WithValue(ctx, logger.RunIDKey, runID)
	}
	log := p.logger.With(logger.Fields(ctx)...)
	log.Info("starting pipeline",
		zap.String("input", p.cfg.Input.Path),
		zap.Strings("drop", p.cfg.Cleaning.DropColumns),
		zap.String("date_column", p.cfg.Cleaning.DateColumn))

	result := &Result{RunID: runID}

	var loaded *loader.Result
	table, err := p.stage(ctx, result, StageLoad, nil, func(ctx context.Context) (*models.Table, error) {
		var err error
		loaded, err = loader.Load(ctx, p.cfg.Input.Path, loader.Options{
			Delimiter:  p.cfg.DelimiterRune(),
			NullTokens: p.cfg.Cleaning.NullTokens,
			Logger:     log,
		})
		if err != nil {
			return nil, err
		}
		return loaded.Table, nil
	})
	if err != nil {
		return nil, err
	}
	result.Raw = ShapeOf(table)
	result.Columns = loaded.Columns
	result.Missing = aggregate.MissingCounts(table)

	table, err = p.stage(ctx, result, StageProject, table, func(context.Context) (*models.Table, error) {
		return clean.Project(table, p.cfg.Cleaning.DropColumns)
	})
	if err != nil {
		return nil, err
	}

	before := table.NumRows()
	table, err = p.stage(ctx, result, StageDedupe, table, func(context.Context) (*models.Table, error) {
		return clean.Deduplicate(table), nil
	})
	if err != nil {
		return nil, err
	}
	result.Duplicates = before - table.NumRows()

	table, err = p.stage(ctx, result, StageImpute, table, func(context.Context) (*models.Table, error) {
		return clean.Impute(table)
	})
	if err != nil {
		return nil, err
	}

	if dateColumn := p.cfg.Cleaning.DateColumn; dateColumn != "" {
		table, err = p.stage(ctx, result, StageDates, table, func(context.Context) (*models.Table, error) {
			return clean.NormalizeDates(table, dateColumn, clean.DateOptions{
				Layouts:      p.cfg.Cleaning.DateLayouts,
				CenturyPivot: p.cfg.Cleaning.CenturyPivot,
			})
		})
		if err != nil {
			return nil, err
		}

		table, err = p.stage(ctx, result, StageEnrich, table, func(context.Context) (*models.Table, error) {
			return enrich.AddYear(table, dateColumn, p.cfg.Enrichment.YearColumn)
		})
		if err != nil {
			return nil, err
		}
	}

	result.Table = table
	result.Clean = ShapeOf(table)
	result.Duration = time.Since(start)

	log.Info("pipeline completed",
		zap.Int("raw_rows", result.Raw.Rows),
		zap.Int("rows", result.Clean.Rows),
		zap.Int("cols", result.Clean.Cols),
		zap.Int("duplicates", result.Duplicates),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// stage runs fn with cancellation, tracing, metrics and logging, and appends
// its StageStat to result. in is nil for the load stage.
func (p *Pipeline) stage(ctx context.Context, result *Result, name string, in *models.Table,
	fn func(context.Context) (*models.Table, error)) (*models.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "pipeline cancelled").
			WithDetail("stage", name)
	}

	ctx = context.WithValue(ctx, logger.StageKey, name)
	log := p.logger.With(logger.Fields(ctx)...)

	rowsIn := 0
	if in != nil {
		rowsIn = in.NumRows()
	}

	timer := metrics.NewTimer(name)
	var out *models.Table
	run := func(ctx context.Context) (int, error) {
		var err error
		out, err = fn(ctx)
		if err != nil {
			return 0, err
		}
		return out.NumRows(), nil
	}

	var err error
	if p.tracer != nil {
		_, err = p.tracer.TraceStage(ctx, name, rowsIn, run)
	} else {
		_, err = run(ctx)
	}
	elapsed := timer.Stop()

	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError(name, err)
		}
		log.Error("stage failed",
			zap.String("kind", string(errors.TypeOf(err))),
			zap.Error(err))
		return nil, err
	}

	stat := StageStat{
		Name:     name,
		RowsIn:   rowsIn,
		RowsOut:  out.NumRows(),
		ColsOut:  out.NumCols(),
		Duration: elapsed,
	}
	result.Stages = append(result.Stages, stat)
	if p.metrics != nil {
		p.metrics.ObserveStage(name, elapsed, stat.RowsOut)
	}
	log.Debug("stage completed",
		zap.Int("rows_in", stat.RowsIn),
		zap.Int("rows_out", stat.RowsOut),
		zap.Int("cols_out", stat.ColsOut),
		zap.Duration("duration", elapsed))

	return out, nil
}
