package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/cinelens/internal/pipeline"
	"github.com/ajitpratap0/cinelens/pkg/aggregate"
	"github.com/ajitpratap0/cinelens/pkg/compression"
	"github.com/ajitpratap0/cinelens/pkg/config"
	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/logger"
	"github.com/ajitpratap0/cinelens/pkg/metrics"
	"github.com/ajitpratap0/cinelens/pkg/models"
	"github.com/ajitpratap0/cinelens/pkg/observability"
	"github.com/ajitpratap0/cinelens/pkg/report"
)

// viper keys bound to flags, keyed by flag name
var (
	persistentBindings = map[string]string{
		"delimiter":     "input.delimiter",
		"drop":          "cleaning.drop_columns",
		"null-tokens":   "cleaning.null_tokens",
		"date-column":   "cleaning.date_column",
		"century-pivot": "cleaning.century_pivot",
		"log-level":     "observability.log_level",
		"log-encoding":  "observability.log_encoding",
		"metrics":       "observability.metrics",
		"tracing":       "observability.tracing",
	}
	reportBindings = map[string]string{
		"format": "output.format",
		"top":    "analysis.top_n",
	}
)

// mustBind binds the flags of fs that appear in bindings. Command-local flags
// are bound when their command runs, since analyze and describe share keys.
func mustBind(v *viper.Viper, fs *pflag.FlagSet, bindings map[string]string) {
	for name, key := range bindings {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	}
}

// loadConfig layers defaults, the optional YAML file, then environment and
// flags. The positional path wins over any configured input path.
func loadConfig(v *viper.Viper, file, path string) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if file != "" {
		if err := config.Load(file, cfg); err != nil {
			return nil, err
		}
	}
	config.ApplyViper(v, cfg)
	cfg.Input.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session holds the observability plumbing of one command run
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	collector *metrics.Collector
	provider  *observability.Provider
	stderr    io.Writer
}

func newSession(cfg *config.Config, stderr io.Writer) (*session, error) {
	if err := logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogEncoding,
	}); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to initialize logger")
	}

	s := &session{
		cfg:    cfg,
		logger: logger.Get(),
		stderr: stderr,
	}

	if cfg.Observability.Metrics {
		s.collector = metrics.NewCollector("cinelens")
	}

	tc := observability.DefaultConfig()
	tc.Enabled = cfg.Observability.Tracing
	tc.ServiceVersion = version
	tc.Writer = stderr
	provider, err := observability.Initialize(tc)
	if err != nil {
		return nil, err
	}
	s.provider = provider
	return s, nil
}

// run executes the pipeline and points the session logger at the run's ID
// and dataset
func (s *session) run(ctx context.Context) (*pipeline.Result, error) {
	opts := []pipeline.Option{pipeline.WithTracing(s.provider)}
	if s.collector != nil {
		opts = append(opts, pipeline.WithMetrics(s.collector))
	}

	ctx = context.WithValue(ctx, logger.DatasetKey, filepath.Base(s.cfg.Input.Path))
	res, err := pipeline.New(s.cfg, logger.Get(), opts...).Run(ctx)
	if err != nil {
		return nil, err
	}
	s.logger = logger.WithContext(context.WithValue(ctx, logger.RunIDKey, res.RunID))
	return res, nil
}

// close flushes spans, metrics and logs. Flush failures are logged only.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.provider.Shutdown(ctx); err != nil {
		s.logger.Warn("failed to flush spans", zap.Error(err))
	}
	if s.collector != nil {
		if err := s.collector.WriteText(s.stderr); err != nil {
			s.logger.Warn("failed to write metrics", zap.Error(err))
		}
	}
	_ = logger.Sync()
}

func runAnalyze(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config) error {
	s, err := newSession(cfg, stderr)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.run(ctx)
	if err != nil {
		return err
	}

	rep, err := report.Build(ctx, res.Table, report.OptionsFromConfig(cfg, s.logger))
	if err != nil {
		return err
	}
	s.logger.Info("analysis complete",
		zap.Int("rows", rep.Rows),
		zap.Duration("duration", res.Duration))

	return report.Write(stdout, rep, cfg.Output.Format, cfg.Analysis.TopN)
}

func runDescribe(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config) error {
	s, err := newSession(cfg, stderr)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.run(ctx)
	if err != nil {
		return err
	}

	p := &report.Profile{
		Dataset:    cfg.Input.Path,
		RawRows:    res.Raw.Rows,
		RawCols:    res.Raw.Cols,
		Rows:       res.Clean.Rows,
		Cols:       res.Clean.Cols,
		Duplicates: res.Duplicates,
		Columns:    res.Columns,
		Missing:    res.Missing,
		Summary:    aggregate.Describe(res.Table),
	}
	return report.Write(stdout, p, cfg.Output.Format, 0)
}

func runExport(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, output, codec string) error {
	algo := compression.FromPath(output)
	if codec != "" {
		var err error
		if algo, err = compression.Parse(codec); err != nil {
			return err
		}
	}

	s, err := newSession(cfg, stderr)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.run(ctx)
	if err != nil {
		return err
	}

	write := func(dst io.Writer) error { return writeIPC(dst, res.Table, algo) }
	if output == "" {
		err = write(stdout)
	} else {
		err = exportFile(output, write)
	}
	if err != nil {
		return err
	}

	s.logger.Info("table exported",
		zap.Int("rows", res.Clean.Rows),
		zap.Int("cols", res.Clean.Cols),
		zap.String("output", output),
		zap.String("compression", string(algo)))
	return nil
}

// exportFile creates path and fills it with write. A failed write or close
// removes the partial file.
func exportFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path) //nolint:gosec // G304: path is the user's output file
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to create output file").
			WithDetail("path", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrorTypeIO, "failed to close output file").
				WithDetail("path", path)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return write(f)
}

func writeIPC(dst io.Writer, t *models.Table, algo compression.Algorithm) error {
	w, err := compression.NewWriter(dst, algo, compression.Default)
	if err != nil {
		return err
	}
	if err := report.WriteIPC(w, t); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to flush compressed output")
	}
	return nil
}
