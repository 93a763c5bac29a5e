// Package cinelens wrangles and analyzes the TMDB movies dataset.
//
// A run loads a CSV export of the TMDB catalogue, cleans it and answers six
// fixed questions about popularity, revenue, votes and runtime.
//
// # Architecture
//
// The work flows through five layers, each a package over an immutable
// models.Table:
//
//  1. loader: reads the (optionally compressed) CSV file and infers a kind
//     for every column (pkg/schema).
//  2. clean: drops unused columns, removes duplicate rows, fills numeric
//     gaps with the column mean and parses the release date.
//  3. enrich: derives the release year from the parsed date.
//  4. aggregate: grouping, extreme rows, Pearson correlation, missing value
//     counts and numeric summaries.
//  5. report: answers the questions and renders them as text, JSON, YAML or
//     an Arrow IPC stream.
//
// internal/pipeline runs layers 1 to 3 with logging (zap), Prometheus metrics
// and OpenTelemetry spans around every stage.
//
// # Quick Start
//
//	cfg := config.NewDefaultConfig()
//	cfg.Input.Path = "tmdb-movies.csv"
//
//	result, err := pipeline.New(cfg, logger.Get()).Run(ctx)
//	if err != nil {
//	    return err
//	}
//	rep, err := report.Build(ctx, result.Table, report.OptionsFromConfig(cfg, logger.Get()))
//	if err != nil {
//	    return err
//	}
//	return report.Write(os.Stdout, rep, config.FormatText, cfg.Analysis.TopN)
//
// # Command Line
//
//	cinelens analyze tmdb-movies.csv --format json
//	cinelens describe tmdb-movies.csv.gz
//	cinelens export tmdb-movies.csv -o movies.arrows.zst
//
// # Configuration
//
// Settings come from defaults, an optional YAML file (--config), CINELENS_*
// environment variables (a .env file is read when present) and flags, in
// increasing precedence. See pkg/config.
package cinelens
