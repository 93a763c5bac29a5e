package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/cinelens/pkg/config"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var configFile string

	root := &cobra.Command{
		Use:   "cinelens",
		Short: "cinelens - wrangle and analyze the TMDB movies dataset",
		Long: `cinelens loads a TMDB movie export, cleans it (drops unused columns, removes
duplicates, imputes missing numbers, parses release dates), derives the release
year and answers a fixed set of questions about popularity, revenue, votes and
runtime.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to a YAML configuration file")
	flags.String("delimiter", ",", "Field delimiter of the input file")
	flags.StringSlice("drop", nil, "Columns to drop before analysis (default: credits and free text)")
	flags.StringSlice("null-tokens", nil, "Cell values read as missing")
	flags.String("date-column", "release_date", "Column parsed as the release date; empty skips date handling")
	flags.Int("century-pivot", 0, "Move two-digit-year dates later than this year back one century")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-encoding", "console", "Log encoding (console, json)")
	flags.Bool("metrics", false, "Print Prometheus metrics to stderr after the run")
	flags.Bool("tracing", false, "Export OpenTelemetry spans to stderr")
	mustBind(v, flags, persistentBindings)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cinelens v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	analyzeCmd := &cobra.Command{
		Use:   "analyze <csv>",
		Short: "Answer the analysis questions",
		Long: `Run the full pipeline and answer:

  1. Does popularity affect revenue?
  2. Which year has the most movies released?
  3. Which year had the highest total vote count?
  4. How does vote count relate to popularity?
  5. Which movies have the highest and lowest revenue?
  6. Which movies have the highest and lowest runtime?

Example:
  cinelens analyze tmdb-movies.csv --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mustBind(v, cmd.Flags(), reportBindings)
			cfg, err := loadConfig(v, configFile, args[0])
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}
	analyzeCmd.Flags().StringP("format", "f", "text", "Report format (text, json, yaml)")
	analyzeCmd.Flags().Int("top", 10, "Rows shown per ranked listing in text output; 0 shows all")
	root.AddCommand(analyzeCmd)

	describeCmd := &cobra.Command{
		Use:   "describe <csv>",
		Short: "Profile the dataset before and after cleaning",
		Long: `Show the loaded and cleaned shape, inferred column types, missing values per
column, the number of duplicate rows and a numeric summary of every number column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mustBind(v, cmd.Flags(), reportBindings)
			cfg, err := loadConfig(v, configFile, args[0])
			if err != nil {
				return err
			}
			return runDescribe(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}
	describeCmd.Flags().StringP("format", "f", "text", "Profile format (text, json, yaml)")
	root.AddCommand(describeCmd)

	var outputFile, codec string
	exportCmd := &cobra.Command{
		Use:   "export <csv>",
		Short: "Write the cleaned table as an Arrow IPC stream",
		Long: `Run the pipeline and write the cleaned, enriched table as an Arrow IPC stream
for plotting tools (pyarrow, polars, DuckDB).

The output is compressed when --compress is given or the output name ends in
.gz, .zst, .lz4, .sz or .s2.

Example:
  cinelens export tmdb-movies.csv -o movies.arrows.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, configFile, args[0])
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, outputFile, codec)
		},
	}
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&codec, "compress", "", "Compression: none, gzip, zstd, lz4, snappy, s2 (default: from output name)")
	root.AddCommand(exportCmd)

	return root
}
