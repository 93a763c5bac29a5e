package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ajitpratap0/cinelens/pkg/errors"
)

// Report formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultDropColumns are the free-text and credit columns the analysis never reads
var DefaultDropColumns = []string{
	"cast",
	"director",
	"homepage",
	"production_companies",
	"tagline",
	"overview",
	"keywords",
}

// Config is the full configuration of one run
type Config struct {
	Input         InputConfig         `yaml:"input" json:"input" mapstructure:"input"`
	Cleaning      CleaningConfig      `yaml:"cleaning" json:"cleaning" mapstructure:"cleaning"`
	Enrichment    EnrichmentConfig    `yaml:"enrichment" json:"enrichment" mapstructure:"enrichment"`
	Analysis      AnalysisConfig      `yaml:"analysis" json:"analysis" mapstructure:"analysis"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
	Output        OutputConfig        `yaml:"output" json:"output" mapstructure:"output"`
}

// InputConfig locates the dataset
type InputConfig struct {
	// Path of the CSV file
	Path string `yaml:"path" json:"path" mapstructure:"path"`
	// Delimiter is a single character; empty means comma
	Delimiter string `yaml:"delimiter" json:"delimiter" mapstructure:"delimiter"`
}

// CleaningConfig controls the cleaning stages
type CleaningConfig struct {
	DropColumns []string `yaml:"drop_columns" json:"drop_columns" mapstructure:"drop_columns"`
	// NullTokens are cell values read as missing; empty means the loader defaults
	NullTokens []string `yaml:"null_tokens" json:"null_tokens" mapstructure:"null_tokens"`
	DateColumn string   `yaml:"date_column" json:"date_column" mapstructure:"date_column"`
	// DateLayouts are Go time layouts tried in order; empty means the defaults
	DateLayouts []string `yaml:"date_layouts" json:"date_layouts" mapstructure:"date_layouts"`
	// CenturyPivot moves a two-digit-year date later than this year back one
	// century. Zero keeps Go's own pivot.
	CenturyPivot int `yaml:"century_pivot" json:"century_pivot" mapstructure:"century_pivot"`
}

// EnrichmentConfig names derived columns
type EnrichmentConfig struct {
	YearColumn string `yaml:"year_column" json:"year_column" mapstructure:"year_column"`
}

// AnalysisConfig names the columns each question reads
type AnalysisConfig struct {
	IDColumn         string `yaml:"id_column" json:"id_column" mapstructure:"id_column"`
	RevenueColumn    string `yaml:"revenue_column" json:"revenue_column" mapstructure:"revenue_column"`
	PopularityColumn string `yaml:"popularity_column" json:"popularity_column" mapstructure:"popularity_column"`
	VoteCountColumn  string `yaml:"vote_count_column" json:"vote_count_column" mapstructure:"vote_count_column"`
	RuntimeColumn    string `yaml:"runtime_column" json:"runtime_column" mapstructure:"runtime_column"`
	// TopN limits ranked listings in the text report; 0 shows everything
	TopN int `yaml:"top_n" json:"top_n" mapstructure:"top_n"`
}

// ObservabilityConfig controls logging, metrics and tracing
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	LogEncoding string `yaml:"log_encoding" json:"log_encoding" mapstructure:"log_encoding"`
	Metrics     bool   `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
	Tracing     bool   `yaml:"tracing" json:"tracing" mapstructure:"tracing"`
}

// OutputConfig controls the report
type OutputConfig struct {
	Format string `yaml:"format" json:"format" mapstructure:"format"`
}

// NewDefaultConfig returns the configuration for the TMDB movies dataset
func NewDefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Delimiter: ",",
		},
		Cleaning: CleaningConfig{
			DropColumns: append([]string(nil), DefaultDropColumns...),
			DateColumn:  "release_date",
		},
		Enrichment: EnrichmentConfig{
			YearColumn: "release_year",
		},
		Analysis: AnalysisConfig{
			IDColumn:         "original_title",
			RevenueColumn:    "revenue",
			PopularityColumn: "popularity",
			VoteCountColumn:  "vote_count",
			RuntimeColumn:    "runtime",
			TopN:             10,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "warn",
			LogEncoding: "console",
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// DelimiterRune returns the input delimiter as a rune
func (c *Config) DelimiterRune() rune {
	if c.Input.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.New(errors.ErrorTypeConfig, "input path is required")
	}
	if utf8.RuneCountInString(c.Input.Delimiter) > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if c.DelimiterRune() == '"' || c.DelimiterRune() == '\n' || c.DelimiterRune() == '\r' {
		return errors.Newf(errors.ErrorTypeConfig, "delimiter %q is not allowed", c.Input.Delimiter)
	}
	if c.Cleaning.CenturyPivot != 0 && (c.Cleaning.CenturyPivot < 1969 || c.Cleaning.CenturyPivot > 2068) {
		return errors.Newf(errors.ErrorTypeConfig, "century pivot must be a year between 1969 and 2068, got %d", c.Cleaning.CenturyPivot)
	}
	if c.Cleaning.DateColumn != "" && c.Enrichment.YearColumn == "" {
		return errors.New(errors.ErrorTypeConfig, "year column is required when a date column is set")
	}

	required := map[string]string{
		"id column":         c.Analysis.IDColumn,
		"revenue column":    c.Analysis.RevenueColumn,
		"popularity column": c.Analysis.PopularityColumn,
		"vote count column": c.Analysis.VoteCountColumn,
		"runtime column":    c.Analysis.RuntimeColumn,
	}
	for name, value := range required {
		if value == "" {
			return errors.Newf(errors.ErrorTypeConfig, "%s is required", name)
		}
	}
	for _, dropped := range c.Cleaning.DropColumns {
		for name, value := range required {
			if dropped == value {
				return errors.Newf(errors.ErrorTypeConfig, "%s %q is in the drop list", name, value)
			}
		}
	}

	if c.Analysis.TopN < 0 {
		return errors.Newf(errors.ErrorTypeConfig, "top_n must not be negative, got %d", c.Analysis.TopN)
	}

	switch strings.ToLower(c.Output.Format) {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown output format %q", c.Output.Format)
	}

	switch strings.ToLower(c.Observability.LogEncoding) {
	case "", "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown log encoding %q", c.Observability.LogEncoding)
	}

	return nil
}

// String returns a one-line summary for logs
func (c *Config) String() string {
	return fmt.Sprintf("input=%s format=%s drop=%d date=%s",
		c.Input.Path, c.Output.Format, len(c.Cleaning.DropColumns), c.Cleaning.DateColumn)
}
