package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CINELENS_OUTPUT_FORMAT
const EnvPrefix = "CINELENS"

// NewViper returns a viper instance reading CINELENS_* environment variables.
// Nested keys use dots, which map to underscores in the environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyViper overlays every key set in v, from a bound flag or the
// environment, onto cfg. Unset keys leave cfg untouched.
func ApplyViper(v *viper.Viper, cfg *Config) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	list := func(key string, dst *[]string) {
		if v.IsSet(key) {
			*dst = splitList(v.GetStringSlice(key))
		}
	}

	str("input.path", &cfg.Input.Path)
	str("input.delimiter", &cfg.Input.Delimiter)

	list("cleaning.drop_columns", &cfg.Cleaning.DropColumns)
	list("cleaning.null_tokens", &cfg.Cleaning.NullTokens)
	list("cleaning.date_layouts", &cfg.Cleaning.DateLayouts)
	str("cleaning.date_column", &cfg.Cleaning.DateColumn)
	if v.IsSet("cleaning.century_pivot") {
		cfg.Cleaning.CenturyPivot = v.GetInt("cleaning.century_pivot")
	}

	str("enrichment.year_column", &cfg.Enrichment.YearColumn)

	str("analysis.id_column", &cfg.Analysis.IDColumn)
	str("analysis.revenue_column", &cfg.Analysis.RevenueColumn)
	str("analysis.popularity_column", &cfg.Analysis.PopularityColumn)
	str("analysis.vote_count_column", &cfg.Analysis.VoteCountColumn)
	str("analysis.runtime_column", &cfg.Analysis.RuntimeColumn)
	if v.IsSet("analysis.top_n") {
		cfg.Analysis.TopN = v.GetInt("analysis.top_n")
	}

	str("observability.log_level", &cfg.Observability.LogLevel)
	str("observability.log_encoding", &cfg.Observability.LogEncoding)
	if v.IsSet("observability.metrics") {
		cfg.Observability.Metrics = v.GetBool("observability.metrics")
	}
	if v.IsSet("observability.tracing") {
		cfg.Observability.Tracing = v.GetBool("observability.tracing")
	}

	str("output.format", &cfg.Output.Format)
}

// splitList accepts both repeated values and one comma-separated value
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
