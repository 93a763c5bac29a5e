// Package config defines the configuration of a cinelens run.
//
// A run is described by a single Config structure organized into sections:
//
//   - Input: where the dataset lives and how it is delimited
//   - Cleaning: dropped columns, null tokens, date parsing
//   - Enrichment: derived columns
//   - Analysis: which columns the questions are asked about
//   - Observability: logging, metrics, tracing
//   - Output: report format
//
// # Sources
//
// Values are resolved in increasing priority:
//
//  1. NewDefaultConfig, tuned for the TMDB movies export
//  2. A YAML file passed to Load, with ${VAR_NAME} environment substitution
//  3. CINELENS_* environment variables and command-line flags, applied by ApplyViper
//
// # Configuration File
//
//	input:
//	  path: ${DATA_DIR}/tmdb-movies.csv
//	cleaning:
//	  drop_columns: [cast, director, homepage, tagline, overview, keywords]
//	  date_column: release_date
//	  century_pivot: 2025
//	analysis:
//	  top_n: 5
//	output:
//	  format: json
//
// # Environment
//
// Nested keys map to upper-case variables with underscores:
//
//	CINELENS_OUTPUT_FORMAT=yaml
//	CINELENS_CLEANING_DROP_COLUMNS=cast,director
//
// Validate must be called after all sources are applied.
package config
