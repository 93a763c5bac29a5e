package report

import (
	"github.com/ajitpratap0/cinelens/pkg/aggregate"
	"github.com/ajitpratap0/cinelens/pkg/schema"
)

// Profile describes a dataset before and after wrangling
type Profile struct {
	Dataset    string                    `json:"dataset" yaml:"dataset"`
	RawRows    int                       `json:"raw_rows" yaml:"raw_rows"`
	RawCols    int                       `json:"raw_cols" yaml:"raw_cols"`
	Rows       int                       `json:"rows" yaml:"rows"`
	Cols       int                       `json:"cols" yaml:"cols"`
	Duplicates int                       `json:"duplicates" yaml:"duplicates"`
	Columns    []*schema.InferredType    `json:"columns" yaml:"columns"`
	Missing    []aggregate.ColumnMissing `json:"missing" yaml:"missing"`
	Summary    []aggregate.ColumnSummary `json:"summary" yaml:"summary"`
}
