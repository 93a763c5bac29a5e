package pipeline

import (
	"time"

	"github.com/ajitpratap0/cinelens/pkg/aggregate"
	"github.com/ajitpratap0/cinelens/pkg/models"
	"github.com/ajitpratap0/cinelens/pkg/schema"
)

// Stage names, in execution order
const (
	StageLoad    = "load"
	StageProject = "project"
	StageDedupe  = "dedupe"
	StageImpute  = "impute"
	StageDates   = "dates"
	StageEnrich  = "enrich"
)

// StageStat records one executed stage
type StageStat struct {
	Name     string        `json:"name" yaml:"name"`
	RowsIn   int           `json:"rows_in" yaml:"rows_in"`
	RowsOut  int           `json:"rows_out" yaml:"rows_out"`
	ColsOut  int           `json:"cols_out" yaml:"cols_out"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Shape is a table's dimensions
type Shape struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// ShapeOf returns the dimensions of t
func ShapeOf(t *models.Table) Shape {
	return Shape{Rows: t.NumRows(), Cols: t.NumCols()}
}

// Result is the outcome of a successful run
type Result struct {
	// RunID identifies the run in log entries
	RunID string `json:"run_id" yaml:"run_id"`
	// Table is the cleaned and enriched table
	Table *models.Table `json:"-" yaml:"-"`
	// Raw is the shape of the table as loaded
	Raw Shape `json:"raw" yaml:"raw"`
	// Clean is the shape of the final table
	Clean Shape `json:"clean" yaml:"clean"`
	// Columns describes each loaded column's inferred type
	Columns []*schema.InferredType `json:"columns" yaml:"columns"`
	// Missing holds per-column null counts of the loaded table
	Missing []aggregate.ColumnMissing `json:"missing" yaml:"missing"`
	// Duplicates is the number of rows deduplication removed
	Duplicates int           `json:"duplicates" yaml:"duplicates"`
	Stages     []StageStat   `json:"stages" yaml:"stages"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Stage returns the stat of the named stage, if it ran
func (r *Result) Stage(name string) (StageStat, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageStat{}, false
}
