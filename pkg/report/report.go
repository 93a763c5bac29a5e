// Package report answers the analysis questions over a cleaned table and
// renders the answers.
//
// Build runs every question concurrently; tables are immutable, so the
// questions share one table without locking. Rendering is a separate step so
// the same Report can be written as text, JSON or YAML.
package report

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/cinelens/pkg/aggregate"
	"github.com/ajitpratap0/cinelens/pkg/config"
	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/models"
)

// Options names the columns the questions read
type Options struct {
	IDColumn         string
	YearColumn       string
	RevenueColumn    string
	PopularityColumn string
	VoteCountColumn  string
	RuntimeColumn    string
	// TopN limits ranked listings in the text rendering; 0 shows all
	TopN   int
	Logger *zap.Logger
}

// OptionsFromConfig maps the analysis section of cfg onto Options
func OptionsFromConfig(cfg *config.Config, logger *zap.Logger) Options {
	return Options{
		IDColumn:         cfg.Analysis.IDColumn,
		YearColumn:       cfg.Enrichment.YearColumn,
		RevenueColumn:    cfg.Analysis.RevenueColumn,
		PopularityColumn: cfg.Analysis.PopularityColumn,
		VoteCountColumn:  cfg.Analysis.VoteCountColumn,
		RuntimeColumn:    cfg.Analysis.RuntimeColumn,
		TopN:             cfg.Analysis.TopN,
		Logger:           logger,
	}
}

// Correlation answers a "does x relate to y" question. The paired values are
// kept for plotting but left out of serialized reports.
type Correlation struct {
	X     string `json:"x" yaml:"x"`
	Y     string `json:"y" yaml:"y"`
	Pairs int    `json:"pairs" yaml:"pairs"`
	// Pearson is nil when the coefficient is undefined
	Pearson *float64          `json:"pearson" yaml:"pearson"`
	Note    string            `json:"note,omitempty" yaml:"note,omitempty"`
	Series  *aggregate.Series `json:"-" yaml:"-"`
}

// Strength describes the absolute coefficient in words
func (c *Correlation) Strength() string {
	if c.Pearson == nil {
		return "undefined"
	}
	r := *c.Pearson
	if r < 0 {
		r = -r
	}
	switch {
	case r >= 0.7:
		return "strong"
	case r >= 0.4:
		return "moderate"
	case r >= 0.2:
		return "weak"
	default:
		return "negligible"
	}
}

// Grouping answers a "which year has the most" question
type Grouping struct {
	By  string           `json:"by" yaml:"by"`
	Of  string           `json:"of,omitempty" yaml:"of,omitempty"`
	Top aggregate.Ranked `json:"top" yaml:"top"`
	// Groups are ordered by value descending, ties by key
	Groups []aggregate.Ranked `json:"groups" yaml:"groups"`
}

// Extremes answers a "highest and lowest" question
type Extremes struct {
	Column  string             `json:"column" yaml:"column"`
	Highest *aggregate.Extreme `json:"highest" yaml:"highest"`
	Lowest  *aggregate.Extreme `json:"lowest" yaml:"lowest"`
}

// Report holds the answers to every question
type Report struct {
	Rows                int         `json:"rows" yaml:"rows"`
	PopularityRevenue   Correlation `json:"popularity_revenue" yaml:"popularity_revenue"`
	MoviesPerYear       Grouping    `json:"movies_per_year" yaml:"movies_per_year"`
	VotesPerYear        Grouping    `json:"votes_per_year" yaml:"votes_per_year"`
	VoteCountPopularity Correlation `json:"vote_count_popularity" yaml:"vote_count_popularity"`
	Revenue             Extremes    `json:"revenue" yaml:"revenue"`
	Runtime             Extremes    `json:"runtime" yaml:"runtime"`
	RevenuePerYear      Grouping    `json:"revenue_per_year" yaml:"revenue_per_year"`
}

// Build answers every question over t. The first failing question cancels
// the rest and its error is returned.
func Build(ctx context.Context, t *models.Table, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if t.NumRows() == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyTable, "nothing to report on an empty table")
	}

	r := &Report{Rows: t.NumRows()}
	g, ctx := errgroup.WithContext(ctx)

	// Each question writes only its own field of r.
	question := func(name string, fn func() error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(); err != nil {
				logger.Debug("question failed", zap.String("question", name), zap.Error(err))
				return err
			}
			return nil
		})
	}

	question("popularity_revenue", func() (err error) {
		r.PopularityRevenue, err = correlate(t, opts.PopularityColumn, opts.RevenueColumn)
		return err
	})
	question("movies_per_year", func() error {
		counts, err := aggregate.GroupCount(t, opts.YearColumn, "")
		if err != nil {
			return err
		}
		r.MoviesPerYear = grouping(opts.YearColumn, "", aggregate.TopGroups(counts, 0))
		return nil
	})
	question("votes_per_year", func() error {
		sums, err := aggregate.GroupSum(t, opts.YearColumn, opts.VoteCountColumn)
		if err != nil {
			return err
		}
		r.VotesPerYear = grouping(opts.YearColumn, opts.VoteCountColumn, aggregate.TopGroups(sums, 0))
		return nil
	})
	question("vote_count_popularity", func() (err error) {
		r.VoteCountPopularity, err = correlate(t, opts.VoteCountColumn, opts.PopularityColumn)
		return err
	})
	question("revenue_extremes", func() (err error) {
		r.Revenue, err = extremes(t, opts.RevenueColumn, opts.IDColumn)
		return err
	})
	question("runtime_extremes", func() (err error) {
		r.Runtime, err = extremes(t, opts.RuntimeColumn, opts.IDColumn)
		return err
	})
	question("revenue_per_year", func() error {
		sums, err := aggregate.GroupSum(t, opts.YearColumn, opts.RevenueColumn)
		if err != nil {
			return err
		}
		r.RevenuePerYear = grouping(opts.YearColumn, opts.RevenueColumn, aggregate.TopGroups(sums, 0))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("report built", zap.Int("rows", r.Rows))
	return r, nil
}

func correlate(t *models.Table, x, y string) (Correlation, error) {
	s, err := aggregate.Paired(t, x, y)
	if err != nil {
		return Correlation{}, err
	}
	c := Correlation{X: x, Y: y, Pairs: s.Len(), Series: s}

	r, err := aggregate.Pearson(s)
	switch {
	case err == nil:
		c.Pearson = &r
	case errors.IsType(err, errors.ErrorTypeInvalidColumn):
		// an undefined coefficient is an answer, not a failure
		c.Note = err.Error()
	default:
		return Correlation{}, err
	}
	return c, nil
}

func grouping(by, of string, ranked []aggregate.Ranked) Grouping {
	g := Grouping{By: by, Of: of, Groups: ranked}
	if len(ranked) > 0 {
		g.Top = ranked[0]
	}
	return g
}

func extremes(t *models.Table, column, id string) (Extremes, error) {
	hi, err := aggregate.ExtremeRows(t, column, aggregate.Max, id)
	if err != nil {
		return Extremes{}, err
	}
	lo, err := aggregate.ExtremeRows(t, column, aggregate.Min, id)
	if err != nil {
		return Extremes{}, err
	}
	return Extremes{Column: column, Highest: hi, Lowest: lo}, nil
}
