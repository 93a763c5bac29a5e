package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/cinelens/pkg/aggregate"
	"github.com/ajitpratap0/cinelens/pkg/config"
	"github.com/ajitpratap0/cinelens/pkg/errors"
	"github.com/ajitpratap0/cinelens/pkg/json"
)

const barWidth = 30

// Write renders a Report or Profile in the given format. topN limits ranked
// listings in text output; 0 shows everything.
func Write(w io.Writer, v interface{}, format string, topN int) error {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		if err := json.Encode(w, v, "  "); err != nil {
			return errors.Wrap(err, errors.ErrorTypeIO, "failed to write JSON report")
		}
		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, errors.ErrorTypeIO, "failed to write YAML report")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeIO, "failed to write YAML report")
		}
		return nil
	case config.FormatText, "":
		switch r := v.(type) {
		case *Report:
			return writeReportText(w, r, topN)
		case *Profile:
			return writeProfileText(w, r)
		}
		return errors.Newf(errors.ErrorTypeInternal, "no text rendering for %T", v)
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown output format %q", format)
	}
}

func writeReportText(w io.Writer, r *Report, topN int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "cinelens report (%d movies)\n\n", r.Rows)

	fmt.Fprintln(tw, "Q1. Does popularity affect revenue?")
	writeCorrelation(tw, &r.PopularityRevenue)

	fmt.Fprintln(tw, "Q2. Which year has the most movies released?")
	fmt.Fprintf(tw, "  %s: %s movies\n", r.MoviesPerYear.Top.Key, formatNumber(r.MoviesPerYear.Top.Value))
	writeRanked(tw, "YEAR", "MOVIES", r.MoviesPerYear.Groups, topN)

	fmt.Fprintln(tw, "Q3. Which year had the highest total vote count?")
	fmt.Fprintf(tw, "  %s: %s votes\n", r.VotesPerYear.Top.Key, formatNumber(r.VotesPerYear.Top.Value))
	writeRanked(tw, "YEAR", "VOTES", r.VotesPerYear.Groups, topN)

	fmt.Fprintln(tw, "Q4. How does vote count relate to popularity?")
	writeCorrelation(tw, &r.VoteCountPopularity)

	fmt.Fprintln(tw, "Q5. Which movies have the highest and lowest revenue?")
	writeExtremes(tw, &r.Revenue)

	fmt.Fprintln(tw, "Q6. Which movies have the highest and lowest runtime?")
	writeExtremes(tw, &r.Runtime)

	fmt.Fprintln(tw, "Revenue per year")
	writeRanked(tw, "YEAR", "REVENUE", r.RevenuePerYear.Groups, topN)

	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write report")
	}
	return nil
}

func writeCorrelation(w io.Writer, c *Correlation) {
	if c.Pearson == nil {
		fmt.Fprintf(w, "  %s vs %s: %d pairs, correlation undefined (%s)\n\n", c.X, c.Y, c.Pairs, c.Note)
		return
	}
	fmt.Fprintf(w, "  %s vs %s: %d pairs, pearson r = %.3f (%s %s)\n\n",
		c.X, c.Y, c.Pairs, *c.Pearson, c.Strength(), direction(*c.Pearson))
}

func direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}

func writeRanked(w io.Writer, keyHeader, valueHeader string, groups []aggregate.Ranked, topN int) {
	shown := groups
	if topN > 0 && len(shown) > topN {
		shown = shown[:topN]
	}
	maxValue := 0.0
	for _, g := range shown {
		maxValue = math.Max(maxValue, g.Value)
	}

	fmt.Fprintf(w, "  %s\t%s\t\n", keyHeader, valueHeader)
	for _, g := range shown {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", g.Key, formatNumber(g.Value), bar(g.Value, maxValue))
	}
	if len(shown) < len(groups) {
		fmt.Fprintf(w, "  ... %d more\t\t\n", len(groups)-len(shown))
	}
	fmt.Fprintln(w)
}

func writeExtremes(w io.Writer, e *Extremes) {
	fmt.Fprintf(w, "  highest %s\t%s\t%s\n", e.Column, formatNumber(e.Highest.Value), joinIDs(e.Highest.IDs, 5))
	fmt.Fprintf(w, "  lowest %s\t%s\t%s\n", e.Column, formatNumber(e.Lowest.Value), joinIDs(e.Lowest.IDs, 5))
	fmt.Fprintln(w)
}

// joinIDs lists at most limit ids; a zero minimum is often shared by many rows
func joinIDs(ids []string, limit int) string {
	if len(ids) <= limit {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(ids[:limit], ", "), len(ids)-limit)
}

func bar(v, maxValue float64) string {
	if maxValue <= 0 || v <= 0 {
		return ""
	}
	n := int(math.Round(v / maxValue * barWidth))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func writeProfileText(w io.Writer, p *Profile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "dataset %s\n", p.Dataset)
	fmt.Fprintf(tw, "  loaded\t%d rows x %d columns\n", p.RawRows, p.RawCols)
	fmt.Fprintf(tw, "  cleaned\t%d rows x %d columns\n", p.Rows, p.Cols)
	fmt.Fprintf(tw, "  duplicates removed\t%d\n\n", p.Duplicates)

	fmt.Fprintln(tw, "columns")
	fmt.Fprintln(tw, "  NAME\tKIND\tFORMAT\tMISSING\t")
	missing := make(map[string]int, len(p.Missing))
	for _, m := range p.Missing {
		missing[m.Column] = m.Nulls
	}
	for _, c := range p.Columns {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t\n", c.Name, c.Kind, c.Format, missing[c.Name])
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "summary")
	fmt.Fprintln(tw, "  COLUMN\tCOUNT\tMEAN\tSTD\tMIN\t25%\t50%\t75%\tMAX\t")
	for _, s := range p.Summary {
		fmt.Fprintf(tw, "  %s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}

	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write profile")
	}
	return nil
}
