package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/wellcomecollection/ssreport/internal/chart"
	"github.com/wellcomecollection/ssreport/internal/model"
)

// DefaultProcessingLimit is how many in-progress ingests are listed.
const DefaultProcessingLimit = 5

// DefaultColors are the chart colours per status.
var DefaultColors = map[string]color.Attribute{
	string(model.StatusAccepted):   color.FgYellow,
	string(model.StatusFailed):     color.FgRed,
	string(model.StatusCompleted):  color.FgGreen,
	string(model.StatusProcessing): color.FgBlue,
}

// Renderer writes the plain-text report.
type Renderer struct {
	Out             io.Writer
	Styles          chart.Styles
	ProcessingLimit int
	ChartLevels     int
	Colors          map[string]color.Attribute
}

// Render writes the failure groups, the longest-running processing ingests,
// and the status chart. Empty sections are skipped.
func (r *Renderer) Render(agg *Aggregation) error {
	if len(agg.Failed) > 0 {
		if err := r.failures(GroupFailures(agg.Failed)); err != nil {
			return err
		}
	}
	if len(agg.Processing) > 0 {
		if err := r.processing(agg.Processing); err != nil {
			return err
		}
	}
	if err := r.chart(agg); err != nil {
		return err
	}
	return r.otherStatuses(agg.Other)
}

func (r *Renderer) failures(groups []FailureGroup) error {
	var lines []string
	for _, g := range groups {
		lines = append(lines, g.Reason+":")
		for _, id := range g.IngestIDs {
			lines = append(lines, "  "+id)
		}
		lines = append(lines, "")
	}
	return r.section("failed", strings.Join(lines, "\n"), color.FgRed)
}

// processing lists the limit longest-waiting ingests, oldest last. This keeps
// the listing of the earlier Python report; it is not the most recently updated.
func (r *Renderer) processing(processing []ProcessingIngest) error {
	limit := r.ProcessingLimit
	if limit <= 0 {
		limit = DefaultProcessingLimit
	}
	var lines []string
	for _, p := range LongestProcessing(processing, limit) {
		lines = append(lines, fmt.Sprintf("%s ~> %s", p.ID, FormatElapsed(p.Elapsed)))
	}
	return r.section("processing", strings.Join(lines, "\n"), color.FgBlue)
}

func (r *Renderer) section(name, body string, attr color.Attribute) error {
	marker := "== " + name + " =="
	_, err := fmt.Fprintf(r.Out, "%s\n%s\n%s\n\n", marker, r.Styles.Paint(body, attr), marker)
	return err
}

func (r *Renderer) chart(agg *Aggregation) error {
	bars := make([]chart.Bar, 0, len(model.KnownStatuses))
	for _, s := range model.KnownStatuses {
		bars = append(bars, chart.Bar{Label: string(s), Count: agg.Tally[s]})
	}

	colors := r.Colors
	if colors == nil {
		colors = DefaultColors
	}
	err := chart.Render(r.Out, bars, chart.Options{
		Levels: r.ChartLevels,
		Colors: colors,
		Styles: r.Styles,
	})
	if errors.Is(err, chart.ErrNoData) {
		_, err = fmt.Fprintln(r.Out, "No ingests!")
	}
	return err
}

func (r *Renderer) otherStatuses(other map[model.Status]int) error {
	if len(other) == 0 {
		return nil
	}
	names := make([]string, 0, len(other))
	for s := range other {
		names = append(names, string(s))
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		label := name
		if label == "" {
			label = `""`
		}
		parts[i] = fmt.Sprintf("%s=%d", label, other[model.Status(name)])
	}
	_, err := fmt.Fprintf(r.Out, "\nother statuses: %s\n", strings.Join(parts, ", "))
	return err
}
