// Package chart draws horizontal bar charts with Unicode block elements.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// DefaultLevels is the number of full-block steps in the longest bar.
const DefaultLevels = 25

const (
	fullBlock = '█'
	// minimalTick stands in for bars too short to draw.
	minimalTick = "▏"
)

// ErrNoData is returned when every count is zero, leaving nothing to scale by.
var ErrNoData = errors.New("chart: no data")

// Bar is one labelled row of the chart.
type Bar struct {
	Label string
	Count int
}

// Options controls rendering. A zero Options draws DefaultLevels uncoloured.
type Options struct {
	Levels int
	Colors map[string]color.Attribute
	Styles Styles
}

// Render writes one line per bar in the order given.
func Render(w io.Writer, bars []Bar, opts Options) error {
	levels := opts.Levels
	if levels <= 0 {
		levels = DefaultLevels
	}

	maxCount, width := 0, 0
	for _, b := range bars {
		if b.Count > maxCount {
			maxCount = b.Count
		}
		if n := utf8.RuneCountInString(b.Label); n > width {
			width = n
		}
	}
	if maxCount <= 0 {
		return ErrNoData
	}

	for _, b := range bars {
		label := b.Label + strings.Repeat(" ", width-utf8.RuneCountInString(b.Label))
		line := fmt.Sprintf("%s  %6d %s", strings.ToLower(label), b.Count, Glyphs(b.Count, maxCount, levels))

		var attrs []color.Attribute
		if b.Count == 0 {
			attrs = []color.Attribute{Grey}
		} else if attr, ok := opts.Colors[b.Label]; ok {
			attrs = []color.Attribute{attr}
		}

		if _, err := fmt.Fprintln(w, opts.Styles.Paint(line, attrs...)); err != nil {
			return err
		}
	}
	return nil
}

// Glyphs returns the bar for count scaled against maxCount, at eighth-block
// resolution. Block elements run from full (U+2588) down to one eighth
// (U+258F), so a remainder of r eighths is fullBlock + (8 - r).
func Glyphs(count, maxCount, levels int) string {
	if maxCount <= 0 || count <= 0 {
		return minimalTick
	}
	eighths := count * 8 * levels / maxCount
	full, rem := eighths/8, eighths%8

	var sb strings.Builder
	sb.WriteString(strings.Repeat(string(fullBlock), full))
	if rem > 0 {
		sb.WriteRune(fullBlock + rune(8-rem))
	}
	if sb.Len() == 0 {
		return minimalTick
	}
	return sb.String()
}
