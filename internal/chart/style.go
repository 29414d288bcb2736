package chart

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Grey is used for zero-count bars.
const Grey = color.FgHiBlack

var colorNames = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"grey":    Grey,
	"gray":    Grey,
}

// ParseColor maps a colour name such as "red" or "grey" to its attribute.
func ParseColor(name string) (color.Attribute, error) {
	attr, ok := colorNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown color %q", name)
	}
	return attr, nil
}

// Styles paints text with ANSI colours. Enabled overrides fatih/color's own
// terminal detection so callers decide once per run.
type Styles struct {
	Enabled bool
}

// Paint wraps text in the given attributes. With no attributes, or when
// colour is disabled, text is returned unchanged.
func (s Styles) Paint(text string, attrs ...color.Attribute) string {
	if len(attrs) == 0 || !s.Enabled {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}
