// Package output provides formatting and display utilities for gradr.
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Styles used across commands.
var (
	Bold   = []color.Attribute{color.Bold}
	Dim    = []color.Attribute{color.Faint}
	Red    = []color.Attribute{color.FgRed}
	Green  = []color.Attribute{color.FgGreen}
	Yellow = []color.Attribute{color.FgYellow}
	Cyan   = []color.Attribute{color.FgCyan}
	White  = []color.Attribute{color.FgWhite}

	BoldRed   = []color.Attribute{color.FgHiRed, color.Bold}
	BoldGreen = []color.Attribute{color.FgHiGreen, color.Bold}
)

// DisableColor disables colored output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables colored output.
func EnableColor() {
	color.NoColor = false
}

// IsColorEnabled returns whether color output is enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}

// Color applies a style to text if color is enabled.
func Color(text string, style []color.Attribute) string {
	if !IsColorEnabled() {
		return text
	}
	return color.New(style...).Sprint(text)
}

// GradeColor returns the style for a grade label. Letter grades color by
// their letter; other labels are left plain.
func GradeColor(label string) []color.Attribute {
	label = strings.ToUpper(strings.TrimSpace(label))
	switch {
	case label == "":
		return Dim
	case label == "P", strings.HasPrefix(label, "A"):
		return BoldGreen
	case strings.HasPrefix(label, "B"):
		return Green
	case strings.HasPrefix(label, "C"):
		return Yellow
	case strings.HasPrefix(label, "D"):
		return Red
	case label == "F", label == "NP":
		return BoldRed
	default:
		return White
	}
}

// Grade returns a colored grade label.
func Grade(label string) string {
	return Color(label, GradeColor(label))
}

// Bar draws a horizontal bar for count out of total.
func Bar(count, total, width int) string {
	filled := 0
	if total > 0 {
		filled = count * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Header creates a formatted header line.
func Header(text string, width int) string {
	padding := (width - len(text) - 2) / 2
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat("=", padding) + " " + text + " " + strings.Repeat("=", padding)
	// Ensure exact width
	for len(line) < width {
		line += "="
	}
	return Color(line, Bold)
}

// SubHeader creates a formatted subheader line.
func SubHeader(text string, width int) string {
	padding := (width - len(text) - 2) / 2
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat("-", padding) + " " + text + " " + strings.Repeat("-", padding)
	for len(line) < width {
		line += "-"
	}
	return Color(line, Dim)
}

// Checkmark returns a colored checkmark or X.
func Checkmark(ok bool) string {
	if ok {
		return Color("✓", Green)
	}
	return Color("✗", Red)
}

// FormatPercent formats a fraction of total as a percentage.
func FormatPercent(count, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)*100/float64(total))
}

// Truncate truncates text to a maximum width with ellipsis.
func Truncate(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return string(runes[:maxWidth-3]) + "..."
}

// PadRight pads text to a minimum width.
func PadRight(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	return text + strings.Repeat(" ", width-n)
}
