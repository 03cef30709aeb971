package errors

import (
	"fmt"
	"strings"
)

const (
	colorRed    = "31"
	colorYellow = "33"
	colorCyan   = "36"
	colorGray   = "90"
)

var colorsEnabled = true

// DisableColors turns off ANSI colors in formatted output.
func DisableColors() {
	colorsEnabled = false
}

// EnableColors turns on ANSI colors in formatted output.
func EnableColors() {
	colorsEnabled = true
}

func color(code, text string) string {
	if !colorsEnabled {
		return text
	}
	return fmt.Sprintf("\033[%sm%s\033[0m", code, text)
}

func red(text string) string    { return color(colorRed, text) }
func yellow(text string) string { return color(colorYellow, text) }
func cyan(text string) string   { return color(colorCyan, text) }
func gray(text string) string   { return color(colorGray, text) }

// Format renders the error for terminal output: code, message, detail and
// suggestion on separate lines.
func (e *Error) Format() string {
	var b strings.Builder

	header := "ERROR"
	if e.Code != "" {
		header = fmt.Sprintf("ERROR %s", e.Code)
	}
	fmt.Fprintf(&b, "%s: %s\n", red(header), e.Message)

	if e.Detail != "" {
		fmt.Fprintf(&b, "\n  %s\n", e.Detail)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "\n  %s %s\n", gray("caused by:"), e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  %s %s\n", yellow("Hint:"), e.Suggestion)
	}
	if e.Category != "" {
		fmt.Fprintf(&b, "\n  %s %s\n", gray("category:"), cyan(string(e.Category)))
	}

	return b.String()
}
