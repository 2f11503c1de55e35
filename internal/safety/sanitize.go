// Package safety normalizes user input and screens it for sensitive data
// before anything is persisted or sent to a model.
package safety

import (
	"regexp"
	"strings"
)

var newlineRun = regexp.MustCompile(`[ \t]*\n[\s]*`)

// Sanitize trims surrounding whitespace and collapses every whitespace run
// containing a newline into a single space. The sanitized form is what the
// workflow sees; the raw input is what gets persisted.
func Sanitize(text string) string {
	trimmed := strings.TrimSpace(text)
	return newlineRun.ReplaceAllString(trimmed, " ")
}
