// Package sanitize filters raw user input before it reaches the entry
// store. The tool is purely local today, but stored strings end up in
// generated calendar documents, so quote/angle-bracket stripping keeps
// the output format clean as well.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	quotes  = regexp.MustCompile(`['";]`)
	angles  = regexp.MustCompile(`[<>]`)
	control = regexp.MustCompile(`[\x00-\x1F\x7F]`)

	// namePattern allows alphanumerics, spaces, and the punctuation that
	// shows up in real medication names: "Vitamin D-3 (forte)", plus
	// Latin-1 accented letters.
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-.()\x{00C0}-\x{00FF}]*$`)
)

// Clean strips quote characters, angle brackets, and control characters
// from the input and trims surrounding whitespace.
func Clean(input string) string {
	s := quotes.ReplaceAllString(input, "")
	s = angles.ReplaceAllString(s, "")
	s = control.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ValidName reports whether the input contains only characters allowed
// in a medication name.
func ValidName(input string) bool {
	return namePattern.MatchString(input)
}
