package utils

import (
	"strings"
	"unicode/utf8"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates str to maxLength runes, marking the cut with "...".
func (s *StringHelper) TruncateString(str string, maxLength int) string {
	if maxLength < 0 || utf8.RuneCountInString(str) <= maxLength {
		return str
	}

	runes := []rune(str)

	return string(runes[:maxLength]) + "..."
}
