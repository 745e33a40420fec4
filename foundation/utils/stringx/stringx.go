// File: stringx.go
// Title: Core String Utility Functions
// Description: Unicode-safe helpers for blank checks, truncation, padding,
//              line splitting and printable escaping of source text.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-09-28 v0.2.0: Added Line, Caret and Escape for diagnostics

package stringx

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// FirstNonBlank returns the first argument that is not blank, or "".
func FirstNonBlank(values ...string) string {
	for _, s := range values {
		if !IsBlank(s) {
			return s
		}
	}
	return ""
}

// Truncate shortens s to at most maxLen runes, ending with ellipsis when
// something was cut. Multi-byte characters are never split.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := []rune(s)
	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-ellipsisLen]) + ellipsis
}

// PadLeft pads s on the left with pad until it is width runes wide.
func PadLeft(s string, width int, pad rune) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(string(pad), n) + s
}

// PadRight pads s on the right with pad until it is width runes wide.
func PadRight(s string, width int, pad rune) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(string(pad), n)
}

// SplitLines splits s into lines. \n, \r\n and \r are all line endings.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Line returns the 1-based line n of s without its terminator.
func Line(s string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	lines := SplitLines(s)
	if n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}

// Caret returns a marker line pointing at the 1-based rune column of line.
// Tabs before the column are preserved so the caret lines up in terminals.
func Caret(line string, column int) string {
	if column < 1 {
		column = 1
	}
	var b strings.Builder
	i := 1
	for _, r := range line {
		if i >= column {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		i++
	}
	for ; i < column; i++ {
		b.WriteRune(' ')
	}
	b.WriteRune('^')
	return b.String()
}

// Escape makes control characters in s visible so a lexeme fits on one
// line, e.g. a newline becomes \n.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if unicode.IsControl(r) {
				q := strconv.QuoteRune(r)
				b.WriteString(q[1 : len(q)-1])
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
