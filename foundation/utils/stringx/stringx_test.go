// File: stringx_test.go
// Title: Unit Tests for String Utilities
// Description: Table tests for the stringx helpers, including Unicode input.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial test implementation
// - 2026-09-28 v0.2.0: Tests for Line, Caret and Escape

package stringx

import (
	"reflect"
	"testing"
)

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty string", "", true},
		{"spaces and tabs", " \t\n", true},
		{"text", " x ", false},
		{"unicode", "ä", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlank(tt.input); got != tt.expected {
				t.Errorf("IsBlank(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFirstNonBlank(t *testing.T) {
	if got := FirstNonBlank("", "  ", "a", "b"); got != "a" {
		t.Errorf("FirstNonBlank() = %q", got)
	}
	if got := FirstNonBlank(" "); got != "" {
		t.Errorf("FirstNonBlank() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		ellipsis string
		expected string
	}{
		{"fits", "main", 10, "...", "main"},
		{"cut", "program main", 8, "...", "progr..."},
		{"unicode", "äöüßäöü", 5, "…", "äöüß…"},
		{"ellipsis too long", "abcdef", 2, "...", "ab"},
		{"zero", "abc", 0, "...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen, tt.ellipsis); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q; want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}

func TestPad(t *testing.T) {
	if got := PadLeft("7", 3, ' '); got != "  7" {
		t.Errorf("PadLeft = %q", got)
	}
	if got := PadRight("IF", 5, '.'); got != "IF..." {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadLeft("long", 2, ' '); got != "long" {
		t.Errorf("PadLeft must not cut, got %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\nb\rc\nd")
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines() = %v; want %v", got, want)
	}
}

func TestLine(t *testing.T) {
	src := "main {\n  x = 1;\n}"
	if l, ok := Line(src, 2); !ok || l != "  x = 1;" {
		t.Errorf("Line(2) = %q, %v", l, ok)
	}
	if _, ok := Line(src, 4); ok {
		t.Error("Line(4) should not exist")
	}
	if _, ok := Line(src, 0); ok {
		t.Error("Line(0) should not exist")
	}
}

func TestCaret(t *testing.T) {
	tests := []struct {
		line   string
		column int
		want   string
	}{
		{"x = @;", 5, "    ^"},
		{"\tx = @;", 6, "\t    ^"},
		{"ab", 5, "    ^"},
		{"ab", 0, "^"},
	}

	for _, tt := range tests {
		if got := Caret(tt.line, tt.column); got != tt.want {
			t.Errorf("Caret(%q, %d) = %q; want %q", tt.line, tt.column, got, tt.want)
		}
	}
}

func TestEscape(t *testing.T) {
	if got := Escape("\"a\nb\"\t"); got != `"a\nb"\t` {
		t.Errorf("Escape() = %q", got)
	}
	if got := Escape("x\x01"); got != `x\x01` {
		t.Errorf("Escape() = %q", got)
	}
}
