// File: token_test.go
// Title: vera Token Tests
// Description: Tests for kind names, keyword lookup and punctuation tables.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation

package token

import (
	"testing"
)

func TestKindOrder(t *testing.T) {
	want := []string{
		"PROGRAM", "MAIN", "LEFT_BRACE", "RIGHT_BRACE", "IF", "ELSE",
		"LEFT_PAREN", "RIGHT_PAREN", "COMMA", "SEMICOLON", "ASSIGNMENT",
		"RETURN", "BREAK", "CONTINUE", "INT", "FLOAT", "STRING", "BOOL",
		"TRUE", "FALSE", "IDENTIFIER", "NUMBER", "STRING_LITERAL", "PLUS",
		"MINUS", "MULTIPLY", "DIVIDE",
	}

	kinds := Kinds()
	if len(kinds) != len(want) {
		t.Fatalf("Expected %d kinds, got %d", len(want), len(kinds))
	}
	for i, k := range kinds {
		if k.String() != want[i] {
			t.Errorf("Kind %d: expected %s, got %s", i, want[i], k)
		}
		if parsed, ok := ParseKind(want[i]); !ok || parsed != k {
			t.Errorf("ParseKind(%s) = %v, %v", want[i], parsed, ok)
		}
	}
}

func TestKindStringOutOfRange(t *testing.T) {
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Expected Kind(99), got %s", got)
	}
	if Kind(-1).IsValid() {
		t.Error("Kind(-1) should not be valid")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		word string
		want Kind
	}{
		{"program", PROGRAM},
		{"main", MAIN},
		{"if", IF},
		{"else", ELSE},
		{"return", RETURN},
		{"break", BREAK},
		{"continue", CONTINUE},
		{"int", INT},
		{"float", FLOAT},
		{"string", STRING},
		{"bool", BOOL},
		{"true", TRUE},
		{"false", FALSE},
		{"ifelse", IDENTIFIER},
		{"ifx", IDENTIFIER},
		{"Main", IDENTIFIER},
		{"_x1", IDENTIFIER},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Lookup(tt.word); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{LEFT_BRACE, "{"},
		{ASSIGNMENT, "="},
		{DIVIDE, "/"},
		{CONTINUE, "continue"},
		{IDENTIFIER, ""},
		{NUMBER, ""},
	}
	for _, tt := range tests {
		if got := tt.kind.Text(); got != tt.want {
			t.Errorf("%s.Text(): expected %q, got %q", tt.kind, tt.want, got)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	if !IF.IsKeyword() || IDENTIFIER.IsKeyword() || PLUS.IsKeyword() {
		t.Error("IsKeyword mismatch")
	}
	if !BOOL.IsTypeName() || TRUE.IsTypeName() {
		t.Error("IsTypeName mismatch")
	}
}

func TestPunctuation(t *testing.T) {
	for _, ch := range "{}(),;=+-*/" {
		k, ok := Punctuation(ch)
		if !ok {
			t.Errorf("Punctuation(%q) not found", ch)
			continue
		}
		if k.Text() != string(ch) {
			t.Errorf("Punctuation(%q) = %s", ch, k)
		}
	}
	if _, ok := Punctuation('<'); ok {
		t.Error("'<' is not a vera token")
	}
}

func TestTokenString(t *testing.T) {
	tok := New(NUMBER, "3.14", Pos{Offset: 4, Line: 1, Column: 5})
	if tok.String() != "NUMBER(3.14)" {
		t.Errorf("Expected NUMBER(3.14), got %s", tok)
	}
	if tok.End() != 8 {
		t.Errorf("Expected end 8, got %d", tok.End())
	}
	if tok.Pos.String() != "1:5" {
		t.Errorf("Expected 1:5, got %s", tok.Pos)
	}
}
