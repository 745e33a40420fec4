// File: token.go
// Title: vera Token Definitions
// Description: Defines the token kinds of the vera language, the Token value
//              produced by the lexer and the keyword / punctuation tables
//              shared by lexer and parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation

package token

import (
	"fmt"
)

// Kind represents the kind of a lexical token
type Kind int

// The order of the kinds is fixed; keywords come before IDENTIFIER.
const (
	PROGRAM Kind = iota
	MAIN
	LEFT_BRACE
	RIGHT_BRACE
	IF
	ELSE
	LEFT_PAREN
	RIGHT_PAREN
	COMMA
	SEMICOLON
	ASSIGNMENT
	RETURN
	BREAK
	CONTINUE
	INT
	FLOAT
	STRING
	BOOL
	TRUE
	FALSE
	IDENTIFIER
	NUMBER
	STRING_LITERAL
	PLUS
	MINUS
	MULTIPLY
	DIVIDE

	kindCount
)

var kindNames = [kindCount]string{
	PROGRAM:        "PROGRAM",
	MAIN:           "MAIN",
	LEFT_BRACE:     "LEFT_BRACE",
	RIGHT_BRACE:    "RIGHT_BRACE",
	IF:             "IF",
	ELSE:           "ELSE",
	LEFT_PAREN:     "LEFT_PAREN",
	RIGHT_PAREN:    "RIGHT_PAREN",
	COMMA:          "COMMA",
	SEMICOLON:      "SEMICOLON",
	ASSIGNMENT:     "ASSIGNMENT",
	RETURN:         "RETURN",
	BREAK:          "BREAK",
	CONTINUE:       "CONTINUE",
	INT:            "INT",
	FLOAT:          "FLOAT",
	STRING:         "STRING",
	BOOL:           "BOOL",
	TRUE:           "TRUE",
	FALSE:          "FALSE",
	IDENTIFIER:     "IDENTIFIER",
	NUMBER:         "NUMBER",
	STRING_LITERAL: "STRING_LITERAL",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	MULTIPLY:       "MULTIPLY",
	DIVIDE:         "DIVIDE",
}

// String returns the upper-case name of the kind, e.g. LEFT_BRACE
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsValid reports whether k is one of the defined kinds
func (k Kind) IsValid() bool {
	return k >= 0 && k < kindCount
}

// IsKeyword reports whether k is a reserved word
func (k Kind) IsKeyword() bool {
	_, ok := keywordText[k]
	return ok
}

// IsTypeName reports whether k names a declarable type (int, float, string, bool)
func (k Kind) IsTypeName() bool {
	return k == INT || k == FLOAT || k == STRING || k == BOOL
}

// Kinds returns all kinds in their declared order
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind returns the kind with the given upper-case name
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

var keywords = map[string]Kind{
	"program":  PROGRAM,
	"main":     MAIN,
	"if":       IF,
	"else":     ELSE,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"int":      INT,
	"float":    FLOAT,
	"string":   STRING,
	"bool":     BOOL,
	"true":     TRUE,
	"false":    FALSE,
}

var keywordText = func() map[Kind]string {
	m := make(map[Kind]string, len(keywords))
	for text, k := range keywords {
		m[k] = text
	}
	return m
}()

// Lookup returns the keyword kind for a complete identifier-shaped word, or
// IDENTIFIER when the word is not reserved. The caller must pass the whole
// word so that "ifx" is never split into IF and "x".
func Lookup(word string) Kind {
	if k, ok := keywords[word]; ok {
		return k
	}
	return IDENTIFIER
}

var punctuation = map[rune]Kind{
	'{': LEFT_BRACE,
	'}': RIGHT_BRACE,
	'(': LEFT_PAREN,
	')': RIGHT_PAREN,
	',': COMMA,
	';': SEMICOLON,
	'=': ASSIGNMENT,
	'+': PLUS,
	'-': MINUS,
	'*': MULTIPLY,
	'/': DIVIDE,
}

// Punctuation returns the kind of a single-character token
func Punctuation(ch rune) (Kind, bool) {
	k, ok := punctuation[ch]
	return k, ok
}

// Text returns the fixed source text of a keyword or punctuation kind, or ""
// for kinds whose lexeme varies (IDENTIFIER, NUMBER, STRING_LITERAL).
func (k Kind) Text() string {
	if t, ok := keywordText[k]; ok {
		return t
	}
	for ch, pk := range punctuation {
		if pk == k {
			return string(ch)
		}
	}
	return ""
}

// Pos is a position in the source text. Offset is in bytes, Line and Column
// are 1-based and Column counts runes.
type Pos struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position was set
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// String returns "line:column"
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is an immutable lexical token
type Token struct {
	Kind   Kind
	Lexeme string
	Pos
}

// New creates a token
func New(kind Kind, lexeme string, pos Pos) Token {
	return Token{Kind: kind, Lexeme: lexeme, Pos: pos}
}

// String returns KIND(lexeme)
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
}

// End returns the byte offset just past the token
func (t Token) End() int {
	return t.Offset + len(t.Lexeme)
}
