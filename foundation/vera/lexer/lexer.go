// File: lexer.go
// Title: vera Lexical Analyzer (Tokenizer)
// Description: Converts vera source text into a slice of tokens. Keywords are
//              recognised by scanning a complete identifier-shaped word and
//              looking it up afterwards, so a reserved word is never matched
//              as the prefix of a longer identifier. Every token carries its
//              byte offset and 1-based line/column for diagnostics.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial lexer implementation

package lexer

import (
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/msto63/vera/foundation/vera/token"
)

// LexicalError is returned when no token rule matches at the cursor
type LexicalError struct {
	token.Pos
	Char   rune   // offending character, utf8.RuneError for invalid UTF-8
	Reason string // optional, replaces the default "unexpected character" text
}

// Message returns the error text without the position prefix
func (e *LexicalError) Message() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("unexpected character %q", e.Char)
}

// Error implements the error interface
func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at %s: %s", e.Pos, e.Message())
}

// Lexer scans vera source text. A Lexer is not safe for concurrent use;
// create one per input.
type Lexer struct {
	input  string
	offset int // byte offset of the next unread rune
	line   int
	column int
}

// New creates a lexer positioned at the start of input
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// Tokenize scans the complete input. On failure no tokens are returned.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	tokens := make([]token.Token, 0, len(input)/3+1)
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token, or io.EOF once the input is exhausted.
// Whitespace between tokens is skipped and never returned.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	if l.offset >= len(l.input) {
		return token.Token{}, io.EOF
	}

	start := l.pos()
	ch, size := l.peek()

	switch {
	case ch == utf8.RuneError && size == 1:
		return token.Token{}, &LexicalError{Pos: start, Char: ch, Reason: "invalid UTF-8 encoding"}
	case isIdentStart(ch):
		word := l.readWhile(isIdentPart)
		return token.New(token.Lookup(word), word, start), nil
	case isDigit(ch):
		return token.New(token.NUMBER, l.readNumber(), start), nil
	case ch == '"':
		lexeme, err := l.readString(start)
		if err != nil {
			return token.Token{}, err
		}
		return token.New(token.STRING_LITERAL, lexeme, start), nil
	}

	if kind, ok := token.Punctuation(ch); ok {
		l.advance()
		return token.New(kind, string(ch), start), nil
	}
	return token.Token{}, &LexicalError{Pos: start, Char: ch}
}

func (l *Lexer) pos() token.Pos {
	return token.Pos{Offset: l.offset, Line: l.line, Column: l.column}
}

func (l *Lexer) peek() (rune, int) {
	if l.offset >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.offset:])
}

// advance consumes one rune and keeps line/column current. \r\n counts as
// a single line break, a lone \r as one as well.
func (l *Lexer) advance() rune {
	ch, size := l.peek()
	l.offset += size
	switch {
	case ch == '\n':
		l.line++
		l.column = 1
	case ch == '\r':
		if next, _ := l.peek(); next == '\n' {
			l.column++
		} else {
			l.line++
			l.column = 1
		}
	default:
		l.column++
	}
	return ch
}

func (l *Lexer) readWhile(pred func(rune) bool) string {
	start := l.offset
	for l.offset < len(l.input) {
		ch, _ := l.peek()
		if !pred(ch) {
			break
		}
		l.advance()
	}
	return l.input[start:l.offset]
}

// readNumber reads [0-9]+(\.[0-9]+)?. A dot not followed by a digit is left
// for the next call and fails there.
func (l *Lexer) readNumber() string {
	start := l.offset
	l.readWhile(isDigit)
	if l.offset+1 < len(l.input) && l.input[l.offset] == '.' && isDigit(rune(l.input[l.offset+1])) {
		l.advance()
		l.readWhile(isDigit)
	}
	return l.input[start:l.offset]
}

// readString reads a double-quoted literal including both quotes. There are
// no escape sequences; the literal may span lines.
func (l *Lexer) readString(start token.Pos) (string, error) {
	l.advance()
	for l.offset < len(l.input) {
		if l.advance() == '"' {
			return l.input[start.Offset:l.offset], nil
		}
	}
	return "", &LexicalError{Pos: start, Char: '"', Reason: "unterminated string literal"}
}

func (l *Lexer) skipWhitespace() {
	l.readWhile(unicode.IsSpace)
}

func isIdentStart(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
