// File: errors.go
// Title: vera Syntax Errors
// Description: SyntaxError reports the token kinds the parser expected and
//              the token it found instead (nil at end of input).
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation

package parser

import (
	"fmt"
	"strings"

	"github.com/msto63/vera/foundation/vera/token"
)

// SyntaxError is returned for the first grammar violation. Parsing stops
// there; no partial tree is returned.
type SyntaxError struct {
	// Expected lists the acceptable token kinds. Empty means end of input
	// was expected, or Message explains the problem.
	Expected []token.Kind

	// Found is the offending token, nil when the input ended early
	Found *token.Token

	// Message replaces the generated text when set
	Message string

	// Pos is Found's position, or the position just past the last token
	Pos token.Pos
}

// Reason returns the error text without the position prefix
func (e *SyntaxError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Found == nil {
		return "unexpected end of input, expected: " + describeKinds(e.Expected)
	}
	return fmt.Sprintf("expected %s, got: %s", describeKinds(e.Expected), e.Found.Kind)
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Reason())
	}
	return "syntax error: " + e.Reason()
}

// AtEnd reports whether the error was caused by running out of tokens
func (e *SyntaxError) AtEnd() bool {
	return e.Found == nil && e.Message == ""
}

// Expects reports whether kind is among the expected kinds
func (e *SyntaxError) Expects(kind token.Kind) bool {
	for _, k := range e.Expected {
		if k == kind {
			return true
		}
	}
	return false
}

func describeKinds(kinds []token.Kind) string {
	switch len(kinds) {
	case 0:
		return "end of input"
	case 1:
		return kinds[0].String()
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return "one of " + strings.Join(names, ", ")
}
