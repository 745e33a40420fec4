// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across vera for consistent
//              classification of lexer, parser, configuration, storage and
//              service failures.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-09-28 v0.2.0: Reduced to the codes used by the vera front end

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeCanceled     Code = "CANCELED"

	// Front end
	CodeLexical       Code = "LEXICAL_ERROR"
	CodeSyntax        Code = "SYNTAX_ERROR"
	CodeInputTooLarge Code = "INPUT_TOO_LARGE"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage
	CodeStorage Code = "STORAGE_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeCanceled,
		CodeLexical, CodeSyntax, CodeInputTooLarge,
		CodeConfigError, CodeInvalidConfig,
		CodeStorage:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeLexical, CodeSyntax, CodeInputTooLarge:
		return "source"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeStorage:
		return "storage"
	default:
		return "generic"
	}
}

// IsSourceError reports whether the code describes a problem with the
// program text rather than with the tool itself.
func (c Code) IsSourceError() bool {
	return c.Category() == "source"
}
