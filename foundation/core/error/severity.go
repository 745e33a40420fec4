// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. Source errors are low
//              severity (the user fixes their program), tool failures are
//              high.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-09-28 v0.2.0: Severity mapping for vera codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a problem in user input, e.g. a syntax error
	SeverityLow Severity = iota

	// SeverityMedium is the default for errors without a more specific code
	SeverityMedium

	// SeverityHigh indicates the tool itself could not do its job
	// (storage failure, broken configuration)
	SeverityHigh

	// SeverityCritical indicates an internal invariant was violated
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeStorage, CodeConfigError, CodeInvalidConfig:
		return SeverityHigh
	case CodeLexical, CodeSyntax, CodeInputTooLarge, CodeInvalidInput, CodeNotFound, CodeCanceled:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
