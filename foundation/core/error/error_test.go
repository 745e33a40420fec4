// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and
//              chain inspection.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-09-28 v0.2.0: Adapted to the vera code set

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}
	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
	if len(err.StackTrace()) == 0 {
		t.Error("StackTrace() should not be empty")
	}
	if !strings.Contains(err.StackTrace()[0].Function, "TestNew") {
		t.Errorf("first frame should be the caller, got %s", err.StackTrace()[0].Function)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			message:  "wrapper message",
			wantMsg:  "wrapper message: original error",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap structured error keeps code",
			err:      New("unexpected token").WithCode(CodeSyntax),
			message:  "parse failed",
			wantMsg:  "parse failed: unexpected token",
			wantCode: CodeSyntax,
		},
		{
			name:     "wrap fmt-wrapped structured error keeps code",
			err:      fmt.Errorf("outer: %w", New("bad char").WithCode(CodeLexical)),
			message:  "tokenize failed",
			wantMsg:  "tokenize failed: outer: bad char",
			wantCode: CodeLexical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got.Code(), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("wrapped error should match its cause with errors.Is")
			}
		})
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeSyntax, SeverityLow},
		{CodeLexical, SeverityLow},
		{CodeStorage, SeverityHigh},
		{CodeInvalidConfig, SeverityHigh},
		{CodeInternal, SeverityCritical},
		{CodeUnknown, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.want {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.want)
			}
		})
	}
}

func TestExplicitSeverityWins(t *testing.T) {
	err := New("x").WithSeverity(SeverityCritical).WithCode(CodeSyntax)
	if err.Severity() != SeverityCritical {
		t.Errorf("Severity() = %v, want critical", err.Severity())
	}
}

func TestDetails(t *testing.T) {
	err := New("x").
		WithDetail("line", 3).
		WithDetails(map[string]interface{}{"column": 7, "kind": "SEMICOLON"})

	details := err.Details()
	if details["line"] != 3 || details["column"] != 7 || details["kind"] != "SEMICOLON" {
		t.Errorf("unexpected details: %v", details)
	}

	// Details returns a copy
	details["line"] = 99
	if v, _ := err.Detail("line"); v != 3 {
		t.Errorf("Details() must return a copy, line is now %v", v)
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	inner := New("inner").WithCode(CodeSyntax)
	outer := fmt.Errorf("context: %w", Wrap(inner, "engine"))

	if !HasCode(outer, CodeSyntax) {
		t.Error("HasCode should find CodeSyntax in the chain")
	}
	if HasCode(outer, CodeStorage) {
		t.Error("HasCode should not find CodeStorage")
	}
	if GetCode(outer) != CodeSyntax {
		t.Errorf("GetCode() = %v, want %v", GetCode(outer), CodeSyntax)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode of a plain error should be CodeUnknown")
	}
	if GetSeverity(errors.New("plain")) != SeverityMedium {
		t.Error("GetSeverity of a plain error should be SeverityMedium")
	}
}

func TestRootCause(t *testing.T) {
	root := errors.New("root")
	err := Wrap(Wrap(root, "middle"), "top")
	if err.RootCause() != root {
		t.Errorf("RootCause() = %v, want %v", err.RootCause(), root)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("unexpected end of input").
		WithCode(CodeSyntax).
		WithOperation("parser.ParseProgram").
		WithRequestID("run-1").
		WithDetail("line", 2)

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("json.Marshal failed: %v", jerr)
	}

	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("json.Unmarshal failed: %v", jerr)
	}
	if decoded["code"] != "SYNTAX_ERROR" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["operation"] != "parser.ParseProgram" {
		t.Errorf("operation = %v", decoded["operation"])
	}
	if decoded["request_id"] != "run-1" {
		t.Errorf("request_id = %v", decoded["request_id"])
	}
}

func TestStringIncludesSortedDetails(t *testing.T) {
	err := New("x").WithCode(CodeLexical).WithDetail("b", 2).WithDetail("a", 1)
	s := err.String()
	if !strings.Contains(s, "Details: {a=1, b=2}") {
		t.Errorf("String() = %q", s)
	}
	if !strings.Contains(s, "Code: LEXICAL_ERROR") {
		t.Errorf("String() = %q", s)
	}
}

func TestCodeCategory(t *testing.T) {
	if !CodeSyntax.IsSourceError() || !CodeLexical.IsSourceError() || !CodeInputTooLarge.IsSourceError() {
		t.Error("front end codes should be source errors")
	}
	if CodeStorage.IsSourceError() {
		t.Error("storage code should not be a source error")
	}
	if Code("BOGUS").IsValid() {
		t.Error("unknown code should not be valid")
	}
	if !CodeConfigError.IsValid() {
		t.Error("CodeConfigError should be valid")
	}
}
