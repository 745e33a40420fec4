// File: vera_test.go
// Title: vera Engine Tests
// Description: Tests for the engine facade: parsing, error wrapping, input
//              limits, cancellation, run IDs and concurrent use.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial test implementation

package vera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	mdwerror "github.com/msto63/vera/foundation/core/error"
	mdwlog "github.com/msto63/vera/foundation/core/log"
	"github.com/msto63/vera/foundation/vera/lexer"
	"github.com/msto63/vera/foundation/vera/parser"
)

func newTestEngine(opts Options) (*Engine, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	opts.Logger = mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Output: buf})
	return NewEngine(opts), buf
}

func TestEngineParse(t *testing.T) {
	engine, logs := newTestEngine(Options{})

	result, err := engine.Parse(context.Background(), "program main { int a = 1; if a { a = a + 1; } return a; }")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Statements != 3 {
		t.Errorf("Expected 3 statements, got %d", result.Statements)
	}
	if len(result.Tokens) != 22 {
		t.Errorf("Expected 22 tokens, got %d", len(result.Tokens))
	}
	if result.RunID == "" {
		t.Error("Expected a run ID")
	}
	if !strings.Contains(logs.String(), `"message":"parse completed"`) {
		t.Errorf("Expected completion log, got %s", logs.String())
	}
	if !strings.Contains(logs.String(), result.RunID) {
		t.Error("Log entries should carry the run ID")
	}
}

func TestEngineDefaults(t *testing.T) {
	opts := NewEngine(Options{}).Options()
	if opts.MaxInputLength != DefaultMaxInputLength || opts.MaxNestingDepth != DefaultMaxNestingDepth {
		t.Errorf("Unexpected defaults %+v", opts)
	}
	if opts.Logger == nil {
		t.Error("Expected default logger")
	}
}

func TestEngineErrors(t *testing.T) {
	engine, _ := newTestEngine(Options{MaxInputLength: 64})

	tests := []struct {
		name     string
		input    string
		code     mdwerror.Code
		line     int
		column   int
		typedErr interface{}
	}{
		{"lexical", "main { a = #; }", mdwerror.CodeLexical, 1, 12, new(*lexer.LexicalError)},
		{"syntax", "main {\n  a = 1\n}", mdwerror.CodeSyntax, 3, 1, new(*parser.SyntaxError)},
		{"too large", "main { " + strings.Repeat("a = 1; ", 20) + "}", mdwerror.CodeInputTooLarge, 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Parse(context.Background(), tt.input)
			if err == nil {
				t.Fatal("Expected error")
			}
			if got := mdwerror.GetCode(err); got != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got)
			}
			if !IsSourceError(err) {
				t.Error("Expected a source error")
			}
			if tt.typedErr != nil && !errors.As(err, tt.typedErr) {
				t.Errorf("Typed cause not reachable through errors.As: %v", err)
			}
			if tt.line == 0 {
				return
			}
			pos, ok := ErrorPosition(err)
			if !ok || pos.Line != tt.line || pos.Column != tt.column {
				t.Errorf("Expected position %d:%d, got %s (%v)", tt.line, tt.column, pos, ok)
			}
			var mdwErr *mdwerror.Error
			errors.As(err, &mdwErr)
			if line, _ := mdwErr.Detail("line"); line != tt.line {
				t.Errorf("Expected line detail %d, got %v", tt.line, line)
			}
		})
	}
}

func TestErrorReason(t *testing.T) {
	engine, _ := newTestEngine(Options{})

	_, err := engine.Parse(context.Background(), "main { a = 1 }")
	if got := ErrorReason(err); got != "expected SEMICOLON, got: RIGHT_BRACE" {
		t.Errorf("Unexpected reason %q", got)
	}
	_, err = engine.Tokenize(context.Background(), "a = @")
	if got := ErrorReason(err); got != "unexpected character '@'" {
		t.Errorf("Unexpected reason %q", got)
	}
	if got := ErrorReason(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("Unexpected reason %q", got)
	}
}

func TestEngineNestingLimit(t *testing.T) {
	engine, _ := newTestEngine(Options{MaxNestingDepth: 8})
	src := "main { a = " + strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10) + "; }"
	_, err := engine.Parse(context.Background(), src)
	if !mdwerror.HasCode(err, mdwerror.CodeSyntax) {
		t.Errorf("Expected syntax error, got %v", err)
	}
}

func TestEngineCanceled(t *testing.T) {
	engine, _ := newTestEngine(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Parse(ctx, "main { }")
	if mdwerror.GetCode(err) != mdwerror.CodeCanceled {
		t.Errorf("Expected CANCELED, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("Expected context.Canceled in the chain")
	}
	if IsSourceError(err) {
		t.Error("Cancellation is not a source error")
	}
}

func TestEngineRunIDFromContext(t *testing.T) {
	engine, _ := newTestEngine(Options{})
	ctx := WithRunID(context.Background(), "req-42")

	result, err := engine.Parse(ctx, "main { }")
	if err != nil {
		t.Fatal(err)
	}
	if result.RunID != "req-42" {
		t.Errorf("Expected run ID req-42, got %s", result.RunID)
	}

	_, err = engine.Parse(ctx, "main {")
	var mdwErr *mdwerror.Error
	if !errors.As(err, &mdwErr) || mdwErr.RequestID() != "req-42" {
		t.Errorf("Expected request ID on error, got %v", err)
	}
}

func TestEngineTokenize(t *testing.T) {
	engine, _ := newTestEngine(Options{})
	tokens, err := engine.Tokenize(context.Background(), "ifelse if")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 || tokens[0].Lexeme != "ifelse" || tokens[1].Kind.String() != "IF" {
		t.Errorf("Unexpected tokens %v", tokens)
	}
}

func TestEngineFormat(t *testing.T) {
	engine, _ := newTestEngine(Options{})
	out, err := engine.Format(context.Background(), "main{a=(1+2)*3;}")
	if err != nil {
		t.Fatal(err)
	}
	want := "program main {\n  a = (1 + 2) * 3;\n}\n"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}
}

func TestEngineConcurrentUse(t *testing.T) {
	engine, _ := newTestEngine(Options{})

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			src := fmt.Sprintf("main { x = %d * (%d + 1); }", n, n)
			result, err := engine.Parse(context.Background(), src)
			if err != nil {
				errs <- err
				return
			}
			if result.Statements != 1 {
				errs <- fmt.Errorf("run %d: expected 1 statement", n)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestEngineSourceErrorsStayBelowWarn(t *testing.T) {
	buf := &bytes.Buffer{}
	engine := NewEngine(Options{
		Logger: mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelWarn, Output: buf}),
	})

	inputs := []string{"main {", "main { a", "main { a =", "main { a = 1", "main { @ }"}
	for _, src := range inputs {
		if _, err := engine.Parse(context.Background(), src); !IsSourceError(err) {
			t.Errorf("Expected source error for %q, got %v", src, err)
		}
		if _, err := engine.Tokenize(context.Background(), src); err != nil && !IsSourceError(err) {
			t.Errorf("Expected source error or success tokenizing %q, got %v", src, err)
		}
	}

	if buf.Len() != 0 {
		t.Errorf("Expected no output at warn level, got %s", buf.String())
	}
}
