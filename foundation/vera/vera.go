// File: vera.go
// Title: vera Front-End Engine
// Description: High-level entry point to the vera front end. The Engine
//              wraps lexer and parser with input limits, cancellation checks,
//              run IDs, structured logging and mdw error codes, and is the
//              single place the CLI, the gRPC service and the explorer call.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-28
// Modified: 2026-10-17
//
// Change History:
// - 2026-09-28 v0.1.0: Initial engine implementation
// - 2026-10-17 v0.2.0: Source errors logged at debug; NewRunID exported

package vera

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/vera/foundation/core/error"
	mdwlog "github.com/msto63/vera/foundation/core/log"
	"github.com/msto63/vera/foundation/vera/ast"
	"github.com/msto63/vera/foundation/vera/lexer"
	"github.com/msto63/vera/foundation/vera/parser"
	"github.com/msto63/vera/foundation/vera/token"
)

const (
	// DefaultMaxInputLength is the default source size limit in bytes
	DefaultMaxInputLength = 1 << 20

	// DefaultMaxNestingDepth is the default block/parenthesis nesting limit
	DefaultMaxNestingDepth = 256
)

// Options configures the engine
type Options struct {
	Logger          *mdwlog.Logger
	MaxInputLength  int
	MaxNestingDepth int
}

// Result is the outcome of a successful parse
type Result struct {
	RunID      string
	AST        *ast.Block
	Tokens     []token.Token
	Statements int // top-level statements
	Duration   time.Duration
}

// Engine runs the front end. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	logger  *mdwlog.Logger
	options Options
}

type runIDKey struct{}

// WithRunID returns a context whose engine calls use id as run ID instead of
// a freshly generated one
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run ID set with WithRunID
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// NewEngine creates an engine, filling in defaults for zero options
func NewEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxInputLength <= 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	if opts.MaxNestingDepth <= 0 {
		opts.MaxNestingDepth = DefaultMaxNestingDepth
	}

	return &Engine{
		logger:  opts.Logger.WithField("component", "vera-engine"),
		options: opts,
	}
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.options
}

// Tokenize converts source text into tokens
func (e *Engine) Tokenize(ctx context.Context, src string) ([]token.Token, error) {
	runID := e.runID(ctx)
	if err := e.precheck(ctx, runID, "vera.Tokenize", src); err != nil {
		return nil, err
	}

	logger := e.logger.WithRequestID(runID)
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		wrapped := wrapSourceError(err, "tokenize failed", "vera.Tokenize", runID)
		// the caller reports source errors; keep them out of warn output
		logger.Debug("Tokenizing failed", mdwlog.Fields{"bytes": len(src), "error": err.Error()})
		return nil, wrapped
	}

	logger.Debug("Tokenized source", mdwlog.Fields{"bytes": len(src), "tokens": len(tokens)})
	return tokens, nil
}

// Parse tokenizes and parses a complete program
func (e *Engine) Parse(ctx context.Context, src string) (*Result, error) {
	runID := e.runID(ctx)
	if err := e.precheck(ctx, runID, "vera.Parse", src); err != nil {
		return nil, err
	}

	logger := e.logger.WithRequestID(runID)
	timer := logger.StartTimer("parse").WithField("bytes", len(src))

	tokens, err := lexer.Tokenize(src)
	if err != nil {
		timer.Fail(err)
		return nil, wrapSourceError(err, "tokenize failed", "vera.Parse", runID)
	}
	timer.Checkpoint("tokenized", mdwlog.Fields{"tokens": len(tokens)})

	if err := ctx.Err(); err != nil {
		timer.Cancel()
		return nil, canceled(err, "vera.Parse", runID)
	}

	p := parser.NewWithOptions(tokens, parser.Options{MaxDepth: e.options.MaxNestingDepth})
	body, err := p.ParseProgram()
	if err != nil {
		timer.Fail(err)
		return nil, wrapSourceError(err, "parse failed", "vera.Parse", runID)
	}

	result := &Result{
		RunID:      runID,
		AST:        body,
		Tokens:     tokens,
		Statements: len(body.Statements),
	}
	result.Duration = timer.WithFields(mdwlog.Fields{
		"tokens":     len(tokens),
		"statements": result.Statements,
	}).Stop()
	return result, nil
}

// Format parses src and renders it in canonical form
func (e *Engine) Format(ctx context.Context, src string) (string, error) {
	result, err := e.Parse(ctx, src)
	if err != nil {
		return "", err
	}
	return ast.FormatProgram(result.AST), nil
}

func (e *Engine) runID(ctx context.Context) string {
	return NewRunID(ctx)
}

// NewRunID returns the run ID set with WithRunID, or a fresh UUID
func NewRunID(ctx context.Context) string {
	if id, ok := RunIDFromContext(ctx); ok {
		return id
	}
	return uuid.NewString()
}

func (e *Engine) precheck(ctx context.Context, runID, op, src string) error {
	if err := ctx.Err(); err != nil {
		return canceled(err, op, runID)
	}
	if len(src) > e.options.MaxInputLength {
		return mdwerror.Newf("input of %d bytes exceeds the limit of %d bytes", len(src), e.options.MaxInputLength).
			WithCode(mdwerror.CodeInputTooLarge).
			WithOperation(op).
			WithRequestID(runID).
			WithDetail("bytes", len(src)).
			WithDetail("limit", e.options.MaxInputLength)
	}
	return nil
}

func canceled(err error, op, runID string) error {
	return mdwerror.Wrap(err, "canceled").
		WithCode(mdwerror.CodeCanceled).
		WithOperation(op).
		WithRequestID(runID)
}

// wrapSourceError attaches code and position details to lexer and parser
// errors. The typed cause stays reachable through errors.As.
func wrapSourceError(err error, msg, op, runID string) error {
	wrapped := mdwerror.Wrap(err, msg).WithOperation(op).WithRequestID(runID)

	var lexErr *lexer.LexicalError
	var synErr *parser.SyntaxError
	switch {
	case errors.As(err, &lexErr):
		wrapped.WithCode(mdwerror.CodeLexical).WithDetail("char", string(lexErr.Char))
	case errors.As(err, &synErr):
		wrapped.WithCode(mdwerror.CodeSyntax)
		if synErr.Found != nil {
			wrapped.WithDetail("found", synErr.Found.Kind.String())
		}
	default:
		wrapped.WithCode(mdwerror.CodeInternal)
	}

	if pos, ok := ErrorPosition(err); ok {
		wrapped.WithDetails(map[string]interface{}{
			"line":   pos.Line,
			"column": pos.Column,
			"offset": pos.Offset,
		})
	}
	return wrapped
}

// ErrorPosition returns the source position of a lexical or syntax error
// anywhere in err's chain
func ErrorPosition(err error) (token.Pos, bool) {
	var lexErr *lexer.LexicalError
	if errors.As(err, &lexErr) {
		return lexErr.Pos, true
	}
	var synErr *parser.SyntaxError
	if errors.As(err, &synErr) && synErr.Pos.IsValid() {
		return synErr.Pos, true
	}
	return token.Pos{}, false
}

// ErrorReason returns the message of a lexical or syntax error without
// position prefix or wrapping context, or err.Error() for other errors
func ErrorReason(err error) string {
	var lexErr *lexer.LexicalError
	if errors.As(err, &lexErr) {
		return lexErr.Message()
	}
	var synErr *parser.SyntaxError
	if errors.As(err, &synErr) {
		return synErr.Reason()
	}
	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) {
		return mdwErr.Message()
	}
	return err.Error()
}

// IsSourceError reports whether err was caused by the input text rather
// than by the engine or its environment
func IsSourceError(err error) bool {
	return mdwerror.GetCode(err).IsSourceError()
}
