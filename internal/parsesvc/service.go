// ============================================================================
// vera - tokenizer and parser toolkit
// ============================================================================
//
// Package:     parsesvc
// Description: gRPC parser service exposing tokenize, parse and format
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package parsesvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	mdwerror "github.com/msto63/vera/foundation/core/error"
	mdwlog "github.com/msto63/vera/foundation/core/log"
	"github.com/msto63/vera/foundation/vera"
	"github.com/msto63/vera/foundation/vera/ast"
	"github.com/msto63/vera/foundation/vera/token"
	"github.com/msto63/vera/internal/store"
	"github.com/msto63/vera/pkg/core/cache"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "vera.v1.ParserService"

// Full method names
const (
	MethodTokenize = "/" + ServiceName + "/Tokenize"
	MethodParse    = "/" + ServiceName + "/Parse"
	MethodFormat   = "/" + ServiceName + "/Format"
)

// ParserServiceServer is the server API. Requests and responses are
// google.protobuf.Struct messages; every request carries a "source" string
// and may carry a "name" used in history records.
type ParserServiceServer interface {
	Tokenize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Format(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the parser service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ParserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Tokenize", Handler: unaryHandler(MethodTokenize, ParserServiceServer.Tokenize)},
		{MethodName: "Parse", Handler: unaryHandler(MethodParse, ParserServiceServer.Parse)},
		{MethodName: "Format", Handler: unaryHandler(MethodFormat, ParserServiceServer.Format)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vera/v1/parser.proto",
}

type unaryMethod func(ParserServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ParserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ParserServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Register registers svc on s
func Register(s grpc.ServiceRegistrar, svc ParserServiceServer) {
	s.RegisterService(&ServiceDesc, svc)
}

// Options configures a Service
type Options struct {
	Engine  *vera.Engine
	Cache   *cache.SourceCache  // optional
	History store.HistoryStore // optional
	Logger  *mdwlog.Logger
}

// Service implements ParserServiceServer on top of a vera.Engine
type Service struct {
	engine  *vera.Engine
	cache   *cache.SourceCache
	history store.HistoryStore
	logger  *mdwlog.Logger
}

// NewService creates the service. A nil engine gets default options.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	engine := opts.Engine
	if engine == nil {
		engine = vera.NewEngine(vera.Options{Logger: logger})
	}
	return &Service{
		engine:  engine,
		cache:   opts.Cache,
		history: opts.History,
		logger:  logger.WithField("component", "parsesvc"),
	}
}

// Tokenize returns {"tokens": [{kind, lexeme, line, column, offset}...], "count": n}
func (s *Service) Tokenize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	src, _, err := sourceOf(req)
	if err != nil {
		return nil, err
	}

	toks, cached := s.cachedTokens(src)
	if !cached {
		toks, err = s.engine.Tokenize(ctx, src)
		if err != nil {
			return nil, toStatus(err)
		}
		if s.cache != nil {
			s.cache.SetTokens(src, toks)
		}
	}

	return newStruct(map[string]interface{}{
		"tokens": TokensToList(toks),
		"count":  len(toks),
		"cached": cached,
	})
}

// Parse returns {"run_id", "statements", "tokens", "ast", "cached", "duration_ms"}
func (s *Service) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	src, name, err := sourceOf(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, cached := s.cachedParse(src)
	if cached {
		// the cached result belongs to an earlier run
		hit := *res
		hit.RunID = vera.NewRunID(ctx)
		hit.Duration = time.Since(start)
		res = &hit
		s.record(ctx, name, src, res, nil, res.Duration)
	} else {
		res, err = s.engine.Parse(ctx, src)
		s.record(ctx, name, src, res, err, time.Since(start))
		if err != nil {
			return nil, toStatus(err)
		}
		if s.cache != nil {
			s.cache.SetParse(src, res)
		}
	}

	return newStruct(map[string]interface{}{
		"run_id":      res.RunID,
		"statements":  res.Statements,
		"tokens":      len(res.Tokens),
		"ast":         ast.ToMap(res.AST),
		"cached":      cached,
		"duration_ms": float64(res.Duration.Microseconds()) / 1000,
	})
}

// Format returns {"formatted": canonical program text}
func (s *Service) Format(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	src, _, err := sourceOf(req)
	if err != nil {
		return nil, err
	}

	res, cached := s.cachedParse(src)
	if !cached {
		res, err = s.engine.Parse(ctx, src)
		if err != nil {
			return nil, toStatus(err)
		}
		if s.cache != nil {
			s.cache.SetParse(src, res)
		}
	}

	return newStruct(map[string]interface{}{
		"formatted": ast.FormatProgram(res.AST),
	})
}

func (s *Service) cachedTokens(src string) ([]token.Token, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.GetTokens(src)
}

func (s *Service) cachedParse(src string) (*vera.Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.GetParse(src)
}

func (s *Service) record(ctx context.Context, name, src string, res *vera.Result, err error, d time.Duration) {
	if s.history == nil || errors.Is(err, context.Canceled) {
		return
	}
	if name == "" {
		name = "rpc"
	}
	if rerr := s.history.Record(ctx, store.NewRecord(name, src, res, err, d)); rerr != nil {
		s.logger.WarnWithErr("Recording parse history failed", rerr)
	}
}

func sourceOf(req *structpb.Struct) (src, name string, err error) {
	fields := req.GetFields()
	v, ok := fields["source"]
	if !ok {
		return "", "", status.Error(codes.InvalidArgument, "missing field: source")
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", "", status.Error(codes.InvalidArgument, "field source must be a string")
	}
	if n, ok := fields["name"]; ok {
		name = n.GetStringValue()
	}
	return sv.StringValue, name, nil
}

// TokensToList converts tokens into structpb-compatible values
func TokensToList(toks []token.Token) []interface{} {
	out := make([]interface{}, 0, len(toks))
	for _, t := range toks {
		out = append(out, map[string]interface{}{
			"kind":   t.Kind.String(),
			"lexeme": t.Lexeme,
			"line":   t.Line,
			"column": t.Column,
			"offset": t.Offset,
		})
	}
	return out
}

func newStruct(m map[string]interface{}) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return st, nil
}

// toStatus maps engine errors onto gRPC status codes. Source errors carry a
// BadRequest detail with the position.
func toStatus(err error) error {
	code := mdwerror.GetCode(err)
	switch {
	case code.IsSourceError() && code != mdwerror.CodeInputTooLarge:
		reason := vera.ErrorReason(err)
		msg := reason
		if pos, ok := vera.ErrorPosition(err); ok {
			msg = fmt.Sprintf("%s at %s: %s", codeLabel(code), pos, reason)
		}
		st := status.New(codes.InvalidArgument, msg)
		detailed, derr := st.WithDetails(&errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{{
				Field:       "source",
				Description: msg,
			}},
		}, &errdetails.ErrorInfo{
			Reason:   string(code),
			Domain:   "vera",
			Metadata: positionMetadata(err),
		})
		if derr != nil {
			return st.Err()
		}
		return detailed.Err()
	case code == mdwerror.CodeInputTooLarge:
		return status.Error(codes.ResourceExhausted, vera.ErrorReason(err))
	case code == mdwerror.CodeCanceled:
		if errors.Is(err, context.DeadlineExceeded) {
			return status.Error(codes.DeadlineExceeded, err.Error())
		}
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func codeLabel(code mdwerror.Code) string {
	if code == mdwerror.CodeLexical {
		return "lexical error"
	}
	return "syntax error"
}

func positionMetadata(err error) map[string]string {
	pos, ok := vera.ErrorPosition(err)
	if !ok {
		return nil
	}
	return map[string]string{
		"line":   fmt.Sprint(pos.Line),
		"column": fmt.Sprint(pos.Column),
		"offset": fmt.Sprint(pos.Offset),
	}
}
