package parsesvc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote parser service
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// TokenInfo is one token as returned by the service
type TokenInfo struct {
	Kind   string
	Lexeme string
	Line   int
	Column int
	Offset int
}

// ParseReply is the decoded Parse response
type ParseReply struct {
	RunID      string
	Statements int
	Tokens     int
	AST        map[string]interface{}
	Cached     bool
	DurationMS float64
}

// Tokenize tokenizes src remotely
func (c *Client) Tokenize(ctx context.Context, src string) ([]TokenInfo, error) {
	out, err := c.call(ctx, MethodTokenize, "", src)
	if err != nil {
		return nil, err
	}

	list := out.GetFields()["tokens"].GetListValue().GetValues()
	toks := make([]TokenInfo, 0, len(list))
	for _, v := range list {
		f := v.GetStructValue().GetFields()
		toks = append(toks, TokenInfo{
			Kind:   f["kind"].GetStringValue(),
			Lexeme: f["lexeme"].GetStringValue(),
			Line:   int(f["line"].GetNumberValue()),
			Column: int(f["column"].GetNumberValue()),
			Offset: int(f["offset"].GetNumberValue()),
		})
	}
	return toks, nil
}

// Parse parses src remotely. name labels the run in the server's history.
func (c *Client) Parse(ctx context.Context, name, src string) (*ParseReply, error) {
	out, err := c.call(ctx, MethodParse, name, src)
	if err != nil {
		return nil, err
	}

	f := out.GetFields()
	return &ParseReply{
		RunID:      f["run_id"].GetStringValue(),
		Statements: int(f["statements"].GetNumberValue()),
		Tokens:     int(f["tokens"].GetNumberValue()),
		AST:        f["ast"].GetStructValue().AsMap(),
		Cached:     f["cached"].GetBoolValue(),
		DurationMS: f["duration_ms"].GetNumberValue(),
	}, nil
}

// Format returns the canonical rendering of src
func (c *Client) Format(ctx context.Context, src string) (string, error) {
	out, err := c.call(ctx, MethodFormat, "", src)
	if err != nil {
		return "", err
	}
	return out.GetFields()["formatted"].GetStringValue(), nil
}

func (c *Client) call(ctx context.Context, method, name, src string) (*structpb.Struct, error) {
	fields := map[string]interface{}{"source": src}
	if name != "" {
		fields["name"] = name
	}
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
