// File: parser.go
// Title: vera Recursive Descent Parser
// Description: Builds a vera AST from a token slice. One method per grammar
//              production, one token of lookahead through peek, and match as
//              the consume-or-fail primitive. Expressions use two precedence
//              levels (additive, multiplicative), both left-associative.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial parser implementation
//
// Grammar:
//
//	Program      := ["program"] "main" Block
//	Block        := "{" Statement* "}"
//	Statement    := IfStmt | ReturnStmt | BreakStmt | ContinueStmt | Declaration | Assignment
//	IfStmt       := "if" Expression Block ("else" Block)?
//	ReturnStmt   := "return" Expression ";"
//	BreakStmt    := "break" ";"
//	ContinueStmt := "continue" ";"
//	Declaration  := ("int" | "float" | "string" | "bool") IDENTIFIER "=" Expression ";"
//	Assignment   := IDENTIFIER "=" Expression ";"
//	Expression   := Term (("+" | "-") Term)*
//	Term         := Factor (("*" | "/") Factor)*
//	Factor       := NUMBER | STRING_LITERAL | "true" | "false" | IDENTIFIER | "(" Expression ")"

package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/msto63/vera/foundation/vera/ast"
	"github.com/msto63/vera/foundation/vera/lexer"
	"github.com/msto63/vera/foundation/vera/token"
)

// DefaultMaxDepth bounds block and parenthesis nesting
const DefaultMaxDepth = 1000

var (
	statementStarters = []token.Kind{
		token.IF, token.RETURN, token.BREAK, token.CONTINUE,
		token.INT, token.FLOAT, token.STRING, token.BOOL, token.IDENTIFIER,
	}
	factorStarters = []token.Kind{
		token.NUMBER, token.STRING_LITERAL, token.TRUE, token.FALSE,
		token.IDENTIFIER, token.LEFT_PAREN,
	}
)

// Options configures parser behavior
type Options struct {
	// MaxDepth limits nesting of blocks and parenthesized expressions.
	// Zero means DefaultMaxDepth.
	MaxDepth int
}

// Parser consumes a token slice with a single forward cursor. A Parser is
// not safe for concurrent use; it holds no state beyond its own cursor.
type Parser struct {
	tokens   []token.Token
	current  int
	depth    int
	maxDepth int
}

// New creates a parser with default options
func New(tokens []token.Token) *Parser {
	return NewWithOptions(tokens, Options{})
}

// NewWithOptions creates a parser with the given options
func NewWithOptions(tokens []token.Token, opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{tokens: tokens, maxDepth: opts.MaxDepth}
}

// Parse parses a complete program from tokens
func Parse(tokens []token.Token) (*ast.Block, error) {
	return New(tokens).ParseProgram()
}

// ParseSource tokenizes and parses a complete program. Lexical failures are
// returned as *lexer.LexicalError, grammar failures as *SyntaxError.
func ParseSource(src string) (*ast.Block, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseExpressionSource parses src as a single expression that must use up
// the whole input
func ParseExpressionSource(src string) (ast.Expression, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := New(tokens)
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

// Done reports whether every token has been consumed
func (p *Parser) Done() bool {
	return p.current >= len(p.tokens)
}

// ExpectEnd fails when tokens are left over
func (p *Parser) ExpectEnd() error {
	if p.Done() {
		return nil
	}
	return p.errorf(nil)
}

// ParseProgram parses Program and requires that no tokens follow the
// closing brace
func (p *Parser) ParseProgram() (*ast.Block, error) {
	if p.peek(token.PROGRAM) {
		p.current++
	}
	if _, err := p.match(token.MAIN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEnd(); err != nil {
		return nil, err
	}
	return body, nil
}

// ParseStatement parses one statement at the cursor
func (p *Parser) ParseStatement() (ast.Statement, error) {
	tok, ok := p.lookahead()
	if !ok {
		return nil, p.errorf(statementStarters)
	}

	switch {
	case tok.Kind == token.IF:
		return p.parseIf()
	case tok.Kind == token.RETURN:
		return p.parseReturn()
	case tok.Kind == token.BREAK:
		p.current++
		if _, err := p.match(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Break{Pos: tok.Pos}, nil
	case tok.Kind == token.CONTINUE:
		p.current++
		if _, err := p.match(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Continue{Pos: tok.Pos}, nil
	case tok.Kind.IsTypeName():
		return p.parseDeclaration()
	case tok.Kind == token.IDENTIFIER:
		return p.parseAssignment()
	default:
		return nil, p.errorf(statementStarters)
	}
}

// ParseExpression parses Expression at the cursor
func (p *Parser) ParseExpression() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek(token.PLUS) || p.peek(token.MINUS) {
		op, _ := ast.OperatorFromToken(p.tokens[p.current].Kind)
		p.current++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Operator: op, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek(token.MULTIPLY) || p.peek(token.DIVIDE) {
		op, _ := ast.OperatorFromToken(p.tokens[p.current].Kind)
		p.current++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Operator: op, Left: left, Right: right, Pos: left.Position()}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expression, error) {
	tok, ok := p.lookahead()
	if !ok {
		return nil, p.errorf(factorStarters)
	}

	switch tok.Kind {
	case token.NUMBER:
		p.current++
		return numberLiteral(tok)
	case token.STRING_LITERAL:
		p.current++
		content := tok.Lexeme[1 : len(tok.Lexeme)-1]
		return &ast.Literal{Value: ast.Value{Type: ast.ValueTypeString, Raw: tok.Lexeme, Value: content}, Pos: tok.Pos}, nil
	case token.TRUE, token.FALSE:
		p.current++
		return &ast.Literal{Value: ast.Value{Type: ast.ValueTypeBool, Raw: tok.Lexeme, Value: tok.Kind == token.TRUE}, Pos: tok.Pos}, nil
	case token.IDENTIFIER:
		p.current++
		return &ast.Identifier{Name: tok.Lexeme, Pos: tok.Pos}, nil
	case token.LEFT_PAREN:
		p.current++
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(token.RIGHT_PAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.errorf(factorStarters)
	}
}

func numberLiteral(tok token.Token) (ast.Expression, error) {
	if strings.Contains(tok.Lexeme, ".") {
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &SyntaxError{Found: &tok, Pos: tok.Pos, Message: fmt.Sprintf("float literal %s out of range", tok.Lexeme)}
		}
		return &ast.Literal{Value: ast.Value{Type: ast.ValueTypeFloat, Raw: tok.Lexeme, Value: f}, Pos: tok.Pos}, nil
	}
	i, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return nil, &SyntaxError{Found: &tok, Pos: tok.Pos, Message: fmt.Sprintf("integer literal %s out of range", tok.Lexeme)}
	}
	return &ast.Literal{Value: ast.Value{Type: ast.ValueTypeInt, Raw: tok.Lexeme, Value: i}, Pos: tok.Pos}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.match(token.LEFT_BRACE)
	if err != nil {
		return nil, err
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	block := ast.NewBlock(open.Pos)
	for !p.Done() && !p.peek(token.RIGHT_BRACE) {
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if _, err := p.match(token.RIGHT_BRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	ifTok, err := p.match(token.IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.If{Condition: cond, Then: then, Pos: ifTok.Pos}
	if p.peek(token.ELSE) {
		p.current++
		stmt.Else, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	tok, err := p.match(token.RETURN)
	if err != nil {
		return nil, err
	}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.Return{Value: value, Pos: tok.Pos}, nil
}

func (p *Parser) parseDeclaration() (*ast.Declaration, error) {
	typeTok := p.tokens[p.current]
	vt, ok := ast.ValueTypeFromToken(typeTok.Kind)
	if !ok {
		return nil, p.errorf([]token.Kind{token.INT, token.FLOAT, token.STRING, token.BOOL})
	}
	p.current++

	name, value, err := p.parseBinding()
	if err != nil {
		return nil, err
	}
	return &ast.Declaration{Type: vt, Name: name, Value: value, Pos: typeTok.Pos}, nil
}

func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	pos := p.tokens[p.current].Pos
	name, value, err := p.parseBinding()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Name: name, Value: value, Pos: pos}, nil
}

// parseBinding parses IDENTIFIER "=" Expression ";"
func (p *Parser) parseBinding() (string, ast.Expression, error) {
	ident, err := p.match(token.IDENTIFIER)
	if err != nil {
		return "", nil, err
	}
	if _, err := p.match(token.ASSIGNMENT); err != nil {
		return "", nil, err
	}
	value, err := p.ParseExpression()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.match(token.SEMICOLON); err != nil {
		return "", nil, err
	}
	return ident.Lexeme, value, nil
}

// peek reports whether the current token has the given kind
func (p *Parser) peek(kind token.Kind) bool {
	return !p.Done() && p.tokens[p.current].Kind == kind
}

func (p *Parser) lookahead() (token.Token, bool) {
	if p.Done() {
		return token.Token{}, false
	}
	return p.tokens[p.current], true
}

// match consumes the current token if it has the given kind
func (p *Parser) match(kind token.Kind) (token.Token, error) {
	if !p.peek(kind) {
		return token.Token{}, p.errorf([]token.Kind{kind})
	}
	tok := p.tokens[p.current]
	p.current++
	return tok, nil
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		err := p.errorf(nil)
		err.Message = fmt.Sprintf("nesting depth exceeds %d", p.maxDepth)
		return err
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// errorf builds a SyntaxError for the current cursor position
func (p *Parser) errorf(expected []token.Kind) *SyntaxError {
	if tok, ok := p.lookahead(); ok {
		return &SyntaxError{Expected: expected, Found: &tok, Pos: tok.Pos}
	}
	return &SyntaxError{Expected: expected, Pos: p.endPos()}
}

// endPos is the position just past the last token
func (p *Parser) endPos() token.Pos {
	if len(p.tokens) == 0 {
		return token.Pos{Offset: 0, Line: 1, Column: 1}
	}
	last := p.tokens[len(p.tokens)-1]
	pos := token.Pos{Offset: last.End(), Line: last.Line, Column: last.Column}
	lexeme := last.Lexeme
	if i := strings.LastIndexAny(lexeme, "\r\n"); i >= 0 {
		pos.Line += strings.Count(strings.ReplaceAll(lexeme, "\r\n", "\n"), "\n") +
			strings.Count(strings.ReplaceAll(lexeme, "\r\n", ""), "\r")
		pos.Column = 1
		lexeme = lexeme[i+1:]
	}
	pos.Column += utf8.RuneCountInString(lexeme)
	return pos
}
