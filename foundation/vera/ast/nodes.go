// File: nodes.go
// Title: vera AST Node Definitions
// Description: Defines the node types of the vera abstract syntax tree. The
//              set of node types is closed: Node, Statement and Expression
//              carry unexported marker methods, so only this package can add
//              variants and type switches over them stay exhaustive.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial AST node definitions

package ast

import (
	"github.com/msto63/vera/foundation/vera/token"
)

// NodeKind tags the concrete type of a node
type NodeKind int

const (
	KindBlock NodeKind = iota
	KindAssignment
	KindDeclaration
	KindIf
	KindReturn
	KindBreak
	KindContinue
	KindBinary
	KindLiteral
	KindIdentifier
)

// String returns the node type name used in exports, e.g. "BinaryExpression"
func (k NodeKind) String() string {
	switch k {
	case KindBlock:
		return "Block"
	case KindAssignment:
		return "Assignment"
	case KindDeclaration:
		return "Declaration"
	case KindIf:
		return "If"
	case KindReturn:
		return "Return"
	case KindBreak:
		return "Break"
	case KindContinue:
		return "Continue"
	case KindBinary:
		return "BinaryExpression"
	case KindLiteral:
		return "Literal"
	case KindIdentifier:
		return "Identifier"
	default:
		return "Unknown"
	}
}

// Node represents the base interface for all AST nodes
type Node interface {
	// Kind returns the variant tag of the node
	Kind() NodeKind

	// Position returns the position of the token that starts the node
	Position() token.Pos

	// String returns the canonical source rendering of the node
	String() string

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	node()
}

// Statement is a node that may appear in a Block
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that produces a value
type Expression interface {
	Node
	exprNode()
}

// Block is an ordered statement list. Statements is never nil.
type Block struct {
	Statements []Statement
	Pos        token.Pos
}

// Assignment stores the value of an expression in a named variable
type Assignment struct {
	Name  string
	Value Expression
	Pos   token.Pos
}

// Declaration introduces a typed variable with an initial value
type Declaration struct {
	Type  ValueType
	Name  string
	Value Expression
	Pos   token.Pos
}

// If is a conditional. Else is nil when there is no else clause.
type If struct {
	Condition Expression
	Then      *Block
	Else      *Block
	Pos       token.Pos
}

// Return leaves the program with a value
type Return struct {
	Value Expression
	Pos   token.Pos
}

// Break is a leaf statement
type Break struct {
	Pos token.Pos
}

// Continue is a leaf statement
type Continue struct {
	Pos token.Pos
}

// BinaryExpression applies an arithmetic operator to two operands
type BinaryExpression struct {
	Operator Operator
	Left     Expression
	Right    Expression
	Pos      token.Pos
}

// Literal is a constant value
type Literal struct {
	Value Value
	Pos   token.Pos
}

// Identifier refers to a variable by name
type Identifier struct {
	Name string
	Pos  token.Pos
}

// NewBlock creates a block; a nil statement list becomes an empty one
func NewBlock(pos token.Pos, statements ...Statement) *Block {
	if statements == nil {
		statements = []Statement{}
	}
	return &Block{Statements: statements, Pos: pos}
}

// HasElse reports whether the conditional has an else clause
func (n *If) HasElse() bool {
	return n.Else != nil
}

func (n *Block) Kind() NodeKind            { return KindBlock }
func (n *Assignment) Kind() NodeKind       { return KindAssignment }
func (n *Declaration) Kind() NodeKind      { return KindDeclaration }
func (n *If) Kind() NodeKind               { return KindIf }
func (n *Return) Kind() NodeKind           { return KindReturn }
func (n *Break) Kind() NodeKind            { return KindBreak }
func (n *Continue) Kind() NodeKind         { return KindContinue }
func (n *BinaryExpression) Kind() NodeKind { return KindBinary }
func (n *Literal) Kind() NodeKind          { return KindLiteral }
func (n *Identifier) Kind() NodeKind       { return KindIdentifier }

func (n *Block) Position() token.Pos            { return n.Pos }
func (n *Assignment) Position() token.Pos       { return n.Pos }
func (n *Declaration) Position() token.Pos      { return n.Pos }
func (n *If) Position() token.Pos               { return n.Pos }
func (n *Return) Position() token.Pos           { return n.Pos }
func (n *Break) Position() token.Pos            { return n.Pos }
func (n *Continue) Position() token.Pos         { return n.Pos }
func (n *BinaryExpression) Position() token.Pos { return n.Pos }
func (n *Literal) Position() token.Pos          { return n.Pos }
func (n *Identifier) Position() token.Pos       { return n.Pos }

func (n *Block) Accept(v Visitor) interface{}            { return v.VisitBlock(n) }
func (n *Assignment) Accept(v Visitor) interface{}       { return v.VisitAssignment(n) }
func (n *Declaration) Accept(v Visitor) interface{}      { return v.VisitDeclaration(n) }
func (n *If) Accept(v Visitor) interface{}               { return v.VisitIf(n) }
func (n *Return) Accept(v Visitor) interface{}           { return v.VisitReturn(n) }
func (n *Break) Accept(v Visitor) interface{}            { return v.VisitBreak(n) }
func (n *Continue) Accept(v Visitor) interface{}         { return v.VisitContinue(n) }
func (n *BinaryExpression) Accept(v Visitor) interface{} { return v.VisitBinary(n) }
func (n *Literal) Accept(v Visitor) interface{}          { return v.VisitLiteral(n) }
func (n *Identifier) Accept(v Visitor) interface{}       { return v.VisitIdentifier(n) }

func (n *Block) String() string            { return Format(n) }
func (n *Assignment) String() string       { return Format(n) }
func (n *Declaration) String() string      { return Format(n) }
func (n *If) String() string               { return Format(n) }
func (n *Return) String() string           { return Format(n) }
func (n *Break) String() string            { return Format(n) }
func (n *Continue) String() string         { return Format(n) }
func (n *BinaryExpression) String() string { return Format(n) }
func (n *Literal) String() string          { return Format(n) }
func (n *Identifier) String() string       { return Format(n) }

func (*Block) node()            {}
func (*Assignment) node()       {}
func (*Declaration) node()      {}
func (*If) node()               {}
func (*Return) node()           {}
func (*Break) node()            {}
func (*Continue) node()         {}
func (*BinaryExpression) node() {}
func (*Literal) node()          {}
func (*Identifier) node()       {}

func (*Assignment) stmtNode()  {}
func (*Declaration) stmtNode() {}
func (*If) stmtNode()          {}
func (*Return) stmtNode()      {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}

func (*BinaryExpression) exprNode() {}
func (*Literal) exprNode()          {}
func (*Identifier) exprNode()       {}
