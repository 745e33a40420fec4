// File: visitor.go
// Title: vera AST Visitor Pattern Implementation
// Description: Visitor interface and the visitors built on it: validation of
//              structural invariants and collection of identifiers, literals
//              and statement counts. Walk offers a closure-based traversal.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial visitor implementation

package ast

import (
	"fmt"

	"github.com/msto63/vera/foundation/vera/token"
)

// Visitor interface for traversing AST nodes using the visitor pattern.
// Visitors are responsible for descending into children themselves.
type Visitor interface {
	VisitBlock(n *Block) interface{}
	VisitAssignment(n *Assignment) interface{}
	VisitDeclaration(n *Declaration) interface{}
	VisitIf(n *If) interface{}
	VisitReturn(n *Return) interface{}
	VisitBreak(n *Break) interface{}
	VisitContinue(n *Continue) interface{}
	VisitBinary(n *BinaryExpression) interface{}
	VisitLiteral(n *Literal) interface{}
	VisitIdentifier(n *Identifier) interface{}
}

// BaseVisitor returns nil for every node. Embed it to implement only the
// methods a visitor cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitBlock(*Block) interface{}             { return nil }
func (BaseVisitor) VisitAssignment(*Assignment) interface{}   { return nil }
func (BaseVisitor) VisitDeclaration(*Declaration) interface{} { return nil }
func (BaseVisitor) VisitIf(*If) interface{}                   { return nil }
func (BaseVisitor) VisitReturn(*Return) interface{}           { return nil }
func (BaseVisitor) VisitBreak(*Break) interface{}             { return nil }
func (BaseVisitor) VisitContinue(*Continue) interface{}       { return nil }
func (BaseVisitor) VisitBinary(*BinaryExpression) interface{} { return nil }
func (BaseVisitor) VisitLiteral(*Literal) interface{}         { return nil }
func (BaseVisitor) VisitIdentifier(*Identifier) interface{}   { return nil }

// Children returns the direct children of a node in source order
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Block:
		out := make([]Node, 0, len(n.Statements))
		for _, s := range n.Statements {
			if s != nil {
				out = append(out, s)
			}
		}
		return out
	case *Assignment:
		return nonNil(n.Value)
	case *Declaration:
		return nonNil(n.Value)
	case *If:
		out := nonNil(n.Condition)
		if n.Then != nil {
			out = append(out, n.Then)
		}
		if n.Else != nil {
			out = append(out, n.Else)
		}
		return out
	case *Return:
		return nonNil(n.Value)
	case *BinaryExpression:
		return append(nonNil(n.Left), nonNil(n.Right)...)
	default:
		return nil
	}
}

func nonNil(e Expression) []Node {
	if e == nil {
		return nil
	}
	return []Node{e}
}

// Walk traverses the tree depth-first in source order. fn is called for
// each node; returning false skips the node's children.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// ValidationVisitor checks the structural invariants of a tree: block lists
// are non-nil, conditions and operands are present, operators and literal
// values are well formed and names are usable identifiers.
type ValidationVisitor struct {
	errors []error
}

// NewValidationVisitor creates a new validation visitor
func NewValidationVisitor() *ValidationVisitor {
	return &ValidationVisitor{}
}

// Errors returns the problems found so far
func (vv *ValidationVisitor) Errors() []error {
	return vv.errors
}

// HasErrors reports whether any problem was found
func (vv *ValidationVisitor) HasErrors() bool {
	return len(vv.errors) > 0
}

// Reset clears the collected errors
func (vv *ValidationVisitor) Reset() {
	vv.errors = nil
}

func (vv *ValidationVisitor) addError(pos token.Pos, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if pos.IsValid() {
		msg = pos.String() + ": " + msg
	}
	vv.errors = append(vv.errors, fmt.Errorf("%s", msg))
}

func (vv *ValidationVisitor) visitExpr(owner string, pos token.Pos, e Expression) {
	if e == nil {
		vv.addError(pos, "%s without expression", owner)
		return
	}
	e.Accept(vv)
}

func (vv *ValidationVisitor) checkName(pos token.Pos, name string) {
	if !IsIdentifier(name) {
		vv.addError(pos, "invalid identifier %q", name)
	}
}

func (vv *ValidationVisitor) VisitBlock(n *Block) interface{} {
	if n.Statements == nil {
		vv.addError(n.Pos, "block has nil statement list")
	}
	for i, s := range n.Statements {
		if s == nil {
			vv.addError(n.Pos, "statement %d is nil", i)
			continue
		}
		s.Accept(vv)
	}
	return nil
}

func (vv *ValidationVisitor) VisitAssignment(n *Assignment) interface{} {
	vv.checkName(n.Pos, n.Name)
	vv.visitExpr("assignment", n.Pos, n.Value)
	return nil
}

func (vv *ValidationVisitor) VisitDeclaration(n *Declaration) interface{} {
	if !n.Type.IsValid() {
		vv.addError(n.Pos, "declaration of unknown type %d", int(n.Type))
	}
	vv.checkName(n.Pos, n.Name)
	vv.visitExpr("declaration", n.Pos, n.Value)
	return nil
}

func (vv *ValidationVisitor) VisitIf(n *If) interface{} {
	vv.visitExpr("if", n.Pos, n.Condition)
	if n.Then == nil {
		vv.addError(n.Pos, "if without then block")
	} else {
		n.Then.Accept(vv)
	}
	if n.Else != nil {
		n.Else.Accept(vv)
	}
	return nil
}

func (vv *ValidationVisitor) VisitReturn(n *Return) interface{} {
	vv.visitExpr("return", n.Pos, n.Value)
	return nil
}

func (vv *ValidationVisitor) VisitBreak(*Break) interface{}       { return nil }
func (vv *ValidationVisitor) VisitContinue(*Continue) interface{} { return nil }

func (vv *ValidationVisitor) VisitBinary(n *BinaryExpression) interface{} {
	if !n.Operator.IsValid() {
		vv.addError(n.Pos, "unknown operator %d", int(n.Operator))
	}
	vv.visitExpr("left operand of "+n.Operator.String(), n.Pos, n.Left)
	vv.visitExpr("right operand of "+n.Operator.String(), n.Pos, n.Right)
	return nil
}

func (vv *ValidationVisitor) VisitLiteral(n *Literal) interface{} {
	if err := n.Value.Validate(); err != nil {
		vv.addError(n.Pos, "%v", err)
	}
	return nil
}

func (vv *ValidationVisitor) VisitIdentifier(n *Identifier) interface{} {
	vv.checkName(n.Pos, n.Name)
	return nil
}

// IsIdentifier reports whether name is a valid, non-reserved vera identifier
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, ch := range name {
		letter := 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
		if !letter && (i == 0 || ch < '0' || ch > '9') {
			return false
		}
	}
	return token.Lookup(name) == token.IDENTIFIER
}

// CollectorVisitor gathers statistics and references from a tree
type CollectorVisitor struct {
	BaseVisitor

	Identifiers  []*Identifier
	Literals     []*Literal
	Assigned     []string // targets of assignments and declarations, in order
	Statements   int      // all statements, nested ones included
	Nodes        int
	MaxDepth     int
	depth        int
	operatorUses map[Operator]int
}

// NewCollectorVisitor creates a new collector visitor
func NewCollectorVisitor() *CollectorVisitor {
	return &CollectorVisitor{operatorUses: make(map[Operator]int)}
}

// Reset clears everything collected so far
func (cv *CollectorVisitor) Reset() {
	*cv = CollectorVisitor{operatorUses: make(map[Operator]int)}
}

// OperatorCount returns how often op occurs
func (cv *CollectorVisitor) OperatorCount(op Operator) int {
	return cv.operatorUses[op]
}

func (cv *CollectorVisitor) enter() func() {
	cv.Nodes++
	cv.depth++
	if cv.depth > cv.MaxDepth {
		cv.MaxDepth = cv.depth
	}
	return func() { cv.depth-- }
}

func (cv *CollectorVisitor) children(n Node) {
	for _, c := range Children(n) {
		c.Accept(cv)
	}
}

func (cv *CollectorVisitor) VisitBlock(n *Block) interface{} {
	defer cv.enter()()
	cv.children(n)
	return nil
}

func (cv *CollectorVisitor) VisitAssignment(n *Assignment) interface{} {
	defer cv.enter()()
	cv.Statements++
	cv.Assigned = append(cv.Assigned, n.Name)
	cv.children(n)
	return nil
}

func (cv *CollectorVisitor) VisitDeclaration(n *Declaration) interface{} {
	defer cv.enter()()
	cv.Statements++
	cv.Assigned = append(cv.Assigned, n.Name)
	cv.children(n)
	return nil
}

func (cv *CollectorVisitor) VisitIf(n *If) interface{} {
	defer cv.enter()()
	cv.Statements++
	cv.children(n)
	return nil
}

func (cv *CollectorVisitor) VisitReturn(n *Return) interface{} {
	defer cv.enter()()
	cv.Statements++
	cv.children(n)
	return nil
}

func (cv *CollectorVisitor) VisitBreak(*Break) interface{} {
	defer cv.enter()()
	cv.Statements++
	return nil
}

func (cv *CollectorVisitor) VisitContinue(*Continue) interface{} {
	defer cv.enter()()
	cv.Statements++
	return nil
}

func (cv *CollectorVisitor) VisitBinary(n *BinaryExpression) interface{} {
	defer cv.enter()()
	if cv.operatorUses == nil {
		cv.operatorUses = make(map[Operator]int)
	}
	cv.operatorUses[n.Operator]++
	cv.children(n)
	return nil
}

func (cv *CollectorVisitor) VisitLiteral(n *Literal) interface{} {
	defer cv.enter()()
	cv.Literals = append(cv.Literals, n)
	return nil
}

func (cv *CollectorVisitor) VisitIdentifier(n *Identifier) interface{} {
	defer cv.enter()()
	cv.Identifiers = append(cv.Identifiers, n)
	return nil
}

// ValidateAST validates a tree and returns all problems found
func ValidateAST(node Node) []error {
	if node == nil {
		return []error{fmt.Errorf("nil node")}
	}
	vv := NewValidationVisitor()
	node.Accept(vv)
	return vv.Errors()
}

// CollectNodes runs a CollectorVisitor over a tree
func CollectNodes(node Node) *CollectorVisitor {
	cv := NewCollectorVisitor()
	if node != nil {
		node.Accept(cv)
	}
	return cv
}
