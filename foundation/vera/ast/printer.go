// File: printer.go
// Title: vera Source Printer
// Description: StringVisitor renders an AST back to canonical vera source.
//              Expressions get the minimum parentheses needed to keep their
//              shape; statements are indented by two spaces per block level.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial printer implementation

package ast

import (
	"strings"
)

// Indent is the indentation unit used by the printer
const Indent = "  "

// StringVisitor writes canonical source text for the visited nodes
type StringVisitor struct {
	buffer strings.Builder
	indent int
}

// NewStringVisitor creates a new string visitor
func NewStringVisitor() *StringVisitor {
	return &StringVisitor{}
}

// String returns the text written so far
func (sv *StringVisitor) String() string {
	return sv.buffer.String()
}

// Reset clears the buffer
func (sv *StringVisitor) Reset() {
	sv.buffer.Reset()
	sv.indent = 0
}

func (sv *StringVisitor) writeIndent() {
	for i := 0; i < sv.indent; i++ {
		sv.buffer.WriteString(Indent)
	}
}

func (sv *StringVisitor) VisitBlock(n *Block) interface{} {
	if len(n.Statements) == 0 {
		sv.buffer.WriteString("{ }")
		return nil
	}
	sv.buffer.WriteString("{\n")
	sv.indent++
	for _, s := range n.Statements {
		sv.writeIndent()
		s.Accept(sv)
		sv.buffer.WriteString("\n")
	}
	sv.indent--
	sv.writeIndent()
	sv.buffer.WriteString("}")
	return nil
}

func (sv *StringVisitor) VisitAssignment(n *Assignment) interface{} {
	sv.buffer.WriteString(n.Name)
	sv.buffer.WriteString(" = ")
	n.Value.Accept(sv)
	sv.buffer.WriteString(";")
	return nil
}

func (sv *StringVisitor) VisitDeclaration(n *Declaration) interface{} {
	sv.buffer.WriteString(n.Type.String())
	sv.buffer.WriteString(" ")
	sv.VisitAssignment(&Assignment{Name: n.Name, Value: n.Value})
	return nil
}

func (sv *StringVisitor) VisitIf(n *If) interface{} {
	sv.buffer.WriteString("if (")
	n.Condition.Accept(sv)
	sv.buffer.WriteString(") ")
	n.Then.Accept(sv)
	if n.Else != nil {
		sv.buffer.WriteString(" else ")
		n.Else.Accept(sv)
	}
	return nil
}

func (sv *StringVisitor) VisitReturn(n *Return) interface{} {
	sv.buffer.WriteString("return ")
	n.Value.Accept(sv)
	sv.buffer.WriteString(";")
	return nil
}

func (sv *StringVisitor) VisitBreak(*Break) interface{} {
	sv.buffer.WriteString("break;")
	return nil
}

func (sv *StringVisitor) VisitContinue(*Continue) interface{} {
	sv.buffer.WriteString("continue;")
	return nil
}

func (sv *StringVisitor) VisitBinary(n *BinaryExpression) interface{} {
	prec := n.Operator.Precedence()
	sv.operand(n.Left, prec, false)
	sv.buffer.WriteString(" ")
	sv.buffer.WriteString(n.Operator.String())
	sv.buffer.WriteString(" ")
	sv.operand(n.Right, prec, true)
	return nil
}

// operand parenthesizes a child that binds looser than its parent, and a
// right child of equal precedence since both levels associate to the left
func (sv *StringVisitor) operand(e Expression, parent int, right bool) {
	child, ok := e.(*BinaryExpression)
	wrap := ok && (child.Operator.Precedence() < parent ||
		right && child.Operator.Precedence() == parent)
	if wrap {
		sv.buffer.WriteString("(")
	}
	e.Accept(sv)
	if wrap {
		sv.buffer.WriteString(")")
	}
}

func (sv *StringVisitor) VisitLiteral(n *Literal) interface{} {
	sv.buffer.WriteString(n.Value.Raw)
	return nil
}

func (sv *StringVisitor) VisitIdentifier(n *Identifier) interface{} {
	sv.buffer.WriteString(n.Name)
	return nil
}

// Format renders a single node as source text
func Format(node Node) string {
	if node == nil {
		return ""
	}
	sv := NewStringVisitor()
	node.Accept(sv)
	return sv.String()
}

// FormatProgram renders a program body as a complete source file
func FormatProgram(body *Block) string {
	return "program main " + Format(body) + "\n"
}
