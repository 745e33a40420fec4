// File: tree.go
// Title: vera AST Tree Rendering
// Description: Renders a tree as an indented outline with box-drawing
//              guides, one node per line with its position.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-03
// Modified: 2026-10-03
//
// Change History:
// - 2026-10-03 v0.1.0: Initial implementation

package ast

import (
	"fmt"
	"strings"
)

// Tree renders node as an outline:
//
//	Block @1:6
//	└─ Assignment x @1:8
//	   └─ Literal int 1 @1:12
func Tree(node Node) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(Label(node))
	b.WriteByte('\n')
	writeChildren(&b, node, "")
	return b.String()
}

func writeChildren(b *strings.Builder, node Node, prefix string) {
	children := Children(node)
	iff, isIf := node.(*If)
	for i, child := range children {
		last := i == len(children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		b.WriteString(prefix)
		b.WriteString(branch)
		if isIf {
			switch child {
			case Node(iff.Then):
				b.WriteString("then: ")
			case Node(iff.Else):
				b.WriteString("else: ")
			}
		}
		b.WriteString(Label(child))
		b.WriteByte('\n')
		writeChildren(b, child, prefix+next)
	}
}

// Label is the one-line description Tree prints for a node
func Label(node Node) string {
	var desc string
	switch n := node.(type) {
	case *Block:
		desc = fmt.Sprintf("Block (%d)", len(n.Statements))
	case *Assignment:
		desc = "Assignment " + n.Name
	case *Declaration:
		desc = fmt.Sprintf("Declaration %s %s", n.Type, n.Name)
	case *BinaryExpression:
		desc = "BinaryExpression " + n.Operator.String()
	case *Literal:
		desc = fmt.Sprintf("Literal %s %s", n.Value.Type, n.Value.Raw)
	case *Identifier:
		desc = "Identifier " + n.Name
	default:
		desc = node.Kind().String()
	}
	return fmt.Sprintf("%s @%s", desc, node.Position())
}
