// File: export.go
// Title: vera AST Export and Comparison
// Description: Converts trees into generic maps for JSON, YAML and protobuf
//              Struct encoding, and compares trees structurally.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation

package ast

import (
	"github.com/msto63/vera/foundation/vera/token"
)

// ExportOptions controls ToMapWithOptions
type ExportOptions struct {
	// Positions adds a "pos" entry with line and column to every node
	Positions bool
}

// ToMap converts a tree into nested map[string]interface{} / []interface{}
// values. Every node map has a "type" entry with the NodeKind name. The
// result contains only types accepted by encoding/json, yaml.v3 and
// structpb.NewStruct.
func ToMap(node Node) map[string]interface{} {
	return ToMapWithOptions(node, ExportOptions{Positions: true})
}

// ToMapWithOptions converts a tree with the given options
func ToMapWithOptions(node Node, opts ExportOptions) map[string]interface{} {
	if node == nil {
		return nil
	}

	m := map[string]interface{}{"type": node.Kind().String()}
	if opts.Positions {
		m["pos"] = posMap(node.Position())
	}

	switch n := node.(type) {
	case *Block:
		stmts := make([]interface{}, 0, len(n.Statements))
		for _, s := range n.Statements {
			stmts = append(stmts, ToMapWithOptions(s, opts))
		}
		m["statements"] = stmts
	case *Assignment:
		m["name"] = n.Name
		m["value"] = exprMap(n.Value, opts)
	case *Declaration:
		m["valueType"] = n.Type.String()
		m["name"] = n.Name
		m["value"] = exprMap(n.Value, opts)
	case *If:
		m["condition"] = exprMap(n.Condition, opts)
		if n.Then != nil {
			m["then"] = ToMapWithOptions(n.Then, opts)
		}
		if n.Else != nil {
			m["else"] = ToMapWithOptions(n.Else, opts)
		}
	case *Return:
		m["value"] = exprMap(n.Value, opts)
	case *BinaryExpression:
		m["operator"] = n.Operator.String()
		m["left"] = exprMap(n.Left, opts)
		m["right"] = exprMap(n.Right, opts)
	case *Literal:
		m["valueType"] = n.Value.Type.String()
		m["raw"] = n.Value.Raw
		m["value"] = n.Value.Value
	case *Identifier:
		m["name"] = n.Name
	}
	return m
}

func exprMap(e Expression, opts ExportOptions) interface{} {
	if e == nil {
		return nil
	}
	return ToMapWithOptions(e, opts)
}

func posMap(p token.Pos) map[string]interface{} {
	return map[string]interface{}{
		"line":   p.Line,
		"column": p.Column,
	}
}

// Equal compares two trees structurally. Positions are ignored; literals
// compare by type and value, so "1.50" equals "1.5".
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *Block:
		y := b.(*Block)
		if len(x.Statements) != len(y.Statements) {
			return false
		}
		for i := range x.Statements {
			if !Equal(x.Statements[i], y.Statements[i]) {
				return false
			}
		}
		return true
	case *Assignment:
		y := b.(*Assignment)
		return x.Name == y.Name && equalExpr(x.Value, y.Value)
	case *Declaration:
		y := b.(*Declaration)
		return x.Type == y.Type && x.Name == y.Name && equalExpr(x.Value, y.Value)
	case *If:
		y := b.(*If)
		return equalExpr(x.Condition, y.Condition) &&
			equalBlock(x.Then, y.Then) && equalBlock(x.Else, y.Else)
	case *Return:
		return equalExpr(x.Value, b.(*Return).Value)
	case *Break, *Continue:
		return true
	case *BinaryExpression:
		y := b.(*BinaryExpression)
		return x.Operator == y.Operator && equalExpr(x.Left, y.Left) && equalExpr(x.Right, y.Right)
	case *Literal:
		y := b.(*Literal)
		return x.Value.Type == y.Value.Type && x.Value.Value == y.Value.Value
	case *Identifier:
		return x.Name == b.(*Identifier).Name
	}
	return false
}

func equalExpr(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}

func equalBlock(a, b *Block) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}
