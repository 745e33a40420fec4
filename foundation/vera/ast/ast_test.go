// File: ast_test.go
// Title: vera AST Tests
// Description: Tests for printing, export, comparison, validation and the
//              visitors, using hand-built trees.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial test implementation

package ast

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/msto63/vera/foundation/vera/token"
)

func ident(name string) *Identifier { return &Identifier{Name: name} }
func lit(v Value) *Literal          { return &Literal{Value: v} }

func bin(op Operator, l, r Expression) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: l, Right: r}
}

// sample is: int n = 2; if (n * (n + 1)) { n = n - (1 - 2); break; } else { return "done"; }
func sample() *Block {
	return NewBlock(token.Pos{Line: 1, Column: 14},
		&Declaration{Type: ValueTypeInt, Name: "n", Value: lit(IntValue(2))},
		&If{
			Condition: bin(OpMul, ident("n"), bin(OpAdd, ident("n"), lit(IntValue(1)))),
			Then: NewBlock(token.Pos{},
				&Assignment{Name: "n", Value: bin(OpSub, ident("n"), bin(OpSub, lit(IntValue(1)), lit(IntValue(2))))},
				&Break{},
			),
			Else: NewBlock(token.Pos{}, &Return{Value: lit(StringValue("done"))}),
		},
	)
}

func TestFormat(t *testing.T) {
	want := strings.Join([]string{
		"{",
		"  int n = 2;",
		"  if (n * (n + 1)) {",
		"    n = n - (1 - 2);",
		"    break;",
		"  } else {",
		`    return "done";`,
		"  }",
		"}",
	}, "\n")

	if got := Format(sample()); got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
	if got := FormatProgram(NewBlock(token.Pos{})); got != "program main { }\n" {
		t.Errorf("Expected empty program, got %q", got)
	}
}

func TestFormatParentheses(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"left assoc needs none", bin(OpSub, bin(OpSub, ident("a"), ident("b")), ident("c")), "a - b - c"},
		{"right nested same level", bin(OpSub, ident("a"), bin(OpAdd, ident("b"), ident("c"))), "a - (b + c)"},
		{"lower precedence child", bin(OpMul, bin(OpAdd, ident("a"), ident("b")), ident("c")), "(a + b) * c"},
		{"higher precedence child", bin(OpAdd, ident("a"), bin(OpDiv, ident("b"), ident("c"))), "a + b / c"},
		{"division chain right", bin(OpDiv, ident("a"), bin(OpDiv, ident("b"), ident("c"))), "a / (b / c)"},
		{"float literal", lit(FloatValue(2)), "2.0"},
		{"bool literal", lit(BoolValue(true)), "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.expr); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestToMapIsJSONEncodable(t *testing.T) {
	m := ToMap(sample())
	if m["type"] != "Block" {
		t.Errorf("Expected type Block, got %v", m["type"])
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	stmts := decoded["statements"].([]interface{})
	if len(stmts) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(stmts))
	}
	ifMap := stmts[1].(map[string]interface{})
	if ifMap["type"] != "If" {
		t.Errorf("Expected If, got %v", ifMap["type"])
	}
	cond := ifMap["condition"].(map[string]interface{})
	if cond["type"] != "BinaryExpression" || cond["operator"] != "*" {
		t.Errorf("Unexpected condition %v", cond)
	}
	if _, ok := ifMap["else"]; !ok {
		t.Error("Expected else entry")
	}
}

func TestToMapOmitsMissingElse(t *testing.T) {
	m := ToMapWithOptions(&If{Condition: ident("x"), Then: NewBlock(token.Pos{})}, ExportOptions{})
	if _, ok := m["else"]; ok {
		t.Error("else must be absent when there is no else clause")
	}
	if _, ok := m["pos"]; ok {
		t.Error("pos must be absent when Positions is false")
	}
}

func TestEqual(t *testing.T) {
	a, b := sample(), sample()
	if !Equal(a, b) {
		t.Error("Expected equal trees")
	}

	b.Statements[0].(*Declaration).Name = "m"
	if Equal(a, b) {
		t.Error("Expected trees with different names to differ")
	}

	x := lit(Value{Type: ValueTypeFloat, Raw: "1.50", Value: 1.5})
	y := lit(FloatValue(1.5))
	if !Equal(x, y) {
		t.Error("Float literals compare by value")
	}
	if Equal(lit(IntValue(1)), lit(FloatValue(1))) {
		t.Error("int 1 and float 1.0 differ")
	}
	if Equal(&If{Condition: ident("x"), Then: NewBlock(token.Pos{})},
		&If{Condition: ident("x"), Then: NewBlock(token.Pos{}), Else: NewBlock(token.Pos{})}) {
		t.Error("missing else differs from empty else")
	}
}

func TestValidateAST(t *testing.T) {
	if errs := ValidateAST(sample()); len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}

	broken := &Block{Statements: []Statement{
		&If{Then: &Block{}},
		&Assignment{Name: "if", Value: bin(Operator(9), ident("1x"), nil)},
		&Declaration{Type: ValueType(7), Name: "ok", Value: lit(Value{Type: ValueTypeInt, Value: "1"})},
		&Return{Value: lit(IntValue(-1))},
	}}

	errs := ValidateAST(broken)
	joined := make([]string, len(errs))
	for i, e := range errs {
		joined[i] = e.Error()
	}
	all := strings.Join(joined, "\n")

	for _, want := range []string{
		"if without expression",
		"block has nil statement list",
		`invalid identifier "if"`,
		"unknown operator 9",
		`invalid identifier "1x"`,
		"right operand of ? without expression",
		"declaration of unknown type 7",
		"int literal holds string",
		"int literal -1 is negative",
	} {
		if !strings.Contains(all, want) {
			t.Errorf("Expected error %q in:\n%s", want, all)
		}
	}
}

func TestWalk(t *testing.T) {
	var kinds []string
	Walk(sample(), func(n Node) bool {
		kinds = append(kinds, n.Kind().String())
		return n.Kind() != KindIf
	})
	want := "Block Declaration Literal If"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestCollectNodes(t *testing.T) {
	cv := CollectNodes(sample())

	if cv.Statements != 5 {
		t.Errorf("Expected 5 statements, got %d", cv.Statements)
	}
	if len(cv.Identifiers) != 3 {
		t.Errorf("Expected 3 identifiers, got %d", len(cv.Identifiers))
	}
	if len(cv.Literals) != 5 {
		t.Errorf("Expected 5 literals, got %d", len(cv.Literals))
	}
	if cv.OperatorCount(OpSub) != 2 || cv.OperatorCount(OpMul) != 1 || cv.OperatorCount(OpDiv) != 0 {
		t.Error("Unexpected operator counts")
	}
	if strings.Join(cv.Assigned, ",") != "n,n" {
		t.Errorf("Unexpected assigned names %v", cv.Assigned)
	}
	// Block > If > Block > Assignment > Binary > Binary > Literal
	if cv.MaxDepth != 7 {
		t.Errorf("Expected depth 7, got %d", cv.MaxDepth)
	}

	cv.Reset()
	if cv.Nodes != 0 || cv.OperatorCount(OpSub) != 0 {
		t.Error("Reset did not clear the collector")
	}
}

func TestBaseVisitorEmbedding(t *testing.T) {
	type breakCounter struct {
		BaseVisitor
	}
	var v Visitor = breakCounter{}
	if (&Break{}).Accept(v) != nil {
		t.Error("BaseVisitor must return nil")
	}
}

func TestValueHelpers(t *testing.T) {
	if FloatValue(0.25).Raw != "0.25" {
		t.Errorf("Unexpected raw %q", FloatValue(0.25).Raw)
	}
	if _, ok := IntValue(1).Float(); ok {
		t.Error("int value must not report a float")
	}
	if vt, ok := ValueTypeFromToken(token.BOOL); !ok || vt != ValueTypeBool {
		t.Error("BOOL maps to bool")
	}
	if vt, ok := ValueTypeFromToken(token.FLOAT); !ok || vt != ValueTypeFloat {
		t.Error("FLOAT maps to float")
	}
	if op, ok := OperatorFromToken(token.DIVIDE); !ok || op != OpDiv {
		t.Error("DIVIDE maps to /")
	}
	if OpAdd.Precedence() >= OpMul.Precedence() {
		t.Error("* must bind tighter than +")
	}
	if KindBinary.String() != "BinaryExpression" {
		t.Errorf("Unexpected kind name %s", KindBinary)
	}
}

func TestTree(t *testing.T) {
	root := NewBlock(token.Pos{Line: 1, Column: 6},
		&Assignment{Name: "x", Value: bin(OpAdd, lit(IntValue(1)), ident("y")), Pos: token.Pos{Line: 1, Column: 8}},
		&If{
			Condition: ident("x"),
			Then:      NewBlock(token.Pos{}, &Break{}),
			Else:      NewBlock(token.Pos{}),
		},
	)

	want := strings.Join([]string{
		"Block (2) @1:6",
		"├─ Assignment x @1:8",
		"│  └─ BinaryExpression + @0:0",
		"│     ├─ Literal int 1 @0:0",
		"│     └─ Identifier y @0:0",
		"└─ If @0:0",
		"   ├─ Identifier x @0:0",
		"   ├─ then: Block (1) @0:0",
		"   │  └─ Break @0:0",
		"   └─ else: Block (0) @0:0",
		"",
	}, "\n")

	if got := Tree(root); got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
	if Tree(nil) != "" {
		t.Error("Expected empty tree for nil")
	}
}
