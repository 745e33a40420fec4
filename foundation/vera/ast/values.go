// File: values.go
// Title: vera Operators and Literal Values
// Description: Arithmetic operators of binary expressions and the tagged
//              literal value (int, float, string, bool) with typed accessors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial implementation

package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/msto63/vera/foundation/vera/token"
)

// Operator is an arithmetic operator
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
)

// String returns the operator symbol
func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// IsValid reports whether o is one of the four operators
func (o Operator) IsValid() bool {
	return o >= OpAdd && o <= OpDiv
}

// Precedence returns 1 for additive and 2 for multiplicative operators
func (o Operator) Precedence() int {
	switch o {
	case OpMul, OpDiv:
		return 2
	case OpAdd, OpSub:
		return 1
	default:
		return 0
	}
}

// OperatorFromToken maps PLUS, MINUS, MULTIPLY and DIVIDE to operators
func OperatorFromToken(kind token.Kind) (Operator, bool) {
	switch kind {
	case token.PLUS:
		return OpAdd, true
	case token.MINUS:
		return OpSub, true
	case token.MULTIPLY:
		return OpMul, true
	case token.DIVIDE:
		return OpDiv, true
	default:
		return 0, false
	}
}

// ValueType is the type of a literal or declared variable
type ValueType int

const (
	ValueTypeInt ValueType = iota
	ValueTypeFloat
	ValueTypeString
	ValueTypeBool
)

// String returns the vera type name
func (vt ValueType) String() string {
	switch vt {
	case ValueTypeInt:
		return "int"
	case ValueTypeFloat:
		return "float"
	case ValueTypeString:
		return "string"
	case ValueTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// IsValid reports whether vt is a known type
func (vt ValueType) IsValid() bool {
	return vt >= ValueTypeInt && vt <= ValueTypeBool
}

// ValueTypeFromToken maps the INT, FLOAT, STRING and BOOL keywords to types
func ValueTypeFromToken(kind token.Kind) (ValueType, bool) {
	switch kind {
	case token.INT:
		return ValueTypeInt, true
	case token.FLOAT:
		return ValueTypeFloat, true
	case token.STRING:
		return ValueTypeString, true
	case token.BOOL:
		return ValueTypeBool, true
	default:
		return 0, false
	}
}

// Value is a tagged literal value. Raw is the source text (string literals
// keep their quotes); Value holds int64, float64, string or bool.
type Value struct {
	Type  ValueType
	Raw   string
	Value interface{}
}

// IntValue creates an integer value
func IntValue(i int64) Value {
	return Value{Type: ValueTypeInt, Raw: strconv.FormatInt(i, 10), Value: i}
}

// FloatValue creates a float value. The raw form always contains a dot.
func FloatValue(f float64) Value {
	raw := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(raw, ".NI") {
		raw += ".0"
	}
	return Value{Type: ValueTypeFloat, Raw: raw, Value: f}
}

// StringValue creates a string value from its unquoted content
func StringValue(s string) Value {
	return Value{Type: ValueTypeString, Raw: `"` + s + `"`, Value: s}
}

// BoolValue creates a boolean value
func BoolValue(b bool) Value {
	return Value{Type: ValueTypeBool, Raw: strconv.FormatBool(b), Value: b}
}

// Int returns the integer value
func (v Value) Int() (int64, bool) {
	i, ok := v.Value.(int64)
	return i, ok && v.Type == ValueTypeInt
}

// Float returns the float value
func (v Value) Float() (float64, bool) {
	f, ok := v.Value.(float64)
	return f, ok && v.Type == ValueTypeFloat
}

// Str returns the unquoted string value
func (v Value) Str() (string, bool) {
	s, ok := v.Value.(string)
	return s, ok && v.Type == ValueTypeString
}

// Bool returns the boolean value
func (v Value) Bool() (bool, bool) {
	b, ok := v.Value.(bool)
	return b, ok && v.Type == ValueTypeBool
}

// String returns the source form of the value
func (v Value) String() string {
	return v.Raw
}

// Validate checks that Value matches Type and that Raw can be written back
// as a vera literal
func (v Value) Validate() error {
	switch v.Type {
	case ValueTypeInt:
		i, ok := v.Int()
		if !ok {
			return fmt.Errorf("int literal holds %T", v.Value)
		}
		if i < 0 {
			return fmt.Errorf("int literal %d is negative", i)
		}
	case ValueTypeFloat:
		f, ok := v.Float()
		if !ok {
			return fmt.Errorf("float literal holds %T", v.Value)
		}
		if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("float literal %v cannot be written in source", f)
		}
	case ValueTypeString:
		s, ok := v.Str()
		if !ok {
			return fmt.Errorf("string literal holds %T", v.Value)
		}
		if strings.Contains(s, `"`) {
			return fmt.Errorf("string literal contains a double quote")
		}
	case ValueTypeBool:
		if _, ok := v.Bool(); !ok {
			return fmt.Errorf("bool literal holds %T", v.Value)
		}
	default:
		return fmt.Errorf("unknown literal type %d", int(v.Type))
	}
	return nil
}
