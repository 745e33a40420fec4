// File: format_test.go
// Title: vera Printer Round-Trip Tests
// Description: Parses source, prints it with ast.Format and parses the
//              result again; both trees must be equal.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial test implementation

package parser

import (
	"testing"

	"github.com/msto63/vera/foundation/vera/ast"
)

func TestFormatRoundTrip(t *testing.T) {
	sources := []string{
		"main { }",
		"program main { a = 1; }",
		"main { a = (1 + 2) * (3 - 4) / 5; b = a - (a - 1); c = (a * b) * 2; }",
		`main { string s = "multi
line"; bool f = false; float x = 0.50; }`,
		"main { if x { if (y + 1) { break; } } else { continue; } return x; }",
		"main{int i=1;i=i*2;if i{return i;}else{return 0;}}",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first := mustParse(t, src)
			printed := ast.FormatProgram(first)
			second, err := ParseSource(printed)
			if err != nil {
				t.Fatalf("Reparsing formatted source failed: %v\n%s", err, printed)
			}
			if !ast.Equal(first, second) {
				t.Errorf("Round trip changed the tree:\n%s", printed)
			}
			if again := ast.FormatProgram(second); again != printed {
				t.Errorf("Format is not stable:\n%s\nvs\n%s", printed, again)
			}
		})
	}
}

func TestParsedTreesValidate(t *testing.T) {
	block := mustParse(t, "main { int a = 1; if (a) { a = a + 2 * 3; } else { return \"x\"; } }")
	if errs := ast.ValidateAST(block); len(errs) != 0 {
		t.Errorf("Parsed tree failed validation: %v", errs)
	}
}
