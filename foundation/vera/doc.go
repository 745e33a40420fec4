// File: doc.go
// Title: vera Package Documentation
// Description: Package documentation for the vera front end.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial documentation

/*
Package vera is the front end of the vera language: it turns source text of
a single `program main { ... }` block into an abstract syntax tree.

The work is split into subpackages that can be used on their own:

	token   token kinds and positions
	lexer   source text -> []token.Token, *lexer.LexicalError
	parser  []token.Token -> *ast.Block, *parser.SyntaxError
	ast     tree, visitors, printer, export

Engine ties them together with input limits, cancellation, run IDs, logging
and mdw error codes:

	engine := vera.NewEngine(vera.Options{Logger: logger})
	result, err := engine.Parse(ctx, src)
	if err != nil {
		pos, _ := vera.ErrorPosition(err)
		...
	}
	fmt.Println(ast.FormatProgram(result.AST))
*/
package vera
