// File: doc.go
// Title: vera AST Package Documentation
// Description: Package documentation for the vera abstract syntax tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-28
// Modified: 2026-09-28
//
// Change History:
// - 2026-09-28 v0.1.0: Initial documentation

/*
Package ast defines the abstract syntax tree produced by the vera parser.

A program body is a *Block of statements (*Assignment, *Declaration, *If,
*Return, *Break, *Continue). Expressions are *BinaryExpression, *Literal and
*Identifier. Trees are built bottom-up by the parser and are not modified
afterwards; every child belongs to exactly one parent.

Code that branches on node type uses a type switch:

	switch n := stmt.(type) {
	case *ast.If:
		...
	case *ast.Assignment:
		...
	}

or implements Visitor (embedding BaseVisitor for the methods it does not
need). Format renders a tree back to source, ToMap exports it for JSON, YAML
and protobuf encoding, ValidateAST checks the structural invariants.
*/
package ast
