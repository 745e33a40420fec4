// File: doc.go
// Title: String Utilities Package Documentation
// Description: Package documentation for stringx.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial documentation
// - 2026-09-28 v0.2.0: Reduced to the source-text helpers vera needs

// Package stringx provides Unicode-aware string helpers used when vera
// renders source excerpts, token tables and diagnostics. All widths and
// positions are counted in runes, matching the line/column convention of
// the lexer.
package stringx
