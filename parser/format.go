package parser

import (
	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/internal/format"
)

// Format returns the canonical single-line SQL rendering of a node.
// Parsing the result yields a tree equal to n.
func Format(n ast.Node) string {
	return format.Format(n)
}

// FormatStatements renders each statement followed by ";\n".
func FormatStatements(stmts []ast.Statement) string {
	return format.Statements(stmts)
}
