package parser

import (
	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/internal/explain"
)

// Explain returns an indented dump of the tree, one node per line.
func Explain(n ast.Node) string {
	return explain.Explain(n)
}
