// Package format renders an AST as canonical single-line SQL.
//
// The output is not byte-for-byte the input. It is stable: parsing the
// rendered text yields an equal tree, and rendering that tree again
// yields the same text. Every binary and unary operation is wrapped in
// parentheses so precedence never depends on the reader.
package format

import (
	"strings"
	"unicode"

	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/token"
)

// Format returns the canonical rendering of a node.
func Format(n ast.Node) string {
	var sb strings.Builder
	Node(&sb, n)
	return sb.String()
}

// Statements renders each statement on its own line, terminated by ';'.
func Statements(stmts []ast.Statement) string {
	var sb strings.Builder
	for _, stmt := range stmts {
		Node(&sb, stmt)
		sb.WriteString(";\n")
	}
	return sb.String()
}

// Node formats any node. A SelectStatement is written bare here and in
// parentheses when it appears inside an expression.
func Node(sb *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case nil:
	case *ast.SelectStatement:
		formatSelectStatement(sb, n)
	case *ast.InsertStatement:
		formatInsertStatement(sb, n)
	case *ast.Union:
		formatUnion(sb, n)
	case *ast.Table:
		formatTable(sb, n)
	case *ast.Join:
		formatJoin(sb, n)
	case *ast.Where:
		sb.WriteString("WHERE ")
		Expression(sb, n.Condition)
	case *ast.GroupBy:
		sb.WriteString("GROUP BY ")
		expressionList(sb, n.Fields)
	case *ast.Having:
		sb.WriteString("HAVING ")
		Expression(sb, n.Condition)
	case *ast.Order:
		formatOrder(sb, n)
	case *ast.OrderArgument:
		formatOrderArgument(sb, n)
	case *ast.Limit:
		formatLimit(sb, n)
	case *ast.CaseWhen:
		formatCaseWhen(sb, n)
	case ast.Expression:
		Expression(sb, n)
	}
}

// Ident writes a name, in backticks when it would not lex back as the
// same plain identifier.
func Ident(sb *strings.Builder, name string) {
	if isPlainIdent(name) {
		sb.WriteString(name)
		return
	}
	sb.WriteByte('`')
	sb.WriteString(strings.ReplaceAll(name, "`", "``"))
	sb.WriteByte('`')
}

func isPlainIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return token.Lookup(strings.ToUpper(name)) == token.LITERAL
}

// quoteString writes s between quote, doubling any quote inside it.
func quoteString(sb *strings.Builder, s, quote string) {
	if quote == "" {
		quote = "'"
	}
	sb.WriteString(quote)
	sb.WriteString(strings.ReplaceAll(s, quote, quote+quote))
	sb.WriteString(quote)
}
