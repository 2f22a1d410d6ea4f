package format

import (
	"fmt"
	"strings"

	"github.com/sqlc-dev/sqlast/ast"
)

// Expression formats an expression.
func Expression(sb *strings.Builder, expr ast.Expression) {
	if expr == nil {
		return
	}

	switch e := expr.(type) {
	case *ast.Star:
		sb.WriteString("*")
	case *ast.LiteralValue:
		formatLiteralValue(sb, e)
	case *ast.NumberValue:
		sb.WriteString(e.Value)
	case *ast.StringValue:
		quoteString(sb, e.Value, e.Quote)
	case *ast.BooleanValue:
		sb.WriteString(e.Value)
	case *ast.ParameterValue:
		sb.WriteString("$")
		sb.WriteString(e.Name)
		if e.Type != "" {
			sb.WriteString(":")
			sb.WriteString(e.Type)
		}
	case *ast.Op:
		formatOp(sb, e)
	case *ast.UnaryOp:
		sb.WriteString("(")
		sb.WriteString(e.Operator)
		sb.WriteString(" ")
		Expression(sb, e.Operand)
		sb.WriteString(")")
	case *ast.BetweenOp:
		Expression(sb, e.Lower)
		sb.WriteString(" AND ")
		Expression(sb, e.Upper)
	case *ast.FunctionValue:
		formatFunctionValue(sb, e)
	case *ast.ArgumentListValue:
		sb.WriteString("(")
		expressionList(sb, e.Values)
		sb.WriteString(")")
	case *ast.WhitespaceList:
		formatWhitespaceList(sb, e)
	case *ast.CaseExpr:
		formatCaseExpr(sb, e)
	case *ast.DottedField:
		for i, seg := range e.Segments {
			if i > 0 {
				sb.WriteString(".")
			}
			Expression(sb, seg)
		}
	case *ast.WindowSource:
		Expression(sb, e.Table)
		sb.WriteString(".win:")
		sb.WriteString(e.Func)
		sb.WriteString("(")
		if e.Arguments != nil {
			expressionList(sb, e.Arguments.Values)
		}
		sb.WriteString(")")
	case *ast.AliasedExpr:
		Expression(sb, e.Expr)
		sb.WriteString(" AS ")
		Ident(sb, e.Alias)
	case *ast.SelectStatement:
		sb.WriteString("(")
		formatSelectStatement(sb, e)
		sb.WriteString(")")
	default:
		// Fallback for unhandled expressions
		fmt.Fprintf(sb, "%v", expr)
	}
}

func expressionList(sb *strings.Builder, exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		Expression(sb, e)
	}
}

func formatLiteralValue(sb *strings.Builder, l *ast.LiteralValue) {
	Ident(sb, l.Name)
	if l.Type != "" {
		sb.WriteString(":")
		sb.WriteString(l.Type)
	}
}

// formatOp writes (left OP right). BETWEEN bounds and IN lists are
// written by their own node.
func formatOp(sb *strings.Builder, op *ast.Op) {
	sb.WriteString("(")
	Expression(sb, op.Left)
	sb.WriteString(" ")
	sb.WriteString(op.Operator)
	sb.WriteString(" ")
	Expression(sb, op.Right)
	sb.WriteString(")")
}

func formatFunctionValue(sb *strings.Builder, fn *ast.FunctionValue) {
	Ident(sb, fn.Name)
	if fn.NoParens {
		return
	}
	sb.WriteString("(")
	if fn.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if fn.Arguments != nil {
		for i, arg := range fn.Arguments.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			// the call's parentheses already group a space separated argument
			if ws, ok := arg.(*ast.WhitespaceList); ok && ws.Grouped {
				whitespaceValues(sb, ws)
				continue
			}
			Expression(sb, arg)
		}
	}
	sb.WriteString(")")
}

func formatWhitespaceList(sb *strings.Builder, w *ast.WhitespaceList) {
	if w.Grouped {
		sb.WriteString("(")
	}
	whitespaceValues(sb, w)
	if w.Grouped {
		sb.WriteString(")")
	}
}

func whitespaceValues(sb *strings.Builder, w *ast.WhitespaceList) {
	for i, v := range w.Values {
		if i > 0 {
			sb.WriteString(" ")
		}
		Expression(sb, v)
	}
}

func formatCaseExpr(sb *strings.Builder, c *ast.CaseExpr) {
	sb.WriteString("CASE")
	for _, w := range c.Whens {
		sb.WriteString(" ")
		formatCaseWhen(sb, w)
	}
	if c.Else != nil {
		sb.WriteString(" ELSE ")
		Expression(sb, c.Else)
	}
	sb.WriteString(" END")
}

func formatCaseWhen(sb *strings.Builder, w *ast.CaseWhen) {
	sb.WriteString("WHEN ")
	Expression(sb, w.Condition)
	sb.WriteString(" THEN ")
	Expression(sb, w.Result)
}
