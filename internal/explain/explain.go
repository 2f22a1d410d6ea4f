// Package explain dumps an AST as an indented tree, one node per line.
//
// Each line is the node name, an optional detail and, for nodes with
// children, "(children N)". Children are indented one space deeper than
// their parent, in source order.
package explain

import (
	"fmt"
	"strings"

	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/internal/format"
)

// Explain returns the tree dump of n.
func Explain(n ast.Node) string {
	var sb strings.Builder
	Node(&sb, n, 0)
	return sb.String()
}

// Node writes n and its children at the given depth.
func Node(sb *strings.Builder, n ast.Node, depth int) {
	if n == nil {
		return
	}

	indent := strings.Repeat(" ", depth)
	name, detail := describe(n)
	children := children(n)

	sb.WriteString(indent)
	sb.WriteString(name)
	if detail != "" {
		sb.WriteString(" ")
		sb.WriteString(detail)
	}
	if len(children) > 0 {
		fmt.Fprintf(sb, " (children %d)", len(children))
	}
	sb.WriteString("\n")

	for _, c := range children {
		Node(sb, c, depth+1)
	}
}

// row groups the values of one INSERT row so they print under their own
// header.
type row struct {
	ast.ArgumentListValue
}

func children(n ast.Node) []ast.Node {
	if ins, ok := n.(*ast.InsertStatement); ok {
		out := []ast.Node{ins.Table}
		for _, values := range ins.Rows {
			out = append(out, &row{ast.ArgumentListValue{Values: values}})
		}
		return out
	}
	if r, ok := n.(*row); ok {
		return ast.Children(&r.ArgumentListValue)
	}
	return ast.Children(n)
}

func describe(n ast.Node) (name, detail string) {
	switch n := n.(type) {
	case *row:
		return "Row", ""
	case *ast.SelectStatement:
		if n.Distinct {
			return "SelectStatement", "DISTINCT"
		}
		return "SelectStatement", ""
	case *ast.Union:
		if n.All {
			return "Union", "ALL"
		}
		return "Union", ""
	case *ast.InsertStatement:
		switch {
		case n.DefaultValues:
			return "InsertStatement", "DEFAULT VALUES"
		case len(n.Columns) > 0:
			var sb strings.Builder
			sb.WriteString("(")
			for i, c := range n.Columns {
				if i > 0 {
					sb.WriteString(", ")
				}
				format.Ident(&sb, c)
			}
			sb.WriteString(")")
			return "InsertStatement", sb.String()
		}
		return "InsertStatement", ""
	case *ast.Table:
		if n.Alias != "" {
			var sb strings.Builder
			sb.WriteString("AS ")
			format.Ident(&sb, n.Alias)
			return "Table", sb.String()
		}
		return "Table", ""
	case *ast.Join:
		return "Join", string(n.Kind)
	case *ast.Where:
		return "Where", ""
	case *ast.GroupBy:
		return "GroupBy", ""
	case *ast.Having:
		return "Having", ""
	case *ast.Order:
		return "Order", ""
	case *ast.OrderArgument:
		return "OrderArgument", string(n.Direction)
	case *ast.Limit:
		switch {
		case n.Count != nil && n.Offset != nil:
			return "Limit", "count offset"
		case n.Count != nil:
			return "Limit", "count"
		}
		return "Limit", "offset"
	case *ast.Star:
		return "Star", ""
	case *ast.LiteralValue:
		return "LiteralValue", format.Format(n)
	case *ast.NumberValue:
		return "NumberValue", n.Value
	case *ast.StringValue:
		return "StringValue", format.Format(n)
	case *ast.BooleanValue:
		return "BooleanValue", n.Value
	case *ast.ParameterValue:
		return "ParameterValue", format.Format(n)
	case *ast.Op:
		return "Op", n.Operator
	case *ast.UnaryOp:
		return "UnaryOp", n.Operator
	case *ast.BetweenOp:
		return "BetweenOp", ""
	case *ast.FunctionValue:
		var sb strings.Builder
		format.Ident(&sb, n.Name)
		if n.Distinct {
			sb.WriteString(" DISTINCT")
		}
		if n.NoParens {
			sb.WriteString(" NOPARENS")
		}
		return "FunctionValue", sb.String()
	case *ast.ArgumentListValue:
		return "ArgumentListValue", ""
	case *ast.WhitespaceList:
		if n.Grouped {
			return "WhitespaceList", "GROUPED"
		}
		return "WhitespaceList", ""
	case *ast.CaseExpr:
		return "CaseExpr", ""
	case *ast.CaseWhen:
		return "CaseWhen", ""
	case *ast.DottedField:
		return "DottedField", ""
	case *ast.WindowSource:
		return "WindowSource", n.Func
	case *ast.AliasedExpr:
		var sb strings.Builder
		sb.WriteString("AS ")
		format.Ident(&sb, n.Alias)
		return "AliasedExpr", sb.String()
	default:
		return fmt.Sprintf("%T", n), ""
	}
}
