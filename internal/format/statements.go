package format

import (
	"strings"

	"github.com/sqlc-dev/sqlast/ast"
)

func formatSelectStatement(sb *strings.Builder, s *ast.SelectStatement) {
	if s == nil {
		return
	}

	sb.WriteString("SELECT ")
	if s.Distinct {
		sb.WriteString("DISTINCT ")
	}
	expressionList(sb, s.Fields)

	if s.Source != nil {
		sb.WriteString(" FROM ")
		formatTable(sb, s.Source)
	}

	for _, j := range s.Joins {
		sb.WriteString(" ")
		formatJoin(sb, j)
	}

	if s.Where != nil {
		sb.WriteString(" WHERE ")
		Expression(sb, s.Where.Condition)
	}

	if s.Group != nil {
		sb.WriteString(" GROUP BY ")
		expressionList(sb, s.Group.Fields)
	}

	if s.Having != nil {
		sb.WriteString(" HAVING ")
		Expression(sb, s.Having.Condition)
	}

	if s.Order != nil {
		sb.WriteString(" ")
		formatOrder(sb, s.Order)
	}

	if s.Limit != nil {
		sb.WriteString(" ")
		formatLimit(sb, s.Limit)
	}

	for _, u := range s.Unions {
		sb.WriteString(" ")
		formatUnion(sb, u)
	}
}

func formatUnion(sb *strings.Builder, u *ast.Union) {
	sb.WriteString("UNION ")
	if u.All {
		sb.WriteString("ALL ")
	}
	formatSelectStatement(sb, u.Query)
}

func formatInsertStatement(sb *strings.Builder, s *ast.InsertStatement) {
	sb.WriteString("INSERT INTO ")
	formatTable(sb, s.Table)

	if s.DefaultValues {
		sb.WriteString(" DEFAULT VALUES")
		return
	}

	if len(s.Columns) > 0 {
		sb.WriteString(" (")
		for i, c := range s.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			Ident(sb, c)
		}
		sb.WriteString(")")
	}

	sb.WriteString(" VALUES ")
	for i, row := range s.Rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		expressionList(sb, row)
		sb.WriteString(")")
	}
}

func formatTable(sb *strings.Builder, t *ast.Table) {
	if t == nil {
		return
	}
	Expression(sb, t.Name)
	if t.Alias != "" {
		sb.WriteString(" AS ")
		Ident(sb, t.Alias)
	}
}

func formatJoin(sb *strings.Builder, j *ast.Join) {
	sb.WriteString(string(j.Kind))
	sb.WriteString(" JOIN ")
	formatTable(sb, j.Table)
	sb.WriteString(" ON ")
	Expression(sb, j.Condition)
}

func formatOrder(sb *strings.Builder, o *ast.Order) {
	sb.WriteString("ORDER BY ")
	for i, arg := range o.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatOrderArgument(sb, arg)
	}
}

func formatOrderArgument(sb *strings.Builder, a *ast.OrderArgument) {
	Expression(sb, a.Value)
	sb.WriteString(" ")
	if a.Direction == "" {
		sb.WriteString(string(ast.Asc))
		return
	}
	sb.WriteString(string(a.Direction))
}

// formatLimit always uses the LIMIT count OFFSET offset form, or
// OFFSET offset ROWS when there is no count.
func formatLimit(sb *strings.Builder, l *ast.Limit) {
	if l.Count == nil {
		sb.WriteString("OFFSET ")
		Expression(sb, l.Offset)
		sb.WriteString(" ROWS")
		return
	}
	sb.WriteString("LIMIT ")
	Expression(sb, l.Count)
	if l.Offset != nil {
		sb.WriteString(" OFFSET ")
		Expression(sb, l.Offset)
	}
}
