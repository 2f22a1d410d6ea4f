package ast

import "reflect"

// Equal reports whether two nodes are structurally equal. Nil nodes are
// equal only to nil nodes; nil and empty lists are equal.
func Equal(a, b Node) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	return a.Equal(b)
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func equalExprs(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// equalList compares two lists of nodes of the same concrete type.
func equalList[T Node](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// same unwraps other into the receiver's type. ok is false when the types
// differ; both is true when both sides are nil.
func same[P interface {
	comparable
	Node
}](self P, other Node) (o P, ok, both bool) {
	var zero P
	o, ok = other.(P)
	if !ok {
		if isNil(other) && self == zero {
			return zero, true, true
		}
		return zero, false, false
	}
	if self == zero || o == zero {
		return o, self == zero && o == zero, true
	}
	return o, true, false
}

func (s *SelectStatement) Equal(other Node) bool {
	o, ok, done := same(s, other)
	if !ok || done {
		return ok
	}
	return s.Distinct == o.Distinct &&
		equalExprs(s.Fields, o.Fields) &&
		Equal(s.Source, o.Source) &&
		equalList(s.Joins, o.Joins) &&
		Equal(s.Where, o.Where) &&
		Equal(s.Group, o.Group) &&
		Equal(s.Having, o.Having) &&
		Equal(s.Order, o.Order) &&
		Equal(s.Limit, o.Limit) &&
		equalList(s.Unions, o.Unions)
}

func (u *Union) Equal(other Node) bool {
	o, ok, done := same(u, other)
	if !ok || done {
		return ok
	}
	return u.All == o.All && Equal(u.Query, o.Query)
}

func (s *InsertStatement) Equal(other Node) bool {
	o, ok, done := same(s, other)
	if !ok || done {
		return ok
	}
	if !Equal(s.Table, o.Table) || s.DefaultValues != o.DefaultValues {
		return false
	}
	if len(s.Columns) != len(o.Columns) || len(s.Rows) != len(o.Rows) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range s.Rows {
		if !equalExprs(s.Rows[i], o.Rows[i]) {
			return false
		}
	}
	return true
}

func (t *Table) Equal(other Node) bool {
	o, ok, done := same(t, other)
	if !ok || done {
		return ok
	}
	return t.Alias == o.Alias && Equal(t.Name, o.Name)
}

func (j *Join) Equal(other Node) bool {
	o, ok, done := same(j, other)
	if !ok || done {
		return ok
	}
	return j.Kind == o.Kind && Equal(j.Table, o.Table) && Equal(j.Condition, o.Condition)
}

func (w *Where) Equal(other Node) bool {
	o, ok, done := same(w, other)
	if !ok || done {
		return ok
	}
	return Equal(w.Condition, o.Condition)
}

func (g *GroupBy) Equal(other Node) bool {
	o, ok, done := same(g, other)
	if !ok || done {
		return ok
	}
	return equalExprs(g.Fields, o.Fields)
}

func (h *Having) Equal(other Node) bool {
	o, ok, done := same(h, other)
	if !ok || done {
		return ok
	}
	return Equal(h.Condition, o.Condition)
}

func (r *Order) Equal(other Node) bool {
	o, ok, done := same(r, other)
	if !ok || done {
		return ok
	}
	return equalList(r.Arguments, o.Arguments)
}

func (a *OrderArgument) Equal(other Node) bool {
	o, ok, done := same(a, other)
	if !ok || done {
		return ok
	}
	return a.Direction == o.Direction && Equal(a.Value, o.Value)
}

func (l *Limit) Equal(other Node) bool {
	o, ok, done := same(l, other)
	if !ok || done {
		return ok
	}
	return Equal(l.Count, o.Count) && Equal(l.Offset, o.Offset)
}

func (s *Star) Equal(other Node) bool {
	_, ok, _ := same(s, other)
	return ok
}

func (l *LiteralValue) Equal(other Node) bool {
	o, ok, done := same(l, other)
	if !ok || done {
		return ok
	}
	return *l == *o
}

func (n *NumberValue) Equal(other Node) bool {
	o, ok, done := same(n, other)
	if !ok || done {
		return ok
	}
	return *n == *o
}

func (s *StringValue) Equal(other Node) bool {
	o, ok, done := same(s, other)
	if !ok || done {
		return ok
	}
	return *s == *o
}

func (b *BooleanValue) Equal(other Node) bool {
	o, ok, done := same(b, other)
	if !ok || done {
		return ok
	}
	return *b == *o
}

func (p *ParameterValue) Equal(other Node) bool {
	o, ok, done := same(p, other)
	if !ok || done {
		return ok
	}
	return *p == *o
}

func (op *Op) Equal(other Node) bool {
	o, ok, done := same(op, other)
	if !ok || done {
		return ok
	}
	return op.Operator == o.Operator && Equal(op.Left, o.Left) && Equal(op.Right, o.Right)
}

func (u *UnaryOp) Equal(other Node) bool {
	o, ok, done := same(u, other)
	if !ok || done {
		return ok
	}
	return u.Operator == o.Operator && Equal(u.Operand, o.Operand)
}

func (b *BetweenOp) Equal(other Node) bool {
	o, ok, done := same(b, other)
	if !ok || done {
		return ok
	}
	return Equal(b.Lower, o.Lower) && Equal(b.Upper, o.Upper)
}

func (f *FunctionValue) Equal(other Node) bool {
	o, ok, done := same(f, other)
	if !ok || done {
		return ok
	}
	return f.Name == o.Name && f.Distinct == o.Distinct && f.NoParens == o.NoParens &&
		Equal(f.Arguments, o.Arguments)
}

func (a *ArgumentListValue) Equal(other Node) bool {
	o, ok, done := same(a, other)
	if !ok || done {
		return ok
	}
	return equalExprs(a.Values, o.Values)
}

func (w *WhitespaceList) Equal(other Node) bool {
	o, ok, done := same(w, other)
	if !ok || done {
		return ok
	}
	return w.Grouped == o.Grouped && equalExprs(w.Values, o.Values)
}

func (c *CaseExpr) Equal(other Node) bool {
	o, ok, done := same(c, other)
	if !ok || done {
		return ok
	}
	return equalList(c.Whens, o.Whens) && Equal(c.Else, o.Else)
}

func (c *CaseWhen) Equal(other Node) bool {
	o, ok, done := same(c, other)
	if !ok || done {
		return ok
	}
	return Equal(c.Condition, o.Condition) && Equal(c.Result, o.Result)
}

func (d *DottedField) Equal(other Node) bool {
	o, ok, done := same(d, other)
	if !ok || done {
		return ok
	}
	return equalExprs(d.Segments, o.Segments)
}

func (w *WindowSource) Equal(other Node) bool {
	o, ok, done := same(w, other)
	if !ok || done {
		return ok
	}
	return w.Func == o.Func && Equal(w.Table, o.Table) && Equal(w.Arguments, o.Arguments)
}

func (a *AliasedExpr) Equal(other Node) bool {
	o, ok, done := same(a, other)
	if !ok || done {
		return ok
	}
	return a.Alias == o.Alias && Equal(a.Expr, o.Expr)
}
