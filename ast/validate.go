package ast

import (
	"errors"
	"fmt"
)

// ErrInvalidNode is wrapped by every error returned from Validate and from
// the New* constructors.
var ErrInvalidNode = errors.New("invalid node")

func invalid(node, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidNode, node, fmt.Sprintf(format, args...))
}

func isExprNil(e Expression) bool { return isNil(e) }

// NewOp returns a binary operation after checking its operands.
func NewOp(operator string, left, right Expression) (*Op, error) {
	n := &Op{Operator: operator, Left: left, Right: right}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewUnaryOp returns a prefix operation.
func NewUnaryOp(operator string, operand Expression) (*UnaryOp, error) {
	n := &UnaryOp{Operator: operator, Operand: operand}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewBetweenOp returns the bounds of a BETWEEN.
func NewBetweenOp(lower, upper Expression) (*BetweenOp, error) {
	n := &BetweenOp{Lower: lower, Upper: upper}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewLimit returns a LIMIT clause. count or offset may be nil, not both.
func NewLimit(count, offset Expression) (*Limit, error) {
	n := &Limit{Count: count, Offset: offset}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewFunctionValue returns a call written with parentheses. A nil args is
// replaced by an empty list.
func NewFunctionValue(name string, args *ArgumentListValue, distinct bool) (*FunctionValue, error) {
	if args == nil {
		args = &ArgumentListValue{}
	}
	n := &FunctionValue{Name: name, Arguments: args, Distinct: distinct}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewWhitespaceList returns a list of juxtaposed values.
func NewWhitespaceList(values []Expression, grouped bool) (*WhitespaceList, error) {
	n := &WhitespaceList{Values: values, Grouped: grouped}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewDottedField returns a dotted access path.
func NewDottedField(segments []Expression) (*DottedField, error) {
	n := &DottedField{Segments: segments}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewCaseExpr returns a CASE expression.
func NewCaseExpr(whens []*CaseWhen, elseExpr Expression) (*CaseExpr, error) {
	n := &CaseExpr{Whens: whens, Else: elseExpr}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewTable returns a query source.
func NewTable(name Expression, alias string) (*Table, error) {
	n := &Table{Name: name, Alias: alias}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewJoin returns a JOIN clause.
func NewJoin(kind JoinKind, table *Table, condition Expression) (*Join, error) {
	n := &Join{Kind: kind, Table: table, Condition: condition}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks n and every node below it.
func Validate(n Node) error {
	if isNil(n) {
		return invalid("node", "nil")
	}
	var err error
	Walk(n, func(child Node) bool {
		if err != nil {
			return false
		}
		err = child.Validate()
		return err == nil
	})
	return err
}

// Walk calls fn for n and then, while fn returns true, for each child in
// source order. Nil children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Children returns the direct non-nil children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(cs ...Node) {
		for _, c := range cs {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *SelectStatement:
		for _, f := range n.Fields {
			add(f)
		}
		add(n.Source)
		for _, j := range n.Joins {
			add(j)
		}
		add(n.Where, n.Group, n.Having, n.Order, n.Limit)
		for _, u := range n.Unions {
			add(u)
		}
	case *Union:
		add(n.Query)
	case *InsertStatement:
		add(n.Table)
		for _, row := range n.Rows {
			for _, v := range row {
				add(v)
			}
		}
	case *Table:
		add(n.Name)
	case *Join:
		add(n.Table, n.Condition)
	case *Where:
		add(n.Condition)
	case *GroupBy:
		for _, f := range n.Fields {
			add(f)
		}
	case *Having:
		add(n.Condition)
	case *Order:
		for _, a := range n.Arguments {
			add(a)
		}
	case *OrderArgument:
		add(n.Value)
	case *Limit:
		add(n.Count, n.Offset)
	case *Op:
		add(n.Left, n.Right)
	case *UnaryOp:
		add(n.Operand)
	case *BetweenOp:
		add(n.Lower, n.Upper)
	case *FunctionValue:
		add(n.Arguments)
	case *ArgumentListValue:
		for _, v := range n.Values {
			add(v)
		}
	case *WhitespaceList:
		for _, v := range n.Values {
			add(v)
		}
	case *CaseExpr:
		for _, w := range n.Whens {
			add(w)
		}
		add(n.Else)
	case *CaseWhen:
		add(n.Condition, n.Result)
	case *DottedField:
		for _, s := range n.Segments {
			add(s)
		}
	case *WindowSource:
		add(n.Table, n.Arguments)
	case *AliasedExpr:
		add(n.Expr)
	}
	return out
}

func (s *SelectStatement) Validate() error {
	if len(s.Fields) == 0 {
		return invalid("SelectStatement", "no fields")
	}
	for i, f := range s.Fields {
		if isExprNil(f) {
			return invalid("SelectStatement", "field %d is nil", i)
		}
	}
	if s.Source == nil {
		return invalid("SelectStatement", "no source")
	}
	for _, u := range s.Unions {
		if u != nil && u.Query != nil && len(u.Query.Unions) > 0 {
			return invalid("SelectStatement", "nested union")
		}
	}
	return nil
}

func (u *Union) Validate() error {
	if u.Query == nil {
		return invalid("Union", "no query")
	}
	return nil
}

func (s *InsertStatement) Validate() error {
	if s.Table == nil {
		return invalid("InsertStatement", "no table")
	}
	if s.DefaultValues {
		if len(s.Rows) > 0 || len(s.Columns) > 0 {
			return invalid("InsertStatement", "DEFAULT VALUES with columns or rows")
		}
		return nil
	}
	if len(s.Rows) == 0 {
		return invalid("InsertStatement", "no rows")
	}
	for i, row := range s.Rows {
		if len(row) == 0 {
			return invalid("InsertStatement", "row %d is empty", i)
		}
	}
	return nil
}

func (t *Table) Validate() error {
	switch t.Name.(type) {
	case *LiteralValue, *DottedField, *SelectStatement, *WindowSource:
		if isExprNil(t.Name) {
			return invalid("Table", "no name")
		}
		return nil
	case nil:
		return invalid("Table", "no name")
	default:
		return invalid("Table", "unsupported source %T", t.Name)
	}
}

func (k JoinKind) valid() bool {
	switch k {
	case JoinInner, JoinLeft, JoinRight, JoinLeftInner, JoinLeftOuter, JoinRightInner, JoinRightOuter:
		return true
	}
	return false
}

func (j *Join) Validate() error {
	if !j.Kind.valid() {
		return invalid("Join", "unknown kind %q", j.Kind)
	}
	if j.Table == nil {
		return invalid("Join", "no table")
	}
	if isExprNil(j.Condition) {
		return invalid("Join", "no condition")
	}
	return nil
}

func (w *Where) Validate() error {
	if isExprNil(w.Condition) {
		return invalid("Where", "no condition")
	}
	return nil
}

func (g *GroupBy) Validate() error {
	if len(g.Fields) == 0 {
		return invalid("GroupBy", "no fields")
	}
	return nil
}

func (h *Having) Validate() error {
	if isExprNil(h.Condition) {
		return invalid("Having", "no condition")
	}
	return nil
}

func (o *Order) Validate() error {
	if len(o.Arguments) == 0 {
		return invalid("Order", "no arguments")
	}
	return nil
}

func (a *OrderArgument) Validate() error {
	if isExprNil(a.Value) {
		return invalid("OrderArgument", "no value")
	}
	if a.Direction != Asc && a.Direction != Desc {
		return invalid("OrderArgument", "unknown direction %q", a.Direction)
	}
	return nil
}

func (l *Limit) Validate() error {
	if isExprNil(l.Count) && isExprNil(l.Offset) {
		return invalid("Limit", "neither count nor offset")
	}
	return nil
}

func (s *Star) Validate() error { return nil }

func (l *LiteralValue) Validate() error { return nil }

func (n *NumberValue) Validate() error {
	if n.Value == "" {
		return invalid("NumberValue", "empty")
	}
	return nil
}

func (s *StringValue) Validate() error {
	if s.Quote != "'" && s.Quote != `"` {
		return invalid("StringValue", "unknown quote %q", s.Quote)
	}
	return nil
}

func (b *BooleanValue) Validate() error {
	switch b.Value {
	case BoolNull, BoolTrue, BoolFalse:
		return nil
	}
	return invalid("BooleanValue", "unknown value %q", b.Value)
}

func (p *ParameterValue) Validate() error {
	if p.Name == "" {
		return invalid("ParameterValue", "empty name")
	}
	return nil
}

func (o *Op) Validate() error {
	if o.Operator == "" {
		return invalid("Op", "no operator")
	}
	if isExprNil(o.Left) || isExprNil(o.Right) {
		return invalid("Op", "%s needs two operands", o.Operator)
	}
	switch o.Operator {
	case "BETWEEN", "NOT BETWEEN":
		if _, ok := o.Right.(*BetweenOp); !ok {
			return invalid("Op", "%s right operand is %T", o.Operator, o.Right)
		}
	case "IN", "NOT IN":
		switch o.Right.(type) {
		case *ArgumentListValue, *SelectStatement:
		default:
			return invalid("Op", "%s right operand is %T", o.Operator, o.Right)
		}
	}
	return nil
}

func (u *UnaryOp) Validate() error {
	if u.Operator == "" {
		return invalid("UnaryOp", "no operator")
	}
	if isExprNil(u.Operand) {
		return invalid("UnaryOp", "%s needs an operand", u.Operator)
	}
	if u.Operator == "EXISTS" {
		if _, ok := u.Operand.(*SelectStatement); !ok {
			return invalid("UnaryOp", "EXISTS operand is %T", u.Operand)
		}
	}
	return nil
}

func (b *BetweenOp) Validate() error {
	if isExprNil(b.Lower) || isExprNil(b.Upper) {
		return invalid("BetweenOp", "needs two bounds")
	}
	return nil
}

func (f *FunctionValue) Validate() error {
	if f.Name == "" {
		return invalid("FunctionValue", "no name")
	}
	if f.NoParens {
		if f.Arguments != nil || f.Distinct {
			return invalid("FunctionValue", "%s without parentheses takes no arguments", f.Name)
		}
		return nil
	}
	if f.Arguments == nil {
		return invalid("FunctionValue", "%s has no argument list", f.Name)
	}
	return nil
}

func (a *ArgumentListValue) Validate() error {
	for i, v := range a.Values {
		if isExprNil(v) {
			return invalid("ArgumentListValue", "value %d is nil", i)
		}
	}
	return nil
}

func (w *WhitespaceList) Validate() error {
	if len(w.Values) < 2 {
		return invalid("WhitespaceList", "needs at least two values, got %d", len(w.Values))
	}
	for i, v := range w.Values {
		if isExprNil(v) {
			return invalid("WhitespaceList", "value %d is nil", i)
		}
	}
	return nil
}

func (c *CaseExpr) Validate() error {
	if len(c.Whens) == 0 {
		return invalid("CaseExpr", "no WHEN")
	}
	for i, w := range c.Whens {
		if w == nil {
			return invalid("CaseExpr", "WHEN %d is nil", i)
		}
	}
	return nil
}

func (c *CaseWhen) Validate() error {
	if isExprNil(c.Condition) || isExprNil(c.Result) {
		return invalid("CaseWhen", "needs a condition and a result")
	}
	return nil
}

func (d *DottedField) Validate() error {
	if len(d.Segments) < 2 {
		return invalid("DottedField", "needs at least two segments, got %d", len(d.Segments))
	}
	last := len(d.Segments) - 1
	for i, s := range d.Segments {
		if isExprNil(s) {
			return invalid("DottedField", "segment %d is nil", i)
		}
		switch s.(type) {
		case *LiteralValue:
		case *FunctionValue, *Star:
			if i != last {
				return invalid("DottedField", "segment %d is %T", i, s)
			}
		default:
			return invalid("DottedField", "segment %d is %T", i, s)
		}
	}
	return nil
}

func (w *WindowSource) Validate() error {
	if isExprNil(w.Table) {
		return invalid("WindowSource", "no table")
	}
	if w.Func == "" {
		return invalid("WindowSource", "no function")
	}
	if w.Arguments == nil {
		return invalid("WindowSource", "no argument list")
	}
	return nil
}

func (a *AliasedExpr) Validate() error {
	if isExprNil(a.Expr) {
		return invalid("AliasedExpr", "no expression")
	}
	if a.Alias == "" {
		return invalid("AliasedExpr", "no alias")
	}
	return nil
}
