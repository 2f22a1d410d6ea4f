// Package ast defines the abstract syntax tree for the SQL dialect.
//
// Nodes are built once by the parser and are not modified afterwards.
// Two trees are equal when they have the same shape and contents; source
// positions are not part of the tree.
package ast

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Equal reports whether other has the same structure and contents.
	Equal(other Node) bool
	// Validate checks the node's own fields, not its children.
	Validate() error
}

// Statement is the interface implemented by all statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression is the interface implemented by all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// -----------------------------------------------------------------------------
// Statements

// SelectStatement represents a SELECT query. Unions chained after the first
// query are collected on the outermost statement, in source order.
type SelectStatement struct {
	Distinct bool         `json:"distinct,omitempty"`
	Fields   []Expression `json:"fields"`
	Source   *Table       `json:"source"`
	Joins    []*Join      `json:"joins,omitempty"`
	Where    *Where       `json:"where,omitempty"`
	Group    *GroupBy     `json:"group,omitempty"`
	Having   *Having      `json:"having,omitempty"`
	Order    *Order       `json:"order,omitempty"`
	Limit    *Limit       `json:"limit,omitempty"`
	Unions   []*Union     `json:"unions,omitempty"`
}

func (s *SelectStatement) statementNode()  {}
func (s *SelectStatement) expressionNode() {}

// Union is one UNION [ALL] link of a SELECT chain.
type Union struct {
	All   bool             `json:"all,omitempty"`
	Query *SelectStatement `json:"query"`
}

// InsertStatement represents an INSERT INTO ... VALUES or DEFAULT VALUES statement.
type InsertStatement struct {
	Table         *Table         `json:"table"`
	Columns       []string       `json:"columns,omitempty"`
	Rows          [][]Expression `json:"rows,omitempty"`
	DefaultValues bool           `json:"default_values,omitempty"`
}

func (s *InsertStatement) statementNode() {}

// -----------------------------------------------------------------------------
// Clauses

// Table represents a query source. Name is a LiteralValue, a DottedField,
// a WindowSource or a nested SelectStatement.
type Table struct {
	Name  Expression `json:"name"`
	Alias string     `json:"alias,omitempty"`
}

// JoinKind represents the kind of join as written in the query.
type JoinKind string

const (
	JoinInner      JoinKind = "INNER"
	JoinLeft       JoinKind = "LEFT"
	JoinRight      JoinKind = "RIGHT"
	JoinLeftInner  JoinKind = "LEFT INNER"
	JoinLeftOuter  JoinKind = "LEFT OUTER"
	JoinRightInner JoinKind = "RIGHT INNER"
	JoinRightOuter JoinKind = "RIGHT OUTER"
)

// Join represents a JOIN clause.
type Join struct {
	Kind      JoinKind   `json:"kind"`
	Table     *Table     `json:"table"`
	Condition Expression `json:"condition"`
}

// Where represents a WHERE clause.
type Where struct {
	Condition Expression `json:"condition"`
}

// GroupBy represents a GROUP BY clause.
type GroupBy struct {
	Fields []Expression `json:"fields"`
}

// Having represents a HAVING clause.
type Having struct {
	Condition Expression `json:"condition"`
}

// Direction is the sort direction of an ORDER BY argument.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order represents an ORDER BY clause.
type Order struct {
	Arguments []*OrderArgument `json:"arguments"`
}

// OrderArgument represents one ORDER BY element.
type OrderArgument struct {
	Value     Expression `json:"value"`
	Direction Direction  `json:"direction"`
}

// Limit represents LIMIT / OFFSET / FETCH. At least one of Count and
// Offset is set.
type Limit struct {
	Count  Expression `json:"count,omitempty"`
	Offset Expression `json:"offset,omitempty"`
}

// -----------------------------------------------------------------------------
// Expressions

// Star represents * meaning all columns.
type Star struct{}

func (s *Star) expressionNode() {}

// LiteralValue represents a column, table or other name, with an optional
// inline type (name:type).
type LiteralValue struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

func (l *LiteralValue) expressionNode() {}

// NumberValue represents a numeric literal. Value is the literal text,
// including a leading '-' for negative numbers.
type NumberValue struct {
	Value string `json:"value"`
}

func (n *NumberValue) expressionNode() {}

// StringValue represents a string literal. Value is decoded; Quote is the
// delimiter it was written with.
type StringValue struct {
	Value string `json:"value"`
	Quote string `json:"quote"`
}

func (s *StringValue) expressionNode() {}

// Boolean-like keyword values.
const (
	BoolNull  = "NULL"
	BoolTrue  = "TRUE"
	BoolFalse = "FALSE"
)

// BooleanValue represents NULL, TRUE or FALSE.
type BooleanValue struct {
	Value string `json:"value"`
}

func (b *BooleanValue) expressionNode() {}

// ParameterValue represents a $name or $name:type placeholder.
type ParameterValue struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

func (p *ParameterValue) expressionNode() {}

// Op represents a binary operation. Keyword operators are upper case and
// negated forms include NOT ("NOT LIKE", "IS NOT", "NOT IN").
// For BETWEEN the right operand is a BetweenOp; for IN it is an
// ArgumentListValue or a SelectStatement.
type Op struct {
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func (o *Op) expressionNode() {}

// UnaryOp represents a prefix operation: "-", "NOT" or "EXISTS".
type UnaryOp struct {
	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func (u *UnaryOp) expressionNode() {}

// BetweenOp holds the two bounds of a BETWEEN.
type BetweenOp struct {
	Lower Expression `json:"lower"`
	Upper Expression `json:"upper"`
}

func (b *BetweenOp) expressionNode() {}

// FunctionValue represents a function call. A call written with
// parentheses always carries an argument list, possibly empty.
type FunctionValue struct {
	Name      string             `json:"name"`
	Arguments *ArgumentListValue `json:"arguments,omitempty"`
	Distinct  bool               `json:"distinct,omitempty"`
	NoParens  bool               `json:"no_parens,omitempty"`
}

func (f *FunctionValue) expressionNode() {}

// ArgumentListValue represents a comma separated list of expressions.
type ArgumentListValue struct {
	Values []Expression `json:"values"`
}

func (a *ArgumentListValue) expressionNode() {}

// WhitespaceList represents space separated expressions such as
// INTERVAL 14 DAYS. Grouped is set when the list was parenthesized.
type WhitespaceList struct {
	Values  []Expression `json:"values"`
	Grouped bool         `json:"grouped,omitempty"`
}

func (w *WhitespaceList) expressionNode() {}

// CaseExpr represents CASE WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	Whens []*CaseWhen `json:"whens"`
	Else  Expression  `json:"else,omitempty"`
}

func (c *CaseExpr) expressionNode() {}

// CaseWhen is one WHEN ... THEN ... pair.
type CaseWhen struct {
	Condition Expression `json:"condition"`
	Result    Expression `json:"result"`
}

// DottedField represents a.b.c access. Every segment but the last is a
// LiteralValue; the last may also be a FunctionValue or a Star.
type DottedField struct {
	Segments []Expression `json:"segments"`
}

func (d *DottedField) expressionNode() {}

// WindowSource represents a windowed source such as t.win:length(10).
type WindowSource struct {
	Table     Expression         `json:"table"`
	Func      string             `json:"func"`
	Arguments *ArgumentListValue `json:"arguments"`
}

func (w *WindowSource) expressionNode() {}

// AliasedExpr represents expr AS alias in a field list.
type AliasedExpr struct {
	Expr  Expression `json:"expr"`
	Alias string     `json:"alias"`
}

func (a *AliasedExpr) expressionNode() {}
