// Package parser implements a parser for the SQL dialect.
package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/lexer"
	"github.com/sqlc-dev/sqlast/token"
)

// Parser parses SQL statements from a token sequence. A Parser is not safe
// for concurrent use; create one per input.
type Parser struct {
	items   []lexer.Item
	next    int
	current lexer.Item
	peek    lexer.Item
	err     error
}

// New creates a Parser over items. If items does not end with EOF, one is
// added after the last item.
func New(items []lexer.Item) *Parser {
	if n := len(items); n == 0 || items[n-1].Token != token.EOF {
		eof := lexer.Item{Token: token.EOF, Pos: token.Position{Line: 1, Column: 1}}
		if n > 0 {
			last := items[n-1]
			eof.Pos = last.Pos
			eof.Pos.Offset += len(last.Value)
			eof.Pos.Column += len(last.Value)
		}
		items = append(items[:n:n], eof)
	}
	p := &Parser{items: items}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.current = p.peek
	if p.next < len(p.items) {
		p.peek = p.items[p.next]
		p.next++
		return
	}
	// Past the end, keep returning the final EOF
	p.peek = p.items[len(p.items)-1]
}

func (p *Parser) currentIs(t token.Token) bool {
	return p.current.Token == t
}

func (p *Parser) peekIs(t token.Token) bool {
	return p.peek.Token == t
}

// currentIsWord reports whether the current token is the contextual word w.
func (p *Parser) currentIsWord(words ...string) bool {
	if !p.currentIs(token.LITERAL) || p.current.Quote != 0 {
		return false
	}
	for _, w := range words {
		if strings.EqualFold(p.current.Value, w) {
			return true
		}
	}
	return false
}

// fail records err unless an earlier error is already recorded.
func (p *Parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) unexpected(expected ...token.Token) {
	p.fail(&Error{Token: p.current, Expected: expected})
}

func (p *Parser) expect(t token.Token, alternatives ...token.Token) bool {
	if p.currentIs(t) {
		p.nextToken()
		return true
	}
	p.unexpected(append([]token.Token{t}, alternatives...)...)
	return false
}

func (p *Parser) expectWord(words ...string) bool {
	if p.currentIsWord(words...) {
		p.nextToken()
		return true
	}
	p.unexpected(token.LITERAL)
	return false
}

// build records a failed node constructor and passes the node through.
func build[T ast.Node](p *Parser, n T, err error) T {
	if err != nil {
		p.fail(err)
	}
	return n
}

// ParseTokens parses a single statement, optionally followed by ';'.
func ParseTokens(items []lexer.Item) (ast.Statement, error) {
	p := New(items)
	stmt := p.parseStatement()
	if p.err == nil && p.currentIs(token.SEMICOLON) {
		p.nextToken()
	}
	if p.err == nil && !p.currentIs(token.EOF) {
		p.unexpected(token.SEMICOLON, token.EOF)
	}
	if p.err != nil {
		return nil, p.err
	}
	return stmt, nil
}

// Parse tokenizes and parses a single statement. Lexer failures are
// returned as *lexer.Error, grammar failures as *Error.
func Parse(sql string) (ast.Statement, error) {
	items, err := lexer.TokenizeString(sql)
	if err != nil {
		return nil, err
	}
	return ParseTokens(items)
}

// ParseStatements parses a ';' separated script. ctx is checked between
// statements.
func ParseStatements(ctx context.Context, r io.Reader) ([]ast.Statement, error) {
	items, err := lexer.Tokenize(r)
	if err != nil {
		return nil, err
	}

	p := New(items)
	var statements []ast.Statement

	for {
		// Skip semicolons between statements
		for p.currentIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.currentIs(token.EOF) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		stmt := p.parseStatement()
		if p.err != nil {
			return nil, p.err
		}
		statements = append(statements, stmt)

		if !p.currentIs(token.SEMICOLON) && !p.currentIs(token.EOF) {
			p.unexpected(token.SEMICOLON, token.EOF)
			return nil, p.err
		}
	}

	return statements, nil
}

// ParseFile parses every statement in the file at path.
func ParseFile(ctx context.Context, path string) ([]ast.Statement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseStatements(ctx, bytes.NewReader(data))
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.current.Token {
	case token.SELECT:
		sel := p.parseSelectStatement()
		if p.err != nil {
			return nil
		}
		return sel
	case token.INSERT:
		ins := p.parseInsert()
		if p.err != nil {
			return nil
		}
		return ins
	default:
		p.unexpected(token.SELECT, token.INSERT)
		return nil
	}
}

// parseSelectStatement parses SELECT ... [UNION [ALL] SELECT ...]*. The
// chained queries are collected on the first one.
func (p *Parser) parseSelectStatement() *ast.SelectStatement {
	sel := p.parseSelect()
	if p.err != nil {
		return nil
	}

	for p.currentIs(token.UNION) {
		p.nextToken() // skip UNION
		all := false
		if p.currentIs(token.ALL) {
			all = true
			p.nextToken()
		}
		if !p.currentIs(token.SELECT) {
			p.unexpected(token.SELECT, token.ALL)
			return nil
		}
		next := p.parseSelect()
		if p.err != nil {
			return nil
		}
		sel.Unions = append(sel.Unions, &ast.Union{All: all, Query: next})
	}

	return build(p, sel, sel.Validate())
}

func (p *Parser) parseSelect() *ast.SelectStatement {
	sel := &ast.SelectStatement{}

	if !p.expect(token.SELECT) {
		return nil
	}

	if p.currentIs(token.DISTINCT) {
		sel.Distinct = true
		p.nextToken()
	}

	sel.Fields = p.parseFieldList()
	if p.err != nil {
		return nil
	}

	if !p.expect(token.FROM, token.SEPARATOR, token.AS) {
		return nil
	}
	sel.Source = p.parseTable()
	if p.err != nil {
		return nil
	}

	for p.isJoinKeyword() {
		join := p.parseJoin()
		if p.err != nil {
			return nil
		}
		sel.Joins = append(sel.Joins, join)
	}

	if p.currentIs(token.WHERE) {
		p.nextToken()
		cond := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		sel.Where = &ast.Where{Condition: cond}
	}

	if p.currentIs(token.GROUP) {
		p.nextToken()
		if !p.expect(token.BY) {
			return nil
		}
		fields := p.parseArgumentList()
		if p.err != nil {
			return nil
		}
		sel.Group = &ast.GroupBy{Fields: fields}
	}

	if p.currentIs(token.HAVING) {
		p.nextToken()
		cond := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		sel.Having = &ast.Having{Condition: cond}
	}

	if p.currentIs(token.ORDER) {
		p.nextToken()
		if !p.expect(token.BY) {
			return nil
		}
		sel.Order = p.parseOrderByList()
		if p.err != nil {
			return nil
		}
	}

	sel.Limit = p.parseLimitClause()
	if p.err != nil {
		return nil
	}

	return sel
}

// parseFieldList parses the SELECT list. * and expr AS alias are only
// valid here.
func (p *Parser) parseFieldList() []ast.Expression {
	var fields []ast.Expression
	for {
		var field ast.Expression
		if p.currentIs(token.STAR) {
			field = &ast.Star{}
			p.nextToken()
		} else {
			field = p.parseExpression(LOWEST)
			if p.err != nil {
				return nil
			}
			if p.currentIs(token.AS) {
				p.nextToken()
				if !p.currentIs(token.LITERAL) {
					p.unexpected(token.LITERAL)
					return nil
				}
				field = &ast.AliasedExpr{Expr: field, Alias: p.current.Value}
				p.nextToken()
			}
		}
		fields = append(fields, field)

		if !p.currentIs(token.SEPARATOR) {
			return fields
		}
		p.nextToken()
	}
}

// parseTable parses a FROM or JOIN source: a name, a dotted name, a
// windowed name or a parenthesized query, with an optional alias.
func (p *Parser) parseTable() *ast.Table {
	var name ast.Expression
	switch p.current.Token {
	case token.LEFT_PAREN:
		p.nextToken()
		if !p.currentIs(token.SELECT) {
			p.unexpected(token.SELECT)
			return nil
		}
		sel := p.parseSelectStatement()
		if p.err != nil || !p.expect(token.RIGHT_PAREN) {
			return nil
		}
		name = sel
	case token.LITERAL:
		name = p.parseTableName(true)
	default:
		p.unexpected(token.LITERAL, token.LEFT_PAREN)
		return nil
	}
	if p.err != nil {
		return nil
	}

	alias := ""
	switch {
	case p.currentIs(token.AS):
		p.nextToken()
		if !p.currentIs(token.LITERAL) {
			p.unexpected(token.LITERAL)
			return nil
		}
		alias = p.current.Value
		p.nextToken()
	case p.currentIs(token.LITERAL):
		alias = p.current.Value
		p.nextToken()
	}

	n, err := ast.NewTable(name, alias)
	return build(p, n, err)
}

// isWindow reports whether item is the win:func segment of a window source.
func isWindow(item lexer.Item) bool {
	if item.Token != token.LITERAL || item.Quote != 0 {
		return false
	}
	name, fn, ok := strings.Cut(item.Value, ":")
	return ok && fn != "" && strings.EqualFold(name, "win")
}

func (p *Parser) parseTableName(allowWindow bool) ast.Expression {
	segments := []ast.Expression{literalValue(p.current)}
	p.nextToken()

	for p.currentIs(token.DOT) {
		p.nextToken()
		if !p.currentIs(token.LITERAL) {
			p.unexpected(token.LITERAL)
			return nil
		}
		if allowWindow && isWindow(p.current) && p.peekIs(token.LEFT_PAREN) {
			return p.parseWindowSource(segments)
		}
		segments = append(segments, literalValue(p.current))
		p.nextToken()
	}

	if len(segments) == 1 {
		return segments[0]
	}
	n, err := ast.NewDottedField(segments)
	return build(p, n, err)
}

func (p *Parser) parseWindowSource(segments []ast.Expression) ast.Expression {
	_, fn, _ := strings.Cut(p.current.Value, ":")
	p.nextToken() // skip win:func
	p.nextToken() // skip (

	args := &ast.ArgumentListValue{}
	if !p.currentIs(token.RIGHT_PAREN) {
		args.Values = p.parseArgumentList()
		if p.err != nil {
			return nil
		}
	}
	if !p.expect(token.RIGHT_PAREN) {
		return nil
	}

	var table ast.Expression = segments[0]
	if len(segments) > 1 {
		n, err := ast.NewDottedField(segments)
		table = build(p, n, err)
	}
	w := &ast.WindowSource{Table: table, Func: fn, Arguments: args}
	return build(p, w, w.Validate())
}

func (p *Parser) isJoinKeyword() bool {
	switch p.current.Token {
	case token.JOIN, token.INNER, token.LEFT, token.RIGHT:
		return true
	}
	return false
}

func (p *Parser) parseJoin() *ast.Join {
	kind := ast.JoinInner

	switch p.current.Token {
	case token.INNER:
		p.nextToken()
	case token.LEFT, token.RIGHT:
		kind = ast.JoinLeft
		if p.currentIs(token.RIGHT) {
			kind = ast.JoinRight
		}
		p.nextToken()
		switch p.current.Token {
		case token.INNER, token.OUTER:
			kind = ast.JoinKind(string(kind) + " " + p.current.Token.String())
			p.nextToken()
		case token.JOIN:
		default:
			p.unexpected(token.JOIN, token.INNER, token.OUTER)
			return nil
		}
	}

	if !p.expect(token.JOIN) {
		return nil
	}

	table := p.parseTable()
	if p.err != nil {
		return nil
	}

	if !p.expect(token.ON, token.AS) {
		return nil
	}
	cond := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}

	n, err := ast.NewJoin(kind, table, cond)
	return build(p, n, err)
}

func (p *Parser) parseOrderByList() *ast.Order {
	order := &ast.Order{}
	for {
		value := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		arg := &ast.OrderArgument{Value: value, Direction: ast.Asc}
		switch p.current.Token {
		case token.ASC:
			p.nextToken()
		case token.DESC:
			arg.Direction = ast.Desc
			p.nextToken()
		}
		order.Arguments = append(order.Arguments, arg)

		if !p.currentIs(token.SEPARATOR) {
			return order
		}
		p.nextToken()
	}
}

// parseLimitClause parses one of
//
//	LIMIT count
//	LIMIT offset, count
//	LIMIT count OFFSET offset
//	OFFSET offset [ROW|ROWS] [FETCH FIRST|NEXT count ROW|ROWS ONLY]
//
// and returns nil when no limit clause follows.
func (p *Parser) parseLimitClause() *ast.Limit {
	switch p.current.Token {
	case token.LIMIT:
		p.nextToken()
		first := p.parseLimitOperand()
		if p.err != nil {
			return nil
		}
		switch p.current.Token {
		case token.SEPARATOR:
			p.nextToken()
			count := p.parseLimitOperand()
			if p.err != nil {
				return nil
			}
			n, err := ast.NewLimit(count, first)
			return build(p, n, err)
		case token.OFFSET:
			p.nextToken()
			offset := p.parseLimitOperand()
			if p.err != nil {
				return nil
			}
			n, err := ast.NewLimit(first, offset)
			return build(p, n, err)
		}
		n, err := ast.NewLimit(first, nil)
		return build(p, n, err)

	case token.OFFSET:
		p.nextToken()
		offset := p.parseLimitOperand()
		if p.err != nil {
			return nil
		}
		if p.currentIsWord("ROW", "ROWS") {
			p.nextToken()
		}
		if !p.currentIsWord("FETCH") {
			n, err := ast.NewLimit(nil, offset)
			return build(p, n, err)
		}
		p.nextToken()
		if !p.expectWord("FIRST", "NEXT") {
			return nil
		}
		count := p.parseLimitOperand()
		if p.err != nil {
			return nil
		}
		if !p.expectWord("ROW", "ROWS") || !p.expectWord("ONLY") {
			return nil
		}
		n, err := ast.NewLimit(count, offset)
		return build(p, n, err)
	}
	return nil
}

func (p *Parser) parseLimitOperand() ast.Expression {
	switch p.current.Token {
	case token.NUMBER:
		n := &ast.NumberValue{Value: p.current.Value}
		p.nextToken()
		return n
	case token.PARAMETER:
		name, typ, _ := strings.Cut(p.current.Value, ":")
		p.nextToken()
		return &ast.ParameterValue{Name: name, Type: typ}
	default:
		p.unexpected(token.NUMBER, token.PARAMETER)
		return nil
	}
}

func (p *Parser) parseInsert() *ast.InsertStatement {
	ins := &ast.InsertStatement{}

	p.nextToken() // skip INSERT
	if !p.expect(token.INTO) {
		return nil
	}
	if !p.currentIs(token.LITERAL) {
		p.unexpected(token.LITERAL)
		return nil
	}
	name := p.parseTableName(false)
	if p.err != nil {
		return nil
	}
	n, err := ast.NewTable(name, "")
	ins.Table = build(p, n, err)

	// Column list
	if p.currentIs(token.LEFT_PAREN) {
		p.nextToken()
		for {
			if !p.currentIs(token.LITERAL) {
				p.unexpected(token.LITERAL)
				return nil
			}
			ins.Columns = append(ins.Columns, p.current.Value)
			p.nextToken()
			if !p.currentIs(token.SEPARATOR) {
				break
			}
			p.nextToken()
		}
		if !p.expect(token.RIGHT_PAREN, token.SEPARATOR) {
			return nil
		}
	}

	if p.currentIs(token.DEFAULT) && len(ins.Columns) == 0 {
		p.nextToken()
		if !p.expect(token.VALUES) {
			return nil
		}
		ins.DefaultValues = true
		return build(p, ins, ins.Validate())
	}

	if !p.currentIs(token.VALUES) {
		if len(ins.Columns) == 0 {
			p.unexpected(token.VALUES, token.DEFAULT, token.LEFT_PAREN)
		} else {
			p.unexpected(token.VALUES)
		}
		return nil
	}
	p.nextToken()

	for {
		if !p.expect(token.LEFT_PAREN) {
			return nil
		}
		row := p.parseArgumentList()
		if p.err != nil || !p.expect(token.RIGHT_PAREN, token.SEPARATOR) {
			return nil
		}
		ins.Rows = append(ins.Rows, row)

		if !p.currentIs(token.SEPARATOR) {
			break
		}
		p.nextToken()
	}

	return build(p, ins, ins.Validate())
}
