package parser

import (
	"strings"

	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/lexer"
	"github.com/sqlc-dev/sqlast/token"
)

// Operator precedence levels
const (
	LOWEST   = iota
	OR_PREC  // OR
	AND_PREC // AND
	NOT_PREC // NOT x
	COMPARE  // =, <>, <, >, <=, >=, IS, LIKE, ILIKE, REGEXP, IN, BETWEEN
	ADD_PREC // +, -
	MUL_PREC // *, /, %
	UNARY    // -x
)

// precedences is built once and only read afterwards, so parsers running
// on different goroutines can share it.
var precedences = map[token.Token]int{
	token.OR:         OR_PREC,
	token.AND:        AND_PREC,
	token.OPERATOR:   COMPARE,
	token.IS:         COMPARE,
	token.LIKE:       COMPARE,
	token.ILIKE:      COMPARE,
	token.REGEXP:     COMPARE,
	token.IN:         COMPARE,
	token.BETWEEN:    COMPARE,
	token.MATH:       ADD_PREC,
	token.STAR:       MUL_PREC,
	token.MATH_MULTI: MUL_PREC,
}

// prefixTokens are the token kinds that can start an expression.
var prefixTokens = []token.Token{
	token.LITERAL, token.NUMBER, token.STRING, token.PARAMETER,
	token.TRUE, token.FALSE, token.NULL, token.LEFT_PAREN,
	token.CASE, token.NOT, token.EXISTS, token.MATH,
}

func (p *Parser) precedence() int {
	// NOT is only an infix operator in front of IN, LIKE, ILIKE, REGEXP
	// and BETWEEN; anywhere else it ends the expression.
	if p.currentIs(token.NOT) {
		switch p.peek.Token {
		case token.IN, token.LIKE, token.ILIKE, token.REGEXP, token.BETWEEN:
			return COMPARE
		}
		return LOWEST
	}
	return precedences[p.current.Token]
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefixExpression()
	if p.err != nil {
		return nil
	}

	for precedence < p.precedence() {
		left = p.parseInfixExpression(left)
		if p.err != nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	switch p.current.Token {
	case token.MATH:
		if p.current.Value == "-" {
			return p.parseUnaryMinus()
		}
		p.unexpected(prefixTokens...)
		return nil
	case token.NOT:
		return p.parseNot()
	case token.EXISTS:
		return p.parseExists()
	default:
		return p.parseJuxtaposed()
	}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	switch p.current.Token {
	case token.OPERATOR, token.MATH, token.MATH_MULTI, token.STAR:
		return p.parseBinaryExpression(left, p.current.Value)
	case token.AND, token.OR, token.LIKE, token.ILIKE, token.REGEXP:
		return p.parseBinaryExpression(left, p.current.Token.String())
	case token.IS:
		return p.parseIsExpression(left)
	case token.IN:
		return p.parseInExpression(left, false)
	case token.BETWEEN:
		return p.parseBetweenExpression(left, false)
	case token.NOT:
		// NOT IN, NOT BETWEEN, NOT LIKE, NOT ILIKE, NOT REGEXP
		p.nextToken()
		switch p.current.Token {
		case token.IN:
			return p.parseInExpression(left, true)
		case token.BETWEEN:
			return p.parseBetweenExpression(left, true)
		default:
			return p.parseBinaryExpression(left, "NOT "+p.current.Token.String())
		}
	default:
		p.unexpected()
		return nil
	}
}

// startsValue reports whether tok can follow a value in a space separated
// list such as INTERVAL 14 DAYS.
func startsValue(tok token.Token) bool {
	switch tok {
	case token.LITERAL, token.NUMBER, token.STRING, token.PARAMETER,
		token.TRUE, token.FALSE, token.NULL:
		return true
	}
	return false
}

// parseJuxtaposed parses a primary and any values written right after it
// without a separator. More than one value builds a WhitespaceList.
func (p *Parser) parseJuxtaposed() ast.Expression {
	first := p.parsePrimary()
	if p.err != nil {
		return nil
	}
	if !startsValue(p.current.Token) {
		return first
	}

	values := []ast.Expression{first}
	for startsValue(p.current.Token) {
		v := p.parsePrimary()
		if p.err != nil {
			return nil
		}
		values = append(values, v)
	}
	n, err := ast.NewWhitespaceList(values, false)
	return build(p, n, err)
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.current.Token {
	case token.LITERAL:
		return p.parseIdentifierOrFunction()
	case token.NUMBER:
		n := &ast.NumberValue{Value: p.current.Value}
		p.nextToken()
		return n
	case token.STRING:
		s := &ast.StringValue{Value: p.current.Value, Quote: string(p.current.Quote)}
		p.nextToken()
		return s
	case token.PARAMETER:
		name, typ, _ := strings.Cut(p.current.Value, ":")
		p.nextToken()
		return &ast.ParameterValue{Name: name, Type: typ}
	case token.TRUE, token.FALSE, token.NULL:
		b := &ast.BooleanValue{Value: p.current.Token.String()}
		p.nextToken()
		return b
	case token.LEFT_PAREN:
		return p.parseGroupedOrSubselect()
	case token.CASE:
		return p.parseCase()
	default:
		p.unexpected(prefixTokens...)
		return nil
	}
}

// literalValue converts a LITERAL item. Unquoted names carry their inline
// type after the first ':'.
func literalValue(item lexer.Item) *ast.LiteralValue {
	if item.Quote != 0 {
		return &ast.LiteralValue{Name: item.Value}
	}
	name, typ, _ := strings.Cut(item.Value, ":")
	return &ast.LiteralValue{Name: name, Type: typ}
}

func (p *Parser) parseSegment() ast.Expression {
	if p.peekIs(token.LEFT_PAREN) {
		return p.parseFunctionCall()
	}
	lit := literalValue(p.current)
	p.nextToken()
	return lit
}

func (p *Parser) parseIdentifierOrFunction() ast.Expression {
	first := p.parseSegment()
	if p.err != nil {
		return nil
	}
	if _, ok := first.(*ast.LiteralValue); !ok || !p.currentIs(token.DOT) {
		return first
	}

	// Dotted access: a.b.c, a.f(x) or a.*
	segments := []ast.Expression{first}
	for p.currentIs(token.DOT) {
		p.nextToken()
		switch p.current.Token {
		case token.STAR:
			p.nextToken()
			segments = append(segments, &ast.Star{})
			n, err := ast.NewDottedField(segments)
			return build(p, n, err)
		case token.LITERAL:
			seg := p.parseSegment()
			if p.err != nil {
				return nil
			}
			segments = append(segments, seg)
			if _, ok := seg.(*ast.FunctionValue); ok {
				n, err := ast.NewDottedField(segments)
				return build(p, n, err)
			}
		default:
			p.unexpected(token.LITERAL, token.STAR)
			return nil
		}
	}
	n, err := ast.NewDottedField(segments)
	return build(p, n, err)
}

func (p *Parser) parseFunctionCall() ast.Expression {
	name := p.current.Value
	p.nextToken() // skip name
	p.nextToken() // skip (

	distinct := false
	if p.currentIs(token.DISTINCT) {
		distinct = true
		p.nextToken()
	}

	args := &ast.ArgumentListValue{}
	switch {
	case p.currentIs(token.STAR) && p.peekIs(token.RIGHT_PAREN):
		// count(*): a star is only all-columns as the sole argument
		args.Values = []ast.Expression{&ast.Star{}}
		p.nextToken()
	case distinct || !p.currentIs(token.RIGHT_PAREN):
		args.Values = p.parseArgumentList()
		if p.err != nil {
			return nil
		}
		// The call's own parentheses group a space separated argument.
		for _, v := range args.Values {
			if ws, ok := v.(*ast.WhitespaceList); ok {
				ws.Grouped = true
			}
		}
	}

	if !p.expect(token.RIGHT_PAREN) {
		return nil
	}
	n, err := ast.NewFunctionValue(name, args, distinct)
	return build(p, n, err)
}

// parseArgumentList parses a non-empty comma separated list of
// expressions.
func (p *Parser) parseArgumentList() []ast.Expression {
	var values []ast.Expression
	for {
		v := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		values = append(values, v)

		if !p.currentIs(token.SEPARATOR) {
			return values
		}
		p.nextToken()
	}
}

func (p *Parser) parseGroupedOrSubselect() ast.Expression {
	p.nextToken() // skip (

	if p.currentIs(token.SELECT) {
		sel := p.parseSelectStatement()
		if p.err != nil || !p.expect(token.RIGHT_PAREN) {
			return nil
		}
		return sel
	}

	expr := p.parseExpression(LOWEST)
	if p.err != nil || !p.expect(token.RIGHT_PAREN) {
		return nil
	}
	if ws, ok := expr.(*ast.WhitespaceList); ok && !ws.Grouped {
		n, err := ast.NewWhitespaceList(ws.Values, true)
		return build(p, n, err)
	}
	return expr
}

func (p *Parser) parseCase() ast.Expression {
	p.nextToken() // skip CASE

	if !p.currentIs(token.WHEN) {
		p.unexpected(token.WHEN)
		return nil
	}

	var whens []*ast.CaseWhen
	for p.currentIs(token.WHEN) {
		p.nextToken() // skip WHEN
		cond := p.parseExpression(LOWEST)
		if p.err != nil || !p.expect(token.THEN) {
			return nil
		}
		result := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		whens = append(whens, &ast.CaseWhen{Condition: cond, Result: result})
	}

	var elseExpr ast.Expression
	if p.currentIs(token.ELSE) {
		p.nextToken()
		elseExpr = p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
	}

	if !p.expect(token.END, token.WHEN, token.ELSE) {
		return nil
	}
	n, err := ast.NewCaseExpr(whens, elseExpr)
	return build(p, n, err)
}

func (p *Parser) parseUnaryMinus() ast.Expression {
	p.nextToken() // skip -
	operand := p.parseExpression(UNARY)
	if p.err != nil {
		return nil
	}
	n, err := ast.NewUnaryOp("-", operand)
	return build(p, n, err)
}

func (p *Parser) parseNot() ast.Expression {
	p.nextToken() // skip NOT
	operand := p.parseExpression(NOT_PREC)
	if p.err != nil {
		return nil
	}
	n, err := ast.NewUnaryOp("NOT", operand)
	return build(p, n, err)
}

func (p *Parser) parseExists() ast.Expression {
	p.nextToken() // skip EXISTS
	if !p.expect(token.LEFT_PAREN) {
		return nil
	}
	if !p.currentIs(token.SELECT) {
		p.unexpected(token.SELECT)
		return nil
	}
	sel := p.parseSelectStatement()
	if p.err != nil || !p.expect(token.RIGHT_PAREN) {
		return nil
	}
	n, err := ast.NewUnaryOp("EXISTS", sel)
	return build(p, n, err)
}

func (p *Parser) parseBinaryExpression(left ast.Expression, op string) ast.Expression {
	prec := p.precedence()
	p.nextToken()

	right := p.parseExpression(prec)
	if p.err != nil {
		return nil
	}
	n, err := ast.NewOp(op, left, right)
	return build(p, n, err)
}

func (p *Parser) parseIsExpression(left ast.Expression) ast.Expression {
	p.nextToken() // skip IS

	op := "IS"
	if p.currentIs(token.NOT) {
		op = "IS NOT"
		p.nextToken()
	}

	right := p.parseExpression(COMPARE)
	if p.err != nil {
		return nil
	}
	n, err := ast.NewOp(op, left, right)
	return build(p, n, err)
}

func (p *Parser) parseInExpression(left ast.Expression, not bool) ast.Expression {
	op := "IN"
	if not {
		op = "NOT IN"
	}
	p.nextToken() // skip IN

	if !p.expect(token.LEFT_PAREN) {
		return nil
	}

	var right ast.Expression
	if p.currentIs(token.SELECT) {
		right = p.parseSelectStatement()
	} else {
		right = &ast.ArgumentListValue{Values: p.parseArgumentList()}
	}
	if p.err != nil || !p.expect(token.RIGHT_PAREN) {
		return nil
	}
	n, err := ast.NewOp(op, left, right)
	return build(p, n, err)
}

func (p *Parser) parseBetweenExpression(left ast.Expression, not bool) ast.Expression {
	op := "BETWEEN"
	if not {
		op = "NOT BETWEEN"
	}
	p.nextToken() // skip BETWEEN

	lower := p.parseExpression(COMPARE)
	if p.err != nil || !p.expect(token.AND) {
		return nil
	}
	upper := p.parseExpression(COMPARE)
	if p.err != nil {
		return nil
	}

	bounds, err := ast.NewBetweenOp(lower, upper)
	if err != nil {
		p.fail(err)
		return nil
	}
	n, err := ast.NewOp(op, left, bounds)
	return build(p, n, err)
}
