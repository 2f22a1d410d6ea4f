// Package token defines constants representing the lexical tokens of the SQL dialect.
package token

// Token represents a lexical token.
type Token int

const (
	// Special tokens
	ILLEGAL Token = iota
	EOF

	// Literals
	LITERAL   // identifiers, optionally typed (name:type)
	NUMBER    // integer or decimal literals, optionally negative
	STRING    // single or double quoted strings
	PARAMETER // $name or $name:type

	// Operators
	OPERATOR   // =, !=, <>, <, >, <=, >=
	MATH       // +, -
	MATH_MULTI // /, %
	STAR       // *

	// Delimiters
	LEFT_PAREN  // (
	RIGHT_PAREN // )
	SEPARATOR   // ,
	DOT         // .
	SEMICOLON   // ;

	// Keywords
	keyword_beg
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CASE
	CROSS
	DEFAULT
	DESC
	DISTINCT
	ELSE
	END
	EXISTS
	FALSE
	FROM
	FULL
	GROUP
	HAVING
	ILIKE
	IN
	INNER
	INSERT
	INTO
	IS
	JOIN
	LEFT
	LIKE
	LIMIT
	NATURAL
	NOT
	NULL
	OFFSET
	ON
	OR
	ORDER
	OUTER
	REGEXP
	RIGHT
	SELECT
	THEN
	TRUE
	UNION
	USING
	VALUES
	WHEN
	WHERE
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	LITERAL:   "LITERAL",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	PARAMETER: "PARAMETER",

	OPERATOR:   "OPERATOR",
	MATH:       "MATH",
	MATH_MULTI: "MATH_MULTI",
	STAR:       "STAR",

	LEFT_PAREN:  "LEFT_PAREN",
	RIGHT_PAREN: "RIGHT_PAREN",
	SEPARATOR:   "SEPARATOR",
	DOT:         "DOT",
	SEMICOLON:   "SEMICOLON",

	ALL:      "ALL",
	AND:      "AND",
	AS:       "AS",
	ASC:      "ASC",
	BETWEEN:  "BETWEEN",
	BY:       "BY",
	CASE:     "CASE",
	CROSS:    "CROSS",
	DEFAULT:  "DEFAULT",
	DESC:     "DESC",
	DISTINCT: "DISTINCT",
	ELSE:     "ELSE",
	END:      "END",
	EXISTS:   "EXISTS",
	FALSE:    "FALSE",
	FROM:     "FROM",
	FULL:     "FULL",
	GROUP:    "GROUP",
	HAVING:   "HAVING",
	ILIKE:    "ILIKE",
	IN:       "IN",
	INNER:    "INNER",
	INSERT:   "INSERT",
	INTO:     "INTO",
	IS:       "IS",
	JOIN:     "JOIN",
	LEFT:     "LEFT",
	LIKE:     "LIKE",
	LIMIT:    "LIMIT",
	NATURAL:  "NATURAL",
	NOT:      "NOT",
	NULL:     "NULL",
	OFFSET:   "OFFSET",
	ON:       "ON",
	OR:       "OR",
	ORDER:    "ORDER",
	OUTER:    "OUTER",
	REGEXP:   "REGEXP",
	RIGHT:    "RIGHT",
	SELECT:   "SELECT",
	THEN:     "THEN",
	TRUE:     "TRUE",
	UNION:    "UNION",
	USING:    "USING",
	VALUES:   "VALUES",
	WHEN:     "WHEN",
	WHERE:    "WHERE",
}

func (tok Token) String() string {
	if tok >= 0 && int(tok) < len(tokens) {
		return tokens[tok]
	}
	return ""
}

// Keywords maps keyword strings to their token types.
var Keywords map[string]Token

func init() {
	Keywords = make(map[string]Token)
	for i := keyword_beg + 1; i < keyword_end; i++ {
		Keywords[tokens[i]] = i
	}
}

// Lookup returns the token type for an upper-cased word.
// If the word is a keyword, it returns the keyword token.
// Otherwise, it returns LITERAL.
func Lookup(word string) Token {
	if tok, ok := Keywords[word]; ok {
		return tok
	}
	return LITERAL
}

// IsKeyword returns true if the token is a keyword.
func (tok Token) IsKeyword() bool {
	return tok > keyword_beg && tok < keyword_end
}

// EndsOperand reports whether a token can be the last token of an operand.
// The lexer uses it to decide whether a '-' followed by a digit is a sign
// or a subtraction.
func (tok Token) EndsOperand() bool {
	switch tok {
	case LITERAL, NUMBER, STRING, PARAMETER, RIGHT_PAREN,
		NULL, TRUE, FALSE, END:
		return true
	}
	return false
}

// Position represents a source position.
type Position struct {
	Offset int // byte offset
	Line   int // line number (1-based)
	Column int // column number (1-based)
}
