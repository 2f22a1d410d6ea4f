// Package lexer implements a lexer for the SQL dialect.
package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sqlc-dev/sqlast/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	reader *bufio.Reader
	ch     rune // current character
	width  int  // byte width of ch
	pos    token.Position
	eof    bool
	prev   token.Token // last emitted token, ILLEGAL before the first one
}

// Item represents a lexical token with its value and position.
//
// Value holds the decoded text: strings without their delimiters and with
// escaped quotes resolved, parameters without the leading '$', backtick
// identifiers without the backticks.
type Item struct {
	Token token.Token
	Value string
	Pos   token.Position
	Quote rune // delimiter of a STRING or quoted LITERAL, 0 otherwise
}

// New creates a new Lexer from an io.Reader.
func New(r io.Reader) *Lexer {
	l := &Lexer{
		reader: bufio.NewReader(r),
		pos:    token.Position{Offset: 0, Line: 1, Column: 0},
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.eof {
		return
	}

	if l.ch == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	l.pos.Offset += l.width

	r, size, err := l.reader.ReadRune()
	if err != nil {
		l.ch = 0
		l.width = 0
		l.eof = true
		return
	}
	l.ch = r
	l.width = size
}

func (l *Lexer) peekChar() rune {
	if l.eof {
		return 0
	}
	bytes, err := l.reader.Peek(utf8.UTFMax)
	if len(bytes) == 0 && err != nil {
		return 0
	}
	r, _ := utf8.DecodeRune(bytes)
	return r
}

// skipWhitespace skips whitespace and comments.
func (l *Lexer) skipWhitespace() error {
	for {
		switch {
		case unicode.IsSpace(l.ch) || l.ch == '\uFEFF':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && !l.eof {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) skipBlockComment() error {
	pos := l.pos
	l.readChar() // skip /
	l.readChar() // skip *
	for !l.eof {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return nil
		}
		l.readChar()
	}
	return &Error{Char: "/*", Pos: pos, Reason: "unterminated comment"}
}

// NextToken returns the next token from the input. Once EOF has been
// returned every further call returns EOF again.
func (l *Lexer) NextToken() (Item, error) {
	item, err := l.scan()
	if err != nil {
		return Item{}, err
	}
	l.prev = item.Token
	return item, nil
}

func (l *Lexer) scan() (Item, error) {
	if err := l.skipWhitespace(); err != nil {
		return Item{}, err
	}

	pos := l.pos

	if l.eof {
		return Item{Token: token.EOF, Value: "", Pos: pos}, nil
	}

	switch l.ch {
	case '+':
		l.readChar()
		return Item{Token: token.MATH, Value: "+", Pos: pos}, nil
	case '-':
		// A sign belongs to the number unless the previous token closed
		// an operand, in which case this is a subtraction.
		if isDigit(l.peekChar()) && !l.prev.EndsOperand() {
			return l.readNumber()
		}
		l.readChar()
		return Item{Token: token.MATH, Value: "-", Pos: pos}, nil
	case '*':
		l.readChar()
		return Item{Token: token.STAR, Value: "*", Pos: pos}, nil
	case '/', '%':
		ch := l.ch
		l.readChar()
		return Item{Token: token.MATH_MULTI, Value: string(ch), Pos: pos}, nil
	case '=':
		l.readChar()
		return Item{Token: token.OPERATOR, Value: "=", Pos: pos}, nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Item{Token: token.OPERATOR, Value: "!=", Pos: pos}, nil
		}
		return Item{}, &Error{Char: "!", Pos: pos}
	case '<':
		l.readChar()
		switch l.ch {
		case '=':
			l.readChar()
			return Item{Token: token.OPERATOR, Value: "<=", Pos: pos}, nil
		case '>':
			l.readChar()
			return Item{Token: token.OPERATOR, Value: "<>", Pos: pos}, nil
		}
		return Item{Token: token.OPERATOR, Value: "<", Pos: pos}, nil
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Item{Token: token.OPERATOR, Value: ">=", Pos: pos}, nil
		}
		return Item{Token: token.OPERATOR, Value: ">", Pos: pos}, nil
	case '(':
		l.readChar()
		return Item{Token: token.LEFT_PAREN, Value: "(", Pos: pos}, nil
	case ')':
		l.readChar()
		return Item{Token: token.RIGHT_PAREN, Value: ")", Pos: pos}, nil
	case ',':
		l.readChar()
		return Item{Token: token.SEPARATOR, Value: ",", Pos: pos}, nil
	case '.':
		l.readChar()
		return Item{Token: token.DOT, Value: ".", Pos: pos}, nil
	case ';':
		l.readChar()
		return Item{Token: token.SEMICOLON, Value: ";", Pos: pos}, nil
	case '\'', '"':
		return l.readString(l.ch)
	case '`':
		return l.readBacktickIdentifier()
	case '$':
		return l.readParameter()
	default:
		if isDigit(l.ch) {
			return l.readNumber()
		}
		if isIdentStart(l.ch) {
			return l.readIdentifier(), nil
		}
		return Item{}, &Error{Char: string(l.ch), Pos: pos}
	}
}

// readString reads a string delimited by quote. A backslash followed by
// the delimiter and a doubled delimiter both decode to one delimiter;
// any other backslash sequence is kept verbatim.
func (l *Lexer) readString(quote rune) (Item, error) {
	pos := l.pos
	var sb strings.Builder
	l.readChar() // skip opening quote

	for !l.eof {
		if l.ch == quote {
			if l.peekChar() == quote {
				sb.WriteRune(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return Item{Token: token.STRING, Value: sb.String(), Pos: pos, Quote: quote}, nil
		}
		if l.ch == '\\' {
			l.readChar()
			if l.eof {
				break
			}
			if l.ch != quote {
				sb.WriteRune('\\')
			}
			sb.WriteRune(l.ch)
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{}, &Error{Char: string(quote), Pos: pos, Reason: "unterminated string"}
}

func (l *Lexer) readBacktickIdentifier() (Item, error) {
	pos := l.pos
	var sb strings.Builder
	l.readChar() // skip opening backtick

	for !l.eof {
		if l.ch == '`' {
			// Escaped backtick (`` becomes `)
			if l.peekChar() == '`' {
				sb.WriteRune('`')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing backtick
			return Item{Token: token.LITERAL, Value: sb.String(), Pos: pos, Quote: '`'}, nil
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{}, &Error{Char: "`", Pos: pos, Reason: "unterminated identifier"}
}

func (l *Lexer) readParameter() (Item, error) {
	pos := l.pos
	l.readChar() // skip $

	if !isIdentChar(l.ch) {
		return Item{}, &Error{Char: "$", Pos: pos}
	}

	var sb strings.Builder
	for isIdentChar(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readTypeSuffix(&sb)
	return Item{Token: token.PARAMETER, Value: sb.String(), Pos: pos}, nil
}

func (l *Lexer) readNumber() (Item, error) {
	pos := l.pos
	var sb strings.Builder

	if l.ch == '-' {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	for isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	// A decimal point only belongs to the number when digits follow
	if l.ch == '.' && isDigit(l.peekChar()) {
		sb.WriteRune(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		sb.WriteRune(l.ch)
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			sb.WriteRune(l.ch)
			l.readChar()
		}
		if !isDigit(l.ch) {
			return Item{}, &Error{Char: sb.String(), Pos: pos, Reason: "malformed number"}
		}
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}

	// 12abc is neither a number nor a name
	if isIdentChar(l.ch) {
		sb.WriteRune(l.ch)
		return Item{}, &Error{Char: sb.String(), Pos: pos, Reason: "malformed number"}
	}

	return Item{Token: token.NUMBER, Value: sb.String(), Pos: pos}, nil
}

func (l *Lexer) readIdentifier() Item {
	pos := l.pos
	var sb strings.Builder

	for isIdentChar(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	word := sb.String()
	if tok := token.Lookup(strings.ToUpper(word)); tok != token.LITERAL {
		return Item{Token: tok, Value: word, Pos: pos}
	}

	l.readTypeSuffix(&sb)
	return Item{Token: token.LITERAL, Value: sb.String(), Pos: pos}
}

// readTypeSuffix appends an inline ":type" suffix when one follows.
func (l *Lexer) readTypeSuffix(sb *strings.Builder) {
	if l.ch != ':' || !isIdentStart(l.peekChar()) {
		return
	}
	sb.WriteRune(l.ch)
	l.readChar()
	for isIdentChar(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentChar(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// Tokenize returns all tokens from the reader, ending with a single EOF.
// On error no tokens are returned.
func Tokenize(r io.Reader) ([]Item, error) {
	l := New(r)
	var items []Item
	for {
		item, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if item.Token == token.EOF {
			break
		}
	}
	return items, nil
}

// TokenizeString is Tokenize over a string.
func TokenizeString(s string) ([]Item, error) {
	return Tokenize(strings.NewReader(s))
}
