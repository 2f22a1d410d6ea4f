package parser

import (
	"fmt"
	"strings"

	"github.com/sqlc-dev/sqlast/lexer"
	"github.com/sqlc-dev/sqlast/token"
)

// Error is returned when the token stream does not match the grammar.
// Parsing stops at the first such token.
type Error struct {
	Token    lexer.Item
	Expected []token.Token // token kinds accepted at this point, when known
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("unexpected ")
	sb.WriteString(e.Token.Token.String())
	if e.Token.Value != "" {
		fmt.Fprintf(&sb, " %q", e.Token.Value)
	}
	fmt.Fprintf(&sb, " at line %d, column %d", e.Token.Pos.Line, e.Token.Pos.Column)
	if len(e.Expected) > 0 {
		sb.WriteString(", expected one of: ")
		for i, t := range e.Expected {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}
