package lexer

import (
	"fmt"

	"github.com/sqlc-dev/sqlast/token"
)

// Error is returned when the input cannot be tokenized: an unrecognized
// character, or a string, quoted identifier or comment that never ends.
type Error struct {
	Char   string // offending character or opening delimiter
	Pos    token.Position
	Reason string // empty for an unrecognized character
}

func (e *Error) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "unrecognized character"
	}
	return fmt.Sprintf("%s %q at line %d, column %d", reason, e.Char, e.Pos.Line, e.Pos.Column)
}
