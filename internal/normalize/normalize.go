// Package normalize provides text normalisation for comparing SQL
// fixtures and for handing statements to other parsers.
package normalize

import (
	"regexp"
	"strings"

	"github.com/sqlc-dev/sqlast/lexer"
	"github.com/sqlc-dev/sqlast/token"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Whitespace collapses all whitespace sequences to a single space
// and trims leading/trailing whitespace.
func Whitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// TrimSemicolon strips one trailing ';' and the spaces around it.
func TrimSemicolon(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, ";"))
}

// Query returns s without comments, with whitespace collapsed and without
// a trailing ';'.
func Query(s string) string {
	return TrimSemicolon(Whitespace(StripComments(s)))
}

// StripComments removes SQL comments from a query string.
// It handles:
//   - Line comments: -- to end of line
//   - Block comments: /* ... */
//
// Quoted strings and backtick identifiers are copied unchanged.
func StripComments(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		// Check for line comment: --
		if i+1 < len(s) && s[i] == '-' && s[i+1] == '-' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			continue
		}

		// Check for block comment: /* ... */
		if i+1 < len(s) && s[i] == '/' && s[i+1] == '*' {
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return result.String()
			}
			i += end + 4
			result.WriteByte(' ')
			continue
		}

		// Copy quoted text, honouring doubled and backslash escaped quotes
		if q := s[i]; q == '\'' || q == '"' || q == '`' {
			result.WriteByte(q)
			i++
			for i < len(s) {
				c := s[i]
				result.WriteByte(c)
				i++
				if c == '\\' && q != '`' && i < len(s) {
					result.WriteByte(s[i])
					i++
					continue
				}
				if c == q {
					if i < len(s) && s[i] == q {
						result.WriteByte(s[i])
						i++
						continue
					}
					break
				}
			}
			continue
		}

		result.WriteByte(s[i])
		i++
	}

	return result.String()
}

// Split cuts a ';' separated script into statement texts, each without its
// terminator and with whitespace collapsed. Semicolons inside strings,
// identifiers and comments do not split. Empty statements are dropped.
func Split(script string) ([]string, error) {
	items, err := lexer.TokenizeString(script)
	if err != nil {
		return nil, err
	}

	var out []string
	start := 0
	for _, item := range items {
		if item.Token != token.SEMICOLON && item.Token != token.EOF {
			continue
		}
		end := item.Pos.Offset
		if item.Token == token.EOF {
			end = len(script)
		}
		if stmt := Query(script[start:end]); stmt != "" {
			out = append(out, stmt)
		}
		start = end + 1
	}
	return out, nil
}
