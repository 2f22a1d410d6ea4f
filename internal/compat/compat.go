// Package compat cross-checks queries against other SQL parsers.
//
// It answers "would this text also be accepted by dialect X?" for the
// dialects whose parsers are linked in. It does not compare trees.
package compat

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	aftership "github.com/AfterShip/clickhouse-sql-parser/parser"
	"github.com/rqlite/sql"
)

// Dialect names a foreign SQL parser.
type Dialect string

const (
	SQLite     Dialect = "sqlite"
	ClickHouse Dialect = "clickhouse"
)

// ErrUnknownDialect is returned by Lookup for names without a checker.
var ErrUnknownDialect = errors.New("unknown dialect")

// Checker reports whether a foreign parser accepts a single statement.
type Checker interface {
	Dialect() Dialect
	Check(query string) error
}

// Result is the outcome of one Checker on one statement.
type Result struct {
	Dialect  Dialect `json:"dialect" yaml:"dialect"`
	Accepted bool    `json:"accepted" yaml:"accepted"`
	Error    string  `json:"error,omitempty" yaml:"error,omitempty"`
}

var checkers = map[Dialect]Checker{
	SQLite:     sqliteChecker{},
	ClickHouse: clickhouseChecker{},
}

// Dialects returns the names of all available checkers, sorted.
func Dialects() []Dialect {
	out := make([]Dialect, 0, len(checkers))
	for d := range checkers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup returns the checkers for the given dialect names, in order.
// Names are case-insensitive.
func Lookup(names []string) ([]Checker, error) {
	out := make([]Checker, 0, len(names))
	for _, name := range names {
		c, ok := checkers[Dialect(strings.ToLower(strings.TrimSpace(name)))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
		}
		out = append(out, c)
	}
	return out, nil
}

// Check runs every checker on query.
func Check(query string, cs []Checker) []Result {
	results := make([]Result, 0, len(cs))
	for _, c := range cs {
		r := Result{Dialect: c.Dialect(), Accepted: true}
		if err := c.Check(query); err != nil {
			r.Accepted = false
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results
}

// sqliteChecker uses the SQLite grammar from rqlite.
type sqliteChecker struct{}

func (sqliteChecker) Dialect() Dialect { return SQLite }

func (sqliteChecker) Check(query string) error {
	if _, err := sql.NewParser(strings.NewReader(query)).ParseStatement(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

// clickhouseChecker uses the AfterShip ClickHouse parser.
type clickhouseChecker struct{}

func (clickhouseChecker) Dialect() Dialect { return ClickHouse }

func (clickhouseChecker) Check(query string) (err error) {
	// The parser panics on some inputs instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clickhouse: parser panic: %v", r)
		}
	}()
	stmts, err := aftership.NewParser(query).ParseStmts()
	if err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}
	if len(stmts) == 0 {
		return errors.New("clickhouse: no statement")
	}
	return nil
}
