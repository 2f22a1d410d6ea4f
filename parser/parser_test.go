package parser_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/lexer"
	"github.com/sqlc-dev/sqlast/parser"
	"github.com/sqlc-dev/sqlast/token"
)

// TestParser tests the parser using test cases from the testdata directory.
// Each subdirectory in testdata represents a test case with:
// - query.sql: The SQL to parse, one or more statements
// - expected.sql: The canonical rendering, one statement per line
// - explain.txt (optional): The tree dump of every statement
//
// The canonical rendering must parse back to an equal tree.
func TestParser(t *testing.T) {
	testdataDir := "testdata"

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("Failed to read testdata directory: %v", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		testName := entry.Name()
		testDir := filepath.Join(testdataDir, testName)

		t.Run(testName, func(t *testing.T) {
			// Create context with 1 second timeout
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			queryBytes, err := os.ReadFile(filepath.Join(testDir, "query.sql"))
			if err != nil {
				t.Fatalf("Failed to read query.sql: %v", err)
			}
			query := string(queryBytes)

			stmts, err := parser.ParseStatements(ctx, strings.NewReader(query))
			if err != nil {
				t.Fatalf("Parse error: %v\nQuery: %s", err, query)
			}
			if len(stmts) == 0 {
				t.Fatalf("Expected at least 1 statement, got 0\nQuery: %s", query)
			}
			for _, stmt := range stmts {
				if err := ast.Validate(stmt); err != nil {
					t.Errorf("Parsed tree is invalid: %v", err)
				}
			}

			expected, err := os.ReadFile(filepath.Join(testDir, "expected.sql"))
			if err != nil {
				t.Fatalf("Failed to read expected.sql: %v", err)
			}
			got := parser.FormatStatements(stmts)
			if got != string(expected) {
				t.Errorf("Format mismatch\nQuery:    %s\nExpected: %s\nGot:      %s", query, expected, got)
			}

			if explainBytes, err := os.ReadFile(filepath.Join(testDir, "explain.txt")); err == nil {
				var sb strings.Builder
				for _, stmt := range stmts {
					sb.WriteString(parser.Explain(stmt))
				}
				if sb.String() != string(explainBytes) {
					t.Errorf("Explain mismatch\nExpected:\n%s\nGot:\n%s", explainBytes, sb.String())
				}
			}

			// The canonical form parses back to the same trees
			again, err := parser.ParseStatements(ctx, strings.NewReader(got))
			if err != nil {
				t.Fatalf("Reparse error: %v\nCanonical: %s", err, got)
			}
			if len(again) != len(stmts) {
				t.Fatalf("Reparse returned %d statements, want %d", len(again), len(stmts))
			}
			for i := range stmts {
				if !ast.Equal(stmts[i], again[i]) {
					t.Errorf("Statement %d changed after round trip\nCanonical: %s", i, got)
				}
			}
			if second := parser.FormatStatements(again); second != got {
				t.Errorf("Format is not stable\nFirst:  %s\nSecond: %s", got, second)
			}
		})
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"mul over add", "SELECT a + b * c FROM t", "SELECT (a + (b * c)) FROM t"},
		{"add is left associative", "SELECT a - b - c FROM t", "SELECT ((a - b) - c) FROM t"},
		{"mul is left associative", "SELECT a / b % c FROM t", "SELECT ((a / b) % c) FROM t"},
		{"and over or", "SELECT a FROM t WHERE a OR b AND c", "SELECT a FROM t WHERE (a OR (b AND c))"},
		{"comparison over and", "SELECT a FROM t WHERE a = 1 AND b = 2", "SELECT a FROM t WHERE ((a = 1) AND (b = 2))"},
		{"add over comparison", "SELECT a FROM t WHERE a + 1 > b * 2", "SELECT a FROM t WHERE ((a + 1) > (b * 2))"},
		{"not over and", "SELECT a FROM t WHERE NOT a AND b", "SELECT a FROM t WHERE ((NOT a) AND b)"},
		{"not under comparison", "SELECT a FROM t WHERE NOT a = b", "SELECT a FROM t WHERE (NOT (a = b))"},
		{"unary minus over mul", "SELECT - a * b FROM t", "SELECT ((- a) * b) FROM t"},
		{"negative literal", "SELECT a FROM t WHERE a > -1", "SELECT a FROM t WHERE (a > -1)"},
		{"subtract negative literal", "SELECT a - -5 FROM t", "SELECT (a - -5) FROM t"},
		{"subtract without spaces", "SELECT a-5 FROM t", "SELECT (a - 5) FROM t"},
		{"parentheses override", "SELECT (a + b) * c FROM t", "SELECT ((a + b) * c) FROM t"},
		{"between binds bounds", "SELECT a FROM t WHERE a BETWEEN 1 + 1 AND 5 OR b", "SELECT a FROM t WHERE ((a BETWEEN (1 + 1) AND 5) OR b)"},
		{"is null under and", "SELECT a FROM t WHERE a IS NULL AND b", "SELECT a FROM t WHERE ((a IS NULL) AND b)"},
		{"juxtaposition binds tightest", "SELECT a FROM t WHERE d < x - INTERVAL 1 DAY", "SELECT a FROM t WHERE (d < (x - INTERVAL 1 DAY))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, parser.Format(stmt))
		})
	}
}

func TestLimitForms(t *testing.T) {
	want, err := parser.Parse("SELECT * FROM t LIMIT 10 OFFSET 30")
	require.NoError(t, err)

	for _, q := range []string{
		"SELECT * FROM t LIMIT 30, 10",
		"SELECT * FROM t OFFSET 30 ROWS FETCH NEXT 10 ROWS ONLY",
		"SELECT * FROM t OFFSET 30 ROW FETCH FIRST 10 ROW ONLY",
		"select * from t offset 30 rows fetch next 10 rows only",
	} {
		t.Run(q, func(t *testing.T) {
			got, err := parser.Parse(q)
			require.NoError(t, err)
			assert.True(t, ast.Equal(want, got), "got %s", parser.Format(got))
		})
	}

	sel := want.(*ast.SelectStatement)
	require.NotNil(t, sel.Limit)
	assert.Equal(t, &ast.NumberValue{Value: "10"}, sel.Limit.Count)
	assert.Equal(t, &ast.NumberValue{Value: "30"}, sel.Limit.Offset)
}

func TestLimitParameters(t *testing.T) {
	stmt, err := parser.Parse("SELECT * FROM t LIMIT $count OFFSET $skip")
	require.NoError(t, err)
	sel := stmt.(*ast.SelectStatement)
	assert.Equal(t, &ast.ParameterValue{Name: "count"}, sel.Limit.Count)
	assert.Equal(t, &ast.ParameterValue{Name: "skip"}, sel.Limit.Offset)
}

func TestUnionChain(t *testing.T) {
	stmt, err := parser.Parse("SELECT a FROM t UNION ALL SELECT b FROM u UNION SELECT c FROM v")
	require.NoError(t, err)

	sel := stmt.(*ast.SelectStatement)
	require.Len(t, sel.Unions, 2)
	assert.True(t, sel.Unions[0].All)
	assert.False(t, sel.Unions[1].All)
	assert.Equal(t, []ast.Expression{&ast.LiteralValue{Name: "b"}}, sel.Unions[0].Query.Fields)
	assert.Equal(t, []ast.Expression{&ast.LiteralValue{Name: "c"}}, sel.Unions[1].Query.Fields)
	assert.Empty(t, sel.Unions[0].Query.Unions)
}

func TestInSubquery(t *testing.T) {
	stmt, err := parser.Parse("SELECT * FROM a WHERE x IN (SELECT foo FROM bar)")
	require.NoError(t, err)

	op, ok := stmt.(*ast.SelectStatement).Where.Condition.(*ast.Op)
	require.True(t, ok)
	assert.Equal(t, "IN", op.Operator)
	sub, ok := op.Right.(*ast.SelectStatement)
	require.True(t, ok, "right side is %T", op.Right)
	assert.Equal(t, &ast.LiteralValue{Name: "bar"}, sub.Source.Name)
}

func TestFunctionArguments(t *testing.T) {
	stmt, err := parser.Parse("SELECT now(), count(*), count(DISTINCT b) FROM t")
	require.NoError(t, err)

	fields := stmt.(*ast.SelectStatement).Fields
	require.Len(t, fields, 3)

	now := fields[0].(*ast.FunctionValue)
	require.NotNil(t, now.Arguments)
	assert.Empty(t, now.Arguments.Values)

	star := fields[1].(*ast.FunctionValue)
	assert.Equal(t, []ast.Expression{&ast.Star{}}, star.Arguments.Values)

	distinct := fields[2].(*ast.FunctionValue)
	assert.True(t, distinct.Distinct)
}

func TestFunctionWhitespaceArgument(t *testing.T) {
	stmt, err := parser.Parse("SELECT * FROM my_table WHERE foo < DATE_SUB(NOW(), INTERVAL 14 DAYS)")
	require.NoError(t, err)

	op := stmt.(*ast.SelectStatement).Where.Condition.(*ast.Op)
	fn, ok := op.Right.(*ast.FunctionValue)
	require.True(t, ok, "right side is %T", op.Right)
	require.Len(t, fn.Arguments.Values, 2)

	ws, ok := fn.Arguments.Values[1].(*ast.WhitespaceList)
	require.True(t, ok, "second argument is %T", fn.Arguments.Values[1])
	assert.True(t, ws.Grouped)
	assert.Equal(t, []ast.Expression{
		&ast.LiteralValue{Name: "INTERVAL"},
		&ast.NumberValue{Value: "14"},
		&ast.LiteralValue{Name: "DAYS"},
	}, ws.Values)

	assert.Equal(t, "SELECT * FROM my_table WHERE (foo < DATE_SUB(NOW(), INTERVAL 14 DAYS))", parser.Format(stmt))

	// Extra parentheses around the argument build the same tree.
	again, err := parser.Parse("SELECT * FROM my_table WHERE foo < DATE_SUB(NOW(), (INTERVAL 14 DAYS))")
	require.NoError(t, err)
	assert.True(t, ast.Equal(stmt, again))

	// Outside a call the list stays ungrouped.
	bare, err := parser.Parse("SELECT a FROM t WHERE d > NOW() - INTERVAL 14 DAYS")
	require.NoError(t, err)
	sub := bare.(*ast.SelectStatement).Where.Condition.(*ast.Op).Right.(*ast.Op)
	assert.False(t, sub.Right.(*ast.WhitespaceList).Grouped)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		token    token.Token
		column   int
		expected []token.Token
	}{
		{
			name:     "missing table",
			query:    "SELECT * FROM",
			token:    token.EOF,
			column:   14,
			expected: []token.Token{token.LITERAL, token.LEFT_PAREN},
		},
		{
			name:     "missing from",
			query:    "SELECT a",
			token:    token.EOF,
			column:   9,
			expected: []token.Token{token.FROM, token.SEPARATOR, token.AS},
		},
		{
			name:     "trailing tokens",
			query:    "SELECT a FROM t garbage more",
			token:    token.LITERAL,
			column:   25,
			expected: []token.Token{token.SEMICOLON, token.EOF},
		},
		{
			name:     "unsupported join",
			query:    "SELECT a FROM t CROSS JOIN u",
			token:    token.CROSS,
			column:   17,
			expected: []token.Token{token.SEMICOLON, token.EOF},
		},
		{
			name:     "unknown statement",
			query:    "DELETE FROM t",
			token:    token.LITERAL,
			column:   1,
			expected: []token.Token{token.SELECT, token.INSERT},
		},
		{
			name:     "default values with columns",
			query:    "INSERT INTO t (a) DEFAULT VALUES",
			token:    token.DEFAULT,
			column:   19,
			expected: []token.Token{token.VALUES},
		},
		{
			name:     "join without condition",
			query:    "SELECT a FROM t JOIN u",
			token:    token.EOF,
			column:   23,
			expected: []token.Token{token.ON, token.AS},
		},
		{
			name:     "star before other arguments",
			query:    "SELECT count(*, a) FROM t",
			token:    token.STAR,
			column:   14,
			expected: []token.Token{token.LITERAL, token.NUMBER, token.STRING, token.PARAMETER, token.TRUE, token.FALSE, token.NULL, token.LEFT_PAREN, token.CASE, token.NOT, token.EXISTS, token.MATH},
		},
		{
			name:     "star after other arguments",
			query:    "SELECT count(a, *) FROM t",
			token:    token.STAR,
			column:   17,
			expected: []token.Token{token.LITERAL, token.NUMBER, token.STRING, token.PARAMETER, token.TRUE, token.FALSE, token.NULL, token.LEFT_PAREN, token.CASE, token.NOT, token.EXISTS, token.MATH},
		},
		{
			name:     "limit expression",
			query:    "SELECT a FROM t LIMIT a",
			token:    token.LITERAL,
			column:   23,
			expected: []token.Token{token.NUMBER, token.PARAMETER},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.query)
			assert.Nil(t, stmt)

			var perr *parser.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.token, perr.Token.Token)
			assert.Equal(t, 1, perr.Token.Pos.Line)
			assert.Equal(t, tt.column, perr.Token.Pos.Column)
			assert.Equal(t, tt.expected, perr.Expected)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := parser.Parse("SELECT * FROM")
	require.EqualError(t, err, "unexpected EOF at line 1, column 14, expected one of: LITERAL, LEFT_PAREN")

	_, err = parser.Parse("SELECT a FROM t\nWHERE a = ,")
	require.EqualError(t, err, `unexpected SEPARATOR "," at line 2, column 11, expected one of: `+
		"LITERAL, NUMBER, STRING, PARAMETER, TRUE, FALSE, NULL, LEFT_PAREN, CASE, NOT, EXISTS, MATH")
}

func TestLexErrorPassesThrough(t *testing.T) {
	_, err := parser.Parse("SELECT 'abc FROM t")

	var lerr *lexer.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 8, lerr.Pos.Column)

	var perr *parser.Error
	assert.False(t, errors.As(err, &perr))
}

func TestTrailingSemicolon(t *testing.T) {
	a, err := parser.Parse("SELECT a FROM t;")
	require.NoError(t, err)
	b, err := parser.Parse("SELECT a FROM t")
	require.NoError(t, err)
	assert.True(t, ast.Equal(a, b))

	_, err = parser.Parse("SELECT a FROM t;;")
	require.Error(t, err)
}

func TestParseDeterministic(t *testing.T) {
	const query = "SELECT a, count(*) AS n FROM t LEFT JOIN u ON t.id = u.id WHERE a IN (1, 2) GROUP BY a HAVING count(*) > 1 ORDER BY n DESC LIMIT 5"

	first, err := parser.Parse(query)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := parser.Parse(query)
		require.NoError(t, err)
		require.True(t, ast.Equal(first, again))
		require.Equal(t, parser.Format(first), parser.Format(again))
	}
}

// Parsers share no state, so independent inputs can be parsed in parallel.
func TestParseConcurrent(t *testing.T) {
	queries := make([]string, 64)
	for i := range queries {
		queries[i] = fmt.Sprintf("SELECT a%d FROM t WHERE b = %d AND c IN (SELECT d FROM u LIMIT %d)", i, i, i+1)
	}

	want := make([]string, len(queries))
	for i, q := range queries {
		stmt, err := parser.Parse(q)
		require.NoError(t, err)
		want[i] = parser.Format(stmt)
	}

	got := make([]string, len(queries))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			stmt, err := parser.Parse(q)
			if err != nil {
				return err
			}
			got[i] = parser.Format(stmt)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, want, got)
}

func TestNewAppendsEOF(t *testing.T) {
	items, err := lexer.TokenizeString("SELECT a FROM t")
	require.NoError(t, err)

	// Drop the EOF; ParseTokens restores it
	stmt, err := parser.ParseTokens(items[:len(items)-1])
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t", parser.Format(stmt))

	_, err = parser.ParseTokens(nil)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, token.EOF, perr.Token.Token)
}

// BenchmarkParser benchmarks the parser performance using a complex query
func BenchmarkParser(b *testing.B) {
	query := `
		SELECT
			u.id,
			u.name,
			count(*) AS order_count,
			sum(o.amount) AS total
		FROM users u
		LEFT JOIN orders o ON u.id = o.user_id
		WHERE u.status = 'active' AND o.created_at > '2023-01-01'
		GROUP BY u.id, u.name
		HAVING count(*) > 0
		ORDER BY total DESC
		LIMIT 100
	`

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(query)
		if err != nil {
			b.Fatal(err)
		}
	}
}
