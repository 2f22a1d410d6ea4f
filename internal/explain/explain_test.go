package explain_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/internal/explain"
	"github.com/sqlc-dev/sqlast/parser"
)

func TestExplainFixtures(t *testing.T) {
	testdataDir := "../../parser/testdata"

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

		// Check if explain.txt exists
		explainBytes, err := os.ReadFile(filepath.Join(testDir, "explain.txt"))
		if err != nil {
			continue // Skip test cases without explain.txt
		}
		expected := string(explainBytes)

		t.Run(testName, func(t *testing.T) {
			queryBytes, err := os.ReadFile(filepath.Join(testDir, "query.sql"))
			if err != nil {
				t.Fatalf("Failed to read query.sql: %v", err)
			}
			query := strings.TrimSpace(string(queryBytes))

			stmt, err := parser.Parse(query)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}

			got := explain.Explain(stmt)
			if got != expected {
				t.Errorf("Explain output mismatch\nQuery: %s\n\nExpected:\n%s\nGot:\n%s", query, expected, got)
			}
		})
	}
}

func TestExplainDetails(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "default values",
			query: "INSERT INTO db.t DEFAULT VALUES",
			want: `InsertStatement DEFAULT VALUES (children 1)
 Table (children 1)
  DottedField (children 2)
   LiteralValue db
   LiteralValue t
`,
		},
		{
			name:  "alias window and parameters",
			query: "SELECT a AS `b c`, $p:int FROM t.win:length(5) AS w OFFSET 2",
			want: `SelectStatement (children 4)
 AliasedExpr AS ` + "`b c`" + ` (children 1)
  LiteralValue a
 ParameterValue $p:int
 Table AS w (children 1)
  WindowSource length (children 2)
   LiteralValue t
   ArgumentListValue (children 1)
    NumberValue 5
 Limit offset (children 1)
  NumberValue 2
`,
		},
		{
			name:  "grouped list and unary",
			query: "SELECT (a b), - c FROM t WHERE NOT d",
			want: `SelectStatement (children 4)
 WhitespaceList GROUPED (children 2)
  LiteralValue a
  LiteralValue b
 UnaryOp - (children 1)
  LiteralValue c
 Table (children 1)
  LiteralValue t
 Where (children 1)
  UnaryOp NOT (children 1)
   LiteralValue d
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, explain.Explain(stmt))
		})
	}
}

func TestExplainNoParens(t *testing.T) {
	fn := &ast.FunctionValue{Name: "CURRENT_DATE", NoParens: true}
	assert.Equal(t, "FunctionValue CURRENT_DATE NOPARENS\n", explain.Explain(fn))
	assert.Equal(t, "", explain.Explain(nil))
}
