package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// newTestRootCmd creates a fresh root command with HOME isolated so no real
// config is loaded, and with output captured.
func newTestRootCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SQLAST_OUTPUT", "")
	t.Setenv("SQLAST_LOG_LEVEL", "")
	t.Setenv("SQLAST_DIALECTS", "")
	var out bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	return rootCmd, &out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseCmd_Stdin(t *testing.T) {
	rootCmd, out := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("select a from t where a > 1"))
	rootCmd.SetArgs([]string{"parse"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "SELECT a FROM t WHERE (a > 1);\n", out.String())
}

func TestParseCmd_Files(t *testing.T) {
	first := writeFile(t, "first.sql", "SELECT a FROM t; SELECT b FROM u")
	second := writeFile(t, "second.sql", "INSERT INTO t (a) VALUES (1)")

	rootCmd, out := newTestRootCmd(t)
	rootCmd.SetArgs([]string{"parse", first, second})

	require.NoError(t, rootCmd.Execute())
	want := "-- " + first + "\n" +
		"SELECT a FROM t;\n" +
		"SELECT b FROM u;\n" +
		"-- " + second + "\n" +
		"INSERT INTO t (a) VALUES (1);\n"
	assert.Equal(t, want, out.String())
}

func TestParseCmd_JSON(t *testing.T) {
	rootCmd, out := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("SELECT * FROM t LIMIT 5"))
	rootCmd.SetArgs([]string{"parse", "-o", "json"})

	require.NoError(t, rootCmd.Execute())

	var results []parseResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "-", results[0].File)
	assert.Equal(t, []string{"SELECT * FROM t LIMIT 5"}, results[0].Statements)
}

func TestParseCmd_Error(t *testing.T) {
	rootCmd, _ := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("SELECT * FROM"))
	rootCmd.SetArgs([]string{"parse"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1, column 14")
}

func TestParseCmd_MissingFile(t *testing.T) {
	rootCmd, _ := newTestRootCmd(t)
	rootCmd.SetArgs([]string{"parse", filepath.Join(t.TempDir(), "nope.sql")})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.sql")
}

func TestTokensCmd(t *testing.T) {
	rootCmd, out := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("SELECT a"))
	rootCmd.SetArgs([]string{"tokens"})

	require.NoError(t, rootCmd.Execute())
	want := "1:1\tSELECT\t\"SELECT\"\n" +
		"1:8\tLITERAL\t\"a\"\n" +
		"1:9\tEOF\n"
	assert.Equal(t, want, out.String())
}

func TestTokensCmd_LexError(t *testing.T) {
	rootCmd, _ := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("SELECT 'open"))
	rootCmd.SetArgs([]string{"tokens"})

	require.Error(t, rootCmd.Execute())
}

func TestExplainCmd(t *testing.T) {
	rootCmd, out := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("SELECT a FROM t"))
	rootCmd.SetArgs([]string{"explain"})

	require.NoError(t, rootCmd.Execute())
	want := "SelectStatement (children 2)\n" +
		" LiteralValue a\n" +
		" Table (children 1)\n" +
		"  LiteralValue t\n"
	assert.Equal(t, want, out.String())
}

func TestCheckCmd_YAML(t *testing.T) {
	rootCmd, out := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("SELECT a FROM t; SELECT FROM;"))
	rootCmd.SetArgs([]string{"check", "-o", "yaml", "--dialects", "sqlite"})

	require.NoError(t, rootCmd.Execute())

	var results []checkResult
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	require.Len(t, results[0].Statements, 2)

	ok := results[0].Statements[0]
	assert.Equal(t, "SELECT a FROM t", ok.Query)
	assert.True(t, ok.Parsed)
	require.Len(t, ok.Dialects, 1)
	assert.EqualValues(t, "sqlite", ok.Dialects[0].Dialect)
	assert.True(t, ok.Dialects[0].Accepted)

	bad := results[0].Statements[1]
	assert.False(t, bad.Parsed)
	assert.NotEmpty(t, bad.Error)
}

func TestCheckCmd_Strict(t *testing.T) {
	rootCmd, _ := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("SELECT FROM"))
	rootCmd.SetArgs([]string{"check", "--strict", "--dialects", "sqlite"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 statement(s) failed to parse")
}

func TestCheckCmd_UnknownDialect(t *testing.T) {
	rootCmd, _ := newTestRootCmd(t)
	rootCmd.SetIn(strings.NewReader("SELECT a FROM t"))
	rootCmd.SetArgs([]string{"check", "--dialects", "oracle"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}

func TestRoot_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		config string
		env    string
		args   []string
		want   string
	}{
		{
			name: "default",
			want: "text",
		},
		{
			name:   "config",
			config: "output: yaml\n",
			want:   "yaml",
		},
		{
			name:   "env over config",
			config: "output: yaml\n",
			env:    "json",
			want:   "json",
		},
		{
			name:   "flag over env",
			config: "output: yaml\n",
			env:    "json",
			args:   []string{"-o", "text"},
			want:   "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd, out := newTestRootCmd(t)
			if tt.config != "" {
				home, err := os.UserHomeDir()
				require.NoError(t, err)
				require.NoError(t, os.WriteFile(filepath.Join(home, ".sqlast.yaml"), []byte(tt.config), 0o600))
			}
			t.Setenv("SQLAST_OUTPUT", tt.env)
			rootCmd.SetArgs(append([]string{"version"}, tt.args...))

			require.NoError(t, rootCmd.Execute())
			switch tt.want {
			case "json":
				var info map[string]string
				require.NoError(t, json.Unmarshal(out.Bytes(), &info))
				assert.Equal(t, "dev", info["version"])
			case "yaml":
				var info map[string]string
				require.NoError(t, yaml.Unmarshal(out.Bytes(), &info))
				assert.Equal(t, "dev", info["version"])
				assert.False(t, strings.HasPrefix(out.String(), "{"))
			default:
				assert.Equal(t, "sqlast version dev (commit: none)\n", out.String())
			}
		})
	}
}

func TestRoot_MalformedConfig(t *testing.T) {
	rootCmd, _ := newTestRootCmd(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".sqlast.yaml"), []byte("output: [\n"), 0o600))
	rootCmd.SetArgs([]string{"version"})

	err = rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestRoot_InvalidOutput(t *testing.T) {
	rootCmd, _ := newTestRootCmd(t)
	rootCmd.SetArgs([]string{"version", "-o", "xml"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
