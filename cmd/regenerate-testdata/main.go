// Command regenerate-testdata rewrites expected.sql, and explain.txt where
// present, for every parser fixture from its query.sql.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sqlc-dev/sqlast/parser"
)

func main() {
	testName := flag.String("test", "", "Single test directory name to process (if empty, process all)")
	explain := flag.Bool("explain", false, "Also create explain.txt for tests that lack one")
	dryRun := flag.Bool("dry-run", false, "Print the rendered output without writing files")
	flag.Parse()

	testdataDir := "parser/testdata"

	if *testName != "" {
		// Process single test
		if err := processTest(filepath.Join(testdataDir, *testName), *explain, *dryRun); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", *testName, err)
			os.Exit(1)
		}
		return
	}

	// Process all tests
	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading testdata: %v\n", err)
		os.Exit(1)
	}

	var errors []string
	var processed int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := processTest(filepath.Join(testdataDir, entry.Name()), *explain, *dryRun); err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", entry.Name(), err))
			continue
		}
		processed++
	}

	fmt.Printf("\nProcessed: %d, Errors: %d\n", processed, len(errors))
	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "\nErrors:\n")
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		os.Exit(1)
	}
}

func processTest(testDir string, createExplain, dryRun bool) error {
	queryPath := filepath.Join(testDir, "query.sql")
	queryBytes, err := os.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("reading query.sql: %w", err)
	}

	stmts, err := parser.ParseStatements(context.Background(), strings.NewReader(string(queryBytes)))
	if err != nil {
		return err
	}
	if len(stmts) == 0 {
		return fmt.Errorf("no statements found")
	}

	expected := parser.FormatStatements(stmts)
	var sb strings.Builder
	for _, stmt := range stmts {
		sb.WriteString(parser.Explain(stmt))
	}

	if dryRun {
		fmt.Printf("%s:\n%s%s\n", filepath.Base(testDir), expected, sb.String())
		return nil
	}

	if err := writeIfChanged(filepath.Join(testDir, "expected.sql"), expected); err != nil {
		return err
	}

	explainPath := filepath.Join(testDir, "explain.txt")
	if _, err := os.Stat(explainPath); err == nil || createExplain {
		if err := writeIfChanged(explainPath, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeIfChanged(path, content string) error {
	if old, err := os.ReadFile(path); err == nil && string(old) == content {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("  updated %s\n", path)
	return nil
}
