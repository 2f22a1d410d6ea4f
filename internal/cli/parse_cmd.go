package cli

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sqlc-dev/sqlast/ast"
	"github.com/sqlc-dev/sqlast/parser"
)

type parseResult struct {
	File       string          `json:"file" yaml:"file"`
	Statements []string        `json:"statements" yaml:"statements"`
	Tree       []ast.Statement `json:"tree,omitempty" yaml:"-"`
}

// parseSource parses every statement of src.
func parseSource(ctx context.Context, src source) ([]ast.Statement, error) {
	stmts, err := parser.ParseStatements(ctx, strings.NewReader(src.Text))
	if err != nil {
		return nil, err
	}
	log.Debugf("parsed %s: %d statements", src.Name, len(stmts))
	return stmts, nil
}

func newParseCmd(opts *options) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse each input and print it in canonical form",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			results, err := eachSource(cmd.Context(), sources, func(ctx context.Context, src source) (parseResult, error) {
				stmts, err := parseSource(ctx, src)
				if err != nil {
					return parseResult{}, err
				}
				r := parseResult{File: src.Name, Statements: make([]string, 0, len(stmts))}
				for _, stmt := range stmts {
					r.Statements = append(r.Statements, parser.Format(stmt))
				}
				if tree {
					r.Tree = stmts
				}
				return r, nil
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if ok, err := printStructured(w, opts.output, results); ok {
				return err
			}
			for _, r := range results {
				if len(results) > 1 {
					fmt.Fprintf(w, "-- %s\n", r.File)
				}
				for _, s := range r.Statements {
					fmt.Fprintf(w, "%s;\n", s)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "Include the syntax tree in json output")
	return cmd
}
