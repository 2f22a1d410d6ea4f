package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlc-dev/sqlast/parser"
)

type explainResult struct {
	File       string   `json:"file" yaml:"file"`
	Statements []string `json:"statements" yaml:"statements"`
}

func newExplainCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [file...]",
		Short: "Print the syntax tree of each statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			results, err := eachSource(cmd.Context(), sources, func(ctx context.Context, src source) (explainResult, error) {
				stmts, err := parseSource(ctx, src)
				if err != nil {
					return explainResult{}, err
				}
				r := explainResult{File: src.Name, Statements: make([]string, 0, len(stmts))}
				for _, stmt := range stmts {
					r.Statements = append(r.Statements, parser.Explain(stmt))
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
					fmt.Fprint(w, s)
				}
			}
			return nil
		},
	}
}
