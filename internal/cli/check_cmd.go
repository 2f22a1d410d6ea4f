package cli

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sqlc-dev/sqlast/internal/compat"
	"github.com/sqlc-dev/sqlast/internal/normalize"
	"github.com/sqlc-dev/sqlast/parser"
)

type statementCheck struct {
	Query    string          `json:"query" yaml:"query"`
	Parsed   bool            `json:"parsed" yaml:"parsed"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
	Dialects []compat.Result `json:"dialects" yaml:"dialects"`
}

type checkResult struct {
	File       string           `json:"file" yaml:"file"`
	Statements []statementCheck `json:"statements" yaml:"statements"`
}

func newCheckCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Report which parsers accept each statement",
		Long: "Split each input into statements and report, for every statement, whether it parses\n" +
			"here and whether each configured dialect parser accepts it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			checkers, err := compat.Lookup(opts.dialects)
			if err != nil {
				return err
			}
			sources, err := readSources(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			results, err := eachSource(cmd.Context(), sources, func(ctx context.Context, src source) (checkResult, error) {
				queries, err := normalize.Split(src.Text)
				if err != nil {
					return checkResult{}, err
				}
				r := checkResult{File: src.Name, Statements: make([]statementCheck, 0, len(queries))}
				for _, q := range queries {
					if err := ctx.Err(); err != nil {
						return checkResult{}, err
					}
					sc := statementCheck{Query: q, Parsed: true}
					if _, err := parser.Parse(q); err != nil {
						sc.Parsed = false
						sc.Error = err.Error()
					}
					sc.Dialects = compat.Check(q, checkers)
					log.Debugf("checked %s: %q parsed=%t", src.Name, q, sc.Parsed)
					r.Statements = append(r.Statements, sc)
				}
				return r, nil
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if ok, err := printStructured(w, opts.output, results); ok {
				if err != nil {
					return err
				}
				return failures(strict, results)
			}
			for _, r := range results {
				if len(results) > 1 {
					fmt.Fprintf(w, "-- %s\n", r.File)
				}
				for _, sc := range r.Statements {
					fmt.Fprintln(w, sc.Query)
					fmt.Fprintf(w, "  sqlast: %s\n", verdict(sc.Parsed, sc.Error))
					for _, d := range sc.Dialects {
						fmt.Fprintf(w, "  %s: %s\n", d.Dialect, verdict(d.Accepted, d.Error))
					}
				}
			}
			return failures(strict, results)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any statement fails to parse")
	return cmd
}

func verdict(ok bool, msg string) string {
	if ok {
		return "ok"
	}
	return "error: " + strings.ReplaceAll(msg, "\n", " ")
}

// failures returns an error naming the statements that did not parse,
// when strict is set.
func failures(strict bool, results []checkResult) error {
	if !strict {
		return nil
	}
	n := 0
	for _, r := range results {
		for _, sc := range r.Statements {
			if !sc.Parsed {
				n++
			}
		}
	}
	if n > 0 {
		return fmt.Errorf("%d statement(s) failed to parse", n)
	}
	return nil
}
