package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlc-dev/sqlast/lexer"
)

type tokenView struct {
	Token  string `json:"token" yaml:"token"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

type tokensResult struct {
	File   string      `json:"file" yaml:"file"`
	Tokens []tokenView `json:"tokens" yaml:"tokens"`
}

func newTokensCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file...]",
		Short: "Print the token stream of each input",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd.Context(), cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			results, err := eachSource(cmd.Context(), sources, func(_ context.Context, src source) (tokensResult, error) {
				items, err := lexer.TokenizeString(src.Text)
				if err != nil {
					return tokensResult{}, err
				}
				r := tokensResult{File: src.Name, Tokens: make([]tokenView, 0, len(items))}
				for _, item := range items {
					r.Tokens = append(r.Tokens, tokenView{
						Token:  item.Token.String(),
						Value:  item.Value,
						Line:   item.Pos.Line,
						Column: item.Pos.Column,
					})
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
				for _, t := range r.Tokens {
					if t.Value != "" {
						fmt.Fprintf(w, "%d:%d\t%s\t%q\n", t.Line, t.Column, t.Token, t.Value)
					} else {
						fmt.Fprintf(w, "%d:%d\t%s\n", t.Line, t.Column, t.Token)
					}
				}
			}
			return nil
		},
	}
}
