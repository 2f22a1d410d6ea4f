package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			info := map[string]string{"version": version, "commit": commit}
			if ok, err := printStructured(w, opts.output, info); ok {
				return err
			}
			_, _ = fmt.Fprintf(w, "sqlast version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
