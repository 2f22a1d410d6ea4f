// Package cli implements the sqlast command.
package cli

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// options holds the resolved persistent flags.
type options struct {
	output     string
	logLevel   string
	configPath string
	dialects   []string
}

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(os.Stdout, map[string]string{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	defaults := DefaultConfig()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "sqlast",
		Short:         "Parse SQL into a syntax tree",
		Long:          "Tokenize, parse, render and explain SQL queries, and cross-check them against other SQL parsers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(opts.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}

			// Apply precedence: flag > env > config > default
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("SQLAST_OUTPUT"); v != "" {
					opts.output = v
				} else if cfg.Output != "" {
					opts.output = cfg.Output
				}
			}
			if !cmd.Flags().Changed("log-level") {
				if v := os.Getenv("SQLAST_LOG_LEVEL"); v != "" {
					opts.logLevel = v
				} else if cfg.LogLevel != "" {
					opts.logLevel = cfg.LogLevel
				}
			}
			if !cmd.Flags().Changed("dialects") {
				if v := os.Getenv("SQLAST_DIALECTS"); v != "" {
					opts.dialects = strings.Split(v, ",")
				} else if len(cfg.Dialects) > 0 {
					opts.dialects = cfg.Dialects
				}
			}

			switch opts.output {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unsupported output format %q: use 'text', 'json' or 'yaml'", opts.output)
			}
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			log.SetOutput(cmd.ErrOrStderr())
			log.SetLevel(level)
			log.Debugf("output=%s dialects=%v", opts.output, opts.dialects)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", defaults.Output, "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", ConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringSliceVar(&opts.dialects, "dialects", defaults.Dialects, "Dialects used by check")

	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newExplainCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))

	return rootCmd
}
