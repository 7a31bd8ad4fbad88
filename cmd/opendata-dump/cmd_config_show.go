/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is a harvest going somewhere unexpected?  Have a look whether your config is as you expect.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Only persistent flags are visible here; --workers and --progress belong to the
		// download commands.
		cfg, err := currentConfig()
		if err != nil {
			return err
		}
		showConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}

func showConfig(out io.Writer, cfg harvestConfig) {
	fmt.Fprintf(out, "Dump current config state:\n\n")

	fmt.Fprintf(out, "  Config file: %s\n", ConfigActual)
	fmt.Fprintf(out, "  Debug: %v\n", Debug)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Parsed YAML:\n%#v\n", ParsedConfig)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Input: %s (column %s)\n", cfg.InputPath, cfg.Column)
	fmt.Fprintf(out, "  Portal: %s\n", cfg.Portal)
	fmt.Fprintf(out, "  NodeDomain: %s\n", cfg.NodeDomain)
	fmt.Fprintf(out, "  LocalStore: %s\n", cfg.StorePath)
	fmt.Fprintf(out, "  Metadata: %s\n", cfg.MetadataPath)
	fmt.Fprintf(out, "  ContinueOnError: %v\n", cfg.ContinueOnError)
	fmt.Fprintf(out, "  Timeout: %s\n", cfg.Timeout)
	fmt.Fprintf(out, "  WithVCR: %v (%s)\n", cfg.WithVCR, cfg.VCRCassette)
}
