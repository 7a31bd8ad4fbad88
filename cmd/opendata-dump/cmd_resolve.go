/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Only build the node to resources mapping, don't download",
	Long: `
Runs the first half of a harvest: every seed is resolved to its dataset's resource URLs and the
result is written to --metadata.  Nothing is downloaded.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}

		return runResolve(cmd.Context(), cfg, cmd.OutOrStdout(), log.New(cmd.ErrOrStderr(), "", log.LstdFlags))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(ctx context.Context, cfg harvestConfig, out io.Writer, logger *log.Logger) (err error) {
	api, stop, err := newAPI(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("cmd: couldn't save go-vcr cassette: %w", stopErr)
		}
	}()

	result, err := resolveSeeds(ctx, cfg, api, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d datasets with %d resources written to: %s\n", result.Len(), len(result.URLs()), cfg.MetadataPath)
	return nil
}
