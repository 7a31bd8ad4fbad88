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
	"github.com/toothbrush/opendata-dump/localdump"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the resources listed in an existing metadata file",
	Long: `
Runs the second half of a harvest against a mapping previously written by "resolve" or
"harvest".  Files already in the store are overwritten.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}

		return runDownload(cmd.Context(), cfg, cmd.OutOrStdout(), log.New(cmd.ErrOrStderr(), "", log.LstdFlags))
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	addDownloadFlags(downloadCmd)
}

func runDownload(ctx context.Context, cfg harvestConfig, out io.Writer, logger *log.Logger) (err error) {
	result, err := localdump.ReadMetadata(cfg.MetadataPath)
	if err != nil {
		return fmt.Errorf("cmd: couldn't load metadata: %w", err)
	}

	api, stop, err := newAPI(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("cmd: couldn't save go-vcr cassette: %w", stopErr)
		}
	}()

	count, err := downloadResources(ctx, cfg, api, result, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d files downloaded in: %s\n", count, cfg.StorePath)
	return nil
}
