/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/opendata-dump/localdump"
	"github.com/toothbrush/opendata-dump/opendata"
)

var describeUsage = strings.TrimSpace(`
Look up a single dataset by its landing page and print it as Markdown: a YAML header listing its
resources, followed by the dataset's description.
`)

var describeOutput string

var describeCmd = &cobra.Command{
	Use:   "describe <landing-page-url>",
	Short: "Print one dataset's description and resources",
	Long:  describeUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := currentConfig()
		if err != nil {
			return err
		}

		out := io.Writer(os.Stdout)
		if describeOutput != "" {
			f, err := os.Create(describeOutput)
			if err != nil {
				return fmt.Errorf("describe: couldn't create %s: %w", describeOutput, err)
			}
			defer f.Close()
			out = f
		}

		return runDescribe(cmd.Context(), cfg, args[0], out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)

	describeCmd.Flags().StringVarP(&describeOutput, "output", "o", "", "write the Markdown to this file instead of stdout")
}

func runDescribe(ctx context.Context, cfg harvestConfig, seed string, out io.Writer) (err error) {
	api, stop, err := newAPI(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("describe: couldn't save go-vcr cassette: %w", stopErr)
		}
	}()

	resolver := &opendata.Resolver{API: api}
	nodeID, pkg, err := resolver.Describe(ctx, seed)
	if errors.Is(err, opendata.ErrNoNodeID) {
		return fmt.Errorf("describe: %s doesn't link to any node on %s", seed, api.NodeDomain())
	}
	if err != nil {
		return fmt.Errorf("describe: couldn't resolve %s: %w", seed, err)
	}

	markdown, err := localdump.DescribeMarkdown(api.BaseURI, nodeID, seed, pkg)
	if err != nil {
		return fmt.Errorf("describe: %w", err)
	}

	if _, err := io.WriteString(out, markdown); err != nil {
		return fmt.Errorf("describe: couldn't write output: %w", err)
	}
	return nil
}
