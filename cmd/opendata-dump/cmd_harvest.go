/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
)

var harvestUsage = strings.TrimSpace(`
Read the seed table, find each dataset's node ID, fetch its resource list from the portal, save
the mapping as JSON, then download every resource into the store directory.  Any failure stops
the run, unless --continue-on-error is set.
`)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Resolve seeds and download all their resources",
	Long:  harvestUsage,
	Args:  cobra.ExactArgs(0),
	RunE:  harvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	addDownloadFlags(harvestCmd)

	// Running the tool without a command harvests.
	rootCmd.Args = cobra.ExactArgs(0)
	rootCmd.RunE = harvest
	addDownloadFlags(rootCmd)
}

func harvest(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	debugLog("  Config: %+v\n", cfg)

	return runHarvest(cmd.Context(), cfg, cmd.OutOrStdout(), log.New(cmd.ErrOrStderr(), "", log.LstdFlags))
}

// The stages that download share their flags.
func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&Workers, "workers", 1, "number of files to download at once")
	cmd.Flags().BoolVar(&Progress, "progress", false, "show a progress bar while downloading")
}
