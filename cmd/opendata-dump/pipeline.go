/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/toothbrush/opendata-dump/inventory"
	"github.com/toothbrush/opendata-dump/localdump"
	"github.com/toothbrush/opendata-dump/opendata"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// harvestConfig is everything a run needs, resolved from flags and the config file.  Commands
// build one and hand it down; the packages themselves hold no global state.
type harvestConfig struct {
	InputPath    string
	Column       string
	Portal       string
	NodeDomain   string
	StorePath    string
	MetadataPath string
	VCRCassette  string

	Workers         int
	ContinueOnError bool
	Progress        bool
	WithVCR         bool
	Timeout         time.Duration
}

func currentConfig() (harvestConfig, error) {
	cfg := harvestConfig{
		Column:          SeedColumn,
		Portal:          Portal,
		NodeDomain:      NodeDomain,
		Workers:         Workers,
		ContinueOnError: ContinueOnError,
		Progress:        Progress,
		WithVCR:         WithVCR,
		Timeout:         Timeout,
	}

	for _, p := range []struct {
		dst *string
		src string
	}{
		{&cfg.InputPath, InputPath},
		{&cfg.StorePath, LocalStore},
		{&cfg.MetadataPath, MetadataPath},
		{&cfg.VCRCassette, VCRCassette},
	} {
		expanded, err := homedir.Expand(p.src)
		if err != nil {
			return harvestConfig{}, fmt.Errorf("cmd: couldn't expand homedir in %s: %w", p.src, err)
		}
		*p.dst = expanded
	}

	return cfg, nil
}

// newAPI builds the portal client.  The returned stop func must be called once the run is over, so
// a VCR cassette gets saved.
func newAPI(cfg harvestConfig) (*opendata.API, func() error, error) {
	api, err := opendata.NewAPI(cfg.Portal)
	if err != nil {
		return nil, nil, fmt.Errorf("cmd: portal API creation failed: %w", err)
	}
	if cfg.NodeDomain != "" {
		api.SetNodeDomain(cfg.NodeDomain)
	}

	stop := func() error { return nil }
	if cfg.WithVCR {
		stop, err = api.UseRecorder(cfg.VCRCassette, recorder.ModeReplayWithNewEpisodes)
		if err != nil {
			return nil, nil, fmt.Errorf("cmd: couldn't set up go-vcr recording: %w", err)
		}
	}
	api.Client.Timeout = cfg.Timeout

	return api, stop, nil
}

func resolveSeeds(ctx context.Context, cfg harvestConfig, api *opendata.API, logger *log.Logger) (*opendata.IngestionResult, error) {
	seeds, err := inventory.ReadSeeds(cfg.InputPath, cfg.Column)
	if err != nil {
		return nil, fmt.Errorf("cmd: couldn't read seeds: %w", err)
	}
	debugLog("Read %d seeds from %s\n", len(seeds), cfg.InputPath)

	resolver := &opendata.Resolver{
		API:             api,
		ContinueOnError: cfg.ContinueOnError,
		Logger:          logger,
	}

	result, err := resolver.Resolve(ctx, seeds)
	if err != nil {
		return nil, fmt.Errorf("cmd: couldn't resolve seeds: %w", err)
	}
	logger.Printf("Resolved %d datasets from %d seeds.\n", result.Len(), len(seeds))

	if err := localdump.WriteMetadata(cfg.MetadataPath, result); err != nil {
		return nil, fmt.Errorf("cmd: couldn't save metadata: %w", err)
	}
	debugLog("Wrote metadata to %s\n", cfg.MetadataPath)

	return result, nil
}

func downloadResources(ctx context.Context, cfg harvestConfig, api *opendata.API, result *opendata.IngestionResult, logger *log.Logger) (int, error) {
	downloader := &localdump.Downloader{
		StorePath:       cfg.StorePath,
		API:             api,
		Workers:         cfg.Workers,
		ContinueOnError: cfg.ContinueOnError,
		Progress:        cfg.Progress,
		Logger:          logger,
	}

	count, err := downloader.Download(ctx, result)
	if err != nil {
		return count, fmt.Errorf("cmd: download failed after %d files: %w", count, err)
	}

	return count, nil
}

// runHarvest is the whole pipeline: seeds, resolution, metadata, downloads.
func runHarvest(ctx context.Context, cfg harvestConfig, out io.Writer, logger *log.Logger) (err error) {
	api, stop, err := newAPI(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("cmd: couldn't save go-vcr cassette: %w", stopErr)
		}
	}()

	logger.Printf("Harvesting %s using seeds from %s...\n", api.BaseURI, cfg.InputPath)

	result, err := resolveSeeds(ctx, cfg, api, logger)
	if err != nil {
		return err
	}

	count, err := downloadResources(ctx, cfg, api, result, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d files downloaded in: %s\n", count, cfg.StorePath)
	fmt.Fprintf(out, "opendata-dump harvest finished\n")

	return nil
}
