/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/opendata-dump/inventory"
	"github.com/toothbrush/opendata-dump/opendata"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "~/.config/opendata-dump.yaml"

var (
	// Store the result of binding cobra flags
	Config       string
	ConfigActual string
	Debug        bool

	InputPath    string
	SeedColumn   string
	Portal       string
	NodeDomain   string
	LocalStore   string
	MetadataPath string
	VCRCassette  string

	Workers         int
	ContinueOnError bool
	Progress        bool
	WithVCR         bool
	Timeout         time.Duration

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "opendata-dump",
	Short: "Harvest the resource files behind a list of open-data datasets",
	Long: `
Give this tool a semicolon-separated table of dataset landing pages on an open-data portal.  It
finds each dataset's node ID, asks the portal's package API which files belong to it, records that
mapping as JSON, and downloads every file into a local directory.  Without a command it runs
"harvest".
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("opendata-dump: failed to initialise config: %w", err)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: "+defaultConfigPath+", respects OPENDATA_DUMP_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&InputPath, "input", "input/datasources.csv", "semicolon-separated seed table")
	rootCmd.PersistentFlags().StringVar(&SeedColumn, "column", inventory.DefaultColumn, "seed table column holding dataset landing-page URLs")
	rootCmd.PersistentFlags().StringVar(&Portal, "portal", opendata.DefaultPortal, "base URL of the open-data portal's API")
	rootCmd.PersistentFlags().StringVar(&NodeDomain, "node-domain", "", "domain that landing pages link nodes on (default: the portal's host)")
	rootCmd.PersistentFlags().StringVar(&LocalStore, "store", "output/data", "directory to save resource files in")
	rootCmd.PersistentFlags().StringVar(&MetadataPath, "metadata", "output/meta/meta.json", "where to write the node to resources mapping")
	rootCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	rootCmd.PersistentFlags().StringVar(&VCRCassette, "vcr-cassette", "fixtures/opendata-portal", "go-vcr cassette name, used with --with-vcr")
	rootCmd.PersistentFlags().DurationVar(&Timeout, "timeout", 0, "per-request HTTP timeout, 0 waits forever")
	rootCmd.PersistentFlags().BoolVar(&ContinueOnError, "continue-on-error", false, "log and skip seeds or resources that fail, instead of stopping")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := Config != ""
	if !explicit {
		// Did the user provide an ENV?
		if envConfig := os.Getenv("OPENDATA_DUMP_CONFIG"); envConfig != "" {
			Config = envConfig
			explicit = true
		} else {
			Config = defaultConfigPath
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("opendata-dump: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		if explicit {
			fmt.Printf("Couldn't read config file %s, does it exist?  Override with --config.\n", ConfigActual)
			return fmt.Errorf("opendata-dump: specified config file does not exist: %w", err)
		}
		// no config is fine, flags and defaults will do.
		debugLog("No config file at %s, using flags only.\n", ConfigActual)
		return nil
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("opendata-dump: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a key we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("opendata-dump: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("opendata-dump: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	ContinueOnError *bool `yaml:"continue-on-error"`
	Progress        *bool `yaml:"progress"`
	WithVCR         *bool `yaml:"with-vcr"`
	Workers         *int  `yaml:"workers"`

	Input       string `yaml:"input"`
	Column      string `yaml:"column"`
	Portal      string `yaml:"portal"`
	NodeDomain  string `yaml:"node-domain"`
	StorePath   string `yaml:"store"`
	Metadata    string `yaml:"metadata"`
	VCRCassette string `yaml:"vcr-cassette"`
	Timeout     string `yaml:"timeout"`
}

// Bind each config file value onto its cobra flag, unless the flag was given on the command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("opendata-dump: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// e.g. `describe` has no --workers flag but your YAML file may well set it.
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			var value string
			switch p := field.Value().(type) {
			case *bool:
				if p == nil {
					continue
				}
				value = fmt.Sprintf("%v", *p)
			case *int:
				if p == nil {
					continue
				}
				value = fmt.Sprintf("%d", *p)
			default:
				return fmt.Errorf("opendata-dump: found unrecognised field: %+v", field.Name())
			}
			if err := cmd.Flags().Set(key, value); err != nil {
				return fmt.Errorf("opendata-dump: bad value for %s: %w", key, err)
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("opendata-dump: found unrecognised field: %+v", field.Name())
			}
			if s != "" {
				if err := cmd.Flags().Set(key, s); err != nil {
					return fmt.Errorf("opendata-dump: bad value for %s: %w", key, err)
				}
			}

		default:
			return fmt.Errorf("opendata-dump: found unrecognised field: %+v", field.Name())
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("opendata-dump: execution error: %w", err)
	}

	return nil
}
