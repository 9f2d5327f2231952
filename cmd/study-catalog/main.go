// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the study-catalog CLI: registry
// search and retrieval, metadata normalization, the local facet catalog,
// and the pathway collaborators.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/study-catalog/internal/metadata"
	"github.com/pdiddy/study-catalog/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is the process logger. Warn by default; --verbose lowers it to
// Debug and wires the extraction trace.
var logger = log.Logger{
	Level:  log.WarnLevel,
	Writer: &log.ConsoleWriter{Writer: os.Stderr},
}

// rootCmd is the base command for the study-catalog CLI.
var rootCmd = &cobra.Command{
	Use:   "study-catalog",
	Short: "Search and normalize study metadata from the BioStudies registry",
	Long: `study-catalog retrieves studies from the BioStudies registry, normalizes
their polymorphic metadata into flat records and display modules, and
maintains a local searchable catalog with facet filters.

Each concern is a subcommand: search and list query the registry, study
fetches and normalizes one submission, catalog manages the local index,
and aop queries the pathway collaborators.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			logger.Level = log.DebugLevel
			metadata.ModuleLogger = logger
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./study-catalog.yaml or ~/.config/study-catalog/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("study-catalog")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "study-catalog"))
		}
	}

	viper.SetEnvPrefix("STUDY_CATALOG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the configuration tree from viper (config file and
// environment) and validates it.
func loadConfig() (types.Config, error) {
	cfg := types.Config{
		Registry: types.RegistryConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("registry.timeout"),
				UserAgent: viper.GetString("registry.user_agent"),
			},
			BaseURL:           viper.GetString("registry.base_url"),
			Collection:        viper.GetString("registry.collection"),
			PageSize:          viper.GetInt("registry.page_size"),
			MetadataWorkers:   viper.GetInt("registry.metadata_workers"),
			RequestsPerSecond: viper.GetFloat64("registry.requests_per_second"),
		},
		Catalog: types.CatalogConfig{
			CatalogDir: viper.GetString("catalog.catalog_dir"),
			MaxResults: viper.GetInt("catalog.max_results"),
		},
		AOP: types.AOPConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("aop.timeout"),
				UserAgent: viper.GetString("aop.user_agent"),
			},
			NetworkEndpoint:  viper.GetString("aop.network_endpoint"),
			CompoundEndpoint: viper.GetString("aop.compound_endpoint"),
		},
	}

	if cfg.Registry.UserAgent == "" {
		cfg.Registry.UserAgent = "study-catalog/" + version
	}
	if cfg.AOP.UserAgent == "" {
		cfg.AOP.UserAgent = cfg.Registry.UserAgent
	}
	if cfg.Registry.Timeout == 0 {
		cfg.Registry.Timeout = 30 * time.Second
	}
	if cfg.Catalog.CatalogDir == "" {
		cfg.Catalog.CatalogDir = "catalog"
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
