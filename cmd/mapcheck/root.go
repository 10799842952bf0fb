package main

import (
	"fmt"

	"github.com/milk9111/campusmap/config"
	"github.com/milk9111/campusmap/floors"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	assetsDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "mapcheck",
	Short: "Validate and convert campus map assets",
	Long: `mapcheck inspects the floor table and the map images it points to:
it verifies every asset decodes, finds images the table does not use,
converts assets to lossless WebP and reports the visitor counter.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "campusmap.yml", "config file path")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets", "", "asset directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the viewer config and applies the --assets override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if assetsDir != "" {
		cfg.AssetsDir = assetsDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadTable(cfg *config.Config) (*floors.Table, error) {
	return floors.LoadTable(cfg.FloorsFile)
}
