// Command ggoverlay drives the overlay layer outside a host application.
//
// The demo subcommand runs the complete pipeline on the in-memory
// graphics implementation: it loads a factory through the loader, creates
// a swap chain for a wrapped device, draws an animated scene into the back
// buffer and presents it, writing every presented frame as a PNG.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggoverlay"
	"github.com/gogpu/ggoverlay/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "ggoverlay",
	Short:         "DXGI overlay layer tools",
	Long:          `ggoverlay interposes on DXGI factories and swap chains and draws an overlay before every Present.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ggoverlay v%s\n", ggoverlay.Version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ggoverlay.yaml)")

	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ggoverlay:", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates the configuration and installs the
// configured logger. Validation problems are logged, not fatal.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	errs := cfg.Validate()

	logger := cfg.NewLogger(os.Stderr)
	ggoverlay.SetLogger(logger)
	for _, err := range errs {
		logger.Warn("config", "err", err)
	}
	return cfg, nil
}
