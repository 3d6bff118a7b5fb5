package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/ui"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration",
		Run: func(cmd *cobra.Command, args []string) {
			ui.Banner("config")
			ui.Subtle.Printf("  # %s\n\n", filepath.Join(config.ConfigDir(), "config.toml"))
			if err := toml.NewEncoder(os.Stdout).Encode(loadConfig()); err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default config file if none exists",
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.EnsureExists(); err != nil {
				ui.Bad.Printf("  Failed to write config: %v\n", err)
				os.Exit(1)
			}
			if err := os.MkdirAll(config.CatalogDir(), 0o755); err != nil {
				ui.Bad.Printf("  Failed to create %s: %v\n", config.CatalogDir(), err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Config at %s\n", ui.StatusIcon(true), config.ConfigDir())
			fmt.Printf("  Drop .toml or .yaml catalog overlays into %s\n", ui.Info.Sprint(config.CatalogDir()))
		},
	})

	return cmd
}
