package cmd

import (
	"embed"
	"os"

	"github.com/msalah0e/skillgraph/internal/catalog"
	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/logging"
	"github.com/msalah0e/skillgraph/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.3.0"

var (
	catalogFS   embed.FS
	catalogPath string
	verbose     bool

	cfg     *config.Config
	logger  *zap.Logger
	builder *graph.Builder
)

// SetCatalogFS sets the embedded filesystem containing the default catalog.
func SetCatalogFS(fs embed.FS) {
	catalogFS = fs
}

func loadConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

func loadLogger() *zap.Logger {
	if logger == nil {
		logger = logging.Must(loadConfig().Log, verbose)
	}
	return logger
}

// loadBuilder reads the catalog once: --catalog replaces the embedded
// records, otherwise user overlays are merged over them.
func loadBuilder() *graph.Builder {
	if builder != nil {
		return builder
	}
	log := loadLogger()

	var (
		src *catalog.Source
		err error
	)
	if catalogPath != "" {
		src, err = catalog.LoadFile(catalogPath)
	} else {
		src, err = catalog.LoadAll(catalogFS, "catalog", config.CatalogDir(), log)
	}
	if err != nil {
		ui.Bad.Printf("skillgraph: failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	builder = graph.NewBuilder(src, graph.WithLogger(log))
	return builder
}

// buildGraph builds one dataset and exits on a nil result.
func buildGraph(extended bool) *graph.Graph {
	g, _ := loadBuilder().Build(extended)
	if g == nil {
		ui.Bad.Println("skillgraph: graph build returned nothing")
		os.Exit(1)
	}
	return g
}

var rootCmd = &cobra.Command{
	Use:   "skillgraph",
	Short: "skillgraph — interactive skill relationship graph",
	Long: ui.Brand.Sprint(ui.Glyph+" skillgraph") + " — explore how skills, tools, projects and experience connect\n" +
		ui.Subtle.Sprint("Build, render, explore and serve the graph from one catalog"),
	Version: version + " " + ui.Glyph,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate("skillgraph {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog file or directory to use instead of the built-in one")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		buildCmd(),
		showCmd(),
		searchCmd(),
		listCmd(),
		exportCmd(),
		renderCmd(),
		exploreCmd(),
		serveCmd(),
		configCmd(),
		completionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
