package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/msalah0e/skillgraph/internal/layout"
	"github.com/msalah0e/skillgraph/internal/parallel"
	"github.com/msalah0e/skillgraph/internal/render"
	"github.com/msalah0e/skillgraph/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func renderCmd() *cobra.Command {
	var (
		formats  string
		outDir   string
		name     string
		extended bool
		selected string
		labels   bool
		zoom     float64
		width    int
		height   int
		cols     int
		rows     int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render still snapshots of the graph",
		Long: `Lay the graph out to rest and draw it as SVG, PNG, HTML, or
terminal cells. File formats are rendered concurrently.

  skillgraph render                          # skillgraph.svg + skillgraph.png
  skillgraph render -f html -e               # extended graph as a page
  skillgraph render -f cells --selected go   # draw in the terminal`,
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			log := loadLogger()

			o := render.OptionsFromConfig(c.Render)
			if width > 0 {
				o.Width = width
			}
			if height > 0 {
				o.Height = height
			}
			o.View.ShowAllLabels = labels
			o.View.Zoom = zoom

			g := buildGraph(extended)
			if selected != "" {
				n, err := findNode(g, selected)
				if err != nil {
					ui.Bad.Printf("  %v\n", err)
					os.Exit(1)
				}
				o.View.Selected = n.ID
				o.View.PanelOpen = true
			}
			o.View.ShowExtended = g.Extended

			start := time.Now()
			sc := render.Settle(g, layout.FromConfig(c.Layout), o, layout.WithLogger(log))
			log.Debug("layout settled", zap.Int("nodes", len(g.Nodes)), zap.Duration("elapsed", time.Since(start)))

			var tasks []parallel.Task
			for _, f := range strings.Split(formats, ",") {
				f := f
				f = strings.TrimSpace(strings.ToLower(f))
				switch f {
				case "cells":
					fmt.Println(render.CellString(sc, o, cols, rows))
				case "svg", "png", "html":
					path := filepath.Join(outDir, name+"."+f)
					tasks = append(tasks, parallel.Task{
						Name: f,
						Fn: func(ctx context.Context) (string, error) {
							return writeSnapshot(f, path, sc, o)
						},
					})
				case "":
				default:
					ui.Bad.Printf("  Unknown format: %s (use svg, png, html, or cells)\n", f)
					os.Exit(1)
				}
			}
			if len(tasks) == 0 {
				return
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				ui.Bad.Printf("  Failed to create %s: %v\n", outDir, err)
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			ui.Banner("render")
			runner := parallel.Runner{Concurrency: c.Parallel.Concurrency, Out: os.Stdout}
			if failed := parallel.Failed(runner.Run(ctx, tasks)); len(failed) > 0 {
				fmt.Printf("\n  %s %d of %d renders failed\n", ui.WarnIcon(), len(failed), len(tasks))
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", "svg,png", "Comma-separated formats: svg, png, html, cells")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for rendered files")
	cmd.Flags().StringVar(&name, "name", "skillgraph", "Base file name")
	cmd.Flags().BoolVarP(&extended, "extended", "e", false, "Include projects and experience")
	cmd.Flags().StringVar(&selected, "selected", "", "Node to draw as selected")
	cmd.Flags().BoolVar(&labels, "labels", true, "Show every label")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "Zoom relative to the fitted view")
	cmd.Flags().IntVar(&width, "width", 0, "Image width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "Image height (default from config)")
	cmd.Flags().IntVar(&cols, "cols", 100, "Terminal columns for cells")
	cmd.Flags().IntVar(&rows, "rows", 36, "Terminal rows for cells")
	return cmd
}

func writeSnapshot(format, path string, sc render.Scene, o render.Options) (string, error) {
	var data []byte
	switch format {
	case "svg":
		data = render.SVGBytes(sc, o)
	case "png":
		b, err := render.PNGBytes(sc, o)
		if err != nil {
			return "", err
		}
		data = b
	case "html":
		page, err := render.NewHTMLRenderer()
		if err != nil {
			return "", err
		}
		out, err := page.Render("Skill Graph", render.SVGBytes(sc, o), loadBuilder().Index(), sc.Graph)
		if err != nil {
			return "", err
		}
		data = []byte(out)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%d KB)", path, (len(data)+1023)/1024), nil
}
