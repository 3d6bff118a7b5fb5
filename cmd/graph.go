package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/layout"
	"github.com/msalah0e/skillgraph/internal/panel"
	"github.com/msalah0e/skillgraph/internal/render"
	"github.com/msalah0e/skillgraph/internal/ui"
	"github.com/spf13/cobra"
)

func buildCmd() *cobra.Command {
	var (
		extended   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the graph and report its shape and data warnings",
		Run: func(cmd *cobra.Command, args []string) {
			g := buildGraph(extended)
			warnings := loadBuilder().Warnings()
			stats := g.GetStats()

			if jsonOutput {
				data, _ := json.MarshalIndent(map[string]any{
					"extended": g.Extended,
					"stats":    stats,
					"warnings": warnings,
				}, "", "  ")
				fmt.Println(string(data))
				return
			}

			dataset := "base"
			if g.Extended {
				dataset = "extended"
			}
			ui.Banner(dataset + " graph")
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Nodes"), stats.Nodes)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Links"), stats.Links)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Categories"), stats.Categories)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Skills & tools"), stats.Skills)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-16s", "Portfolio"), stats.Portfolio)
			fmt.Println()

			var rows [][]string
			for _, k := range graph.Kinds {
				if n := stats.ByKind[k]; n > 0 {
					rows = append(rows, []string{ui.Swatch(k.Color()) + " " + k.Badge(), fmt.Sprintf("%d", n)})
				}
			}
			ui.Table([]string{"Kind", "Nodes"}, rows)

			if len(warnings) == 0 {
				fmt.Printf("\n  %s catalog is consistent\n", ui.StatusIcon(true))
				return
			}
			fmt.Printf("\n  %s %d dropped references\n", ui.WarnIcon(), len(warnings))
			for _, w := range warnings {
				fmt.Printf("    %s\n", ui.Subtle.Sprint(w.String()))
			}
		},
	}

	cmd.Flags().BoolVarP(&extended, "extended", "e", false, "Include projects and experience")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// findNode resolves an id, or failing that a case-insensitive name.
func findNode(g *graph.Graph, arg string) (*graph.Node, error) {
	if n, ok := g.Node(arg); ok {
		return n, nil
	}
	for _, n := range g.Nodes {
		if strings.EqualFold(n.Name, arg) {
			return n, nil
		}
	}
	hits := g.Search(arg)
	if len(hits) == 0 {
		return nil, fmt.Errorf("no node matches %q", arg)
	}
	var names []string
	for i, h := range hits {
		if i == 3 {
			break
		}
		names = append(names, h.Node.ID)
	}
	return nil, fmt.Errorf("no node named %q (did you mean %s?)", arg, strings.Join(names, ", "))
}

func showCmd() *cobra.Command {
	var (
		extended   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:               "show <id|name>",
		Short:             "Show a node's detail panel",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: nodeCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			g := buildGraph(extended)
			n, err := findNode(g, args[0])
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}

			d := panel.Build(loadBuilder().Index(), g, n)
			if jsonOutput {
				data, _ := json.MarshalIndent(d, "", "  ")
				fmt.Println(string(data))
				return
			}

			fmt.Println()
			fmt.Print(panel.Render(d,
				func(s string) string { return ui.Hex(d.Color, s) },
				func(s string) string { return ui.Subtle.Sprint(s) },
				func(s string) string { return ui.Info.Sprint(s) },
			))
			fmt.Println()
		},
	}

	cmd.Flags().BoolVarP(&extended, "extended", "e", true, "Resolve connections against the extended graph")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func searchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search nodes by name, kind, or description",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			query := args[0]
			results := buildGraph(true).Search(query)

			if jsonOutput {
				data, _ := json.MarshalIndent(results, "", "  ")
				fmt.Println(string(data))
				return
			}

			if len(results) == 0 {
				fmt.Printf("  No nodes found matching %q\n", query)
				return
			}

			ui.Banner("search results")
			var rows [][]string
			for _, r := range results {
				desc := r.Node.Description
				if len([]rune(desc)) > 40 {
					desc = string([]rune(desc)[:37]) + "..."
				}
				rows = append(rows, []string{r.Node.ID, ui.Swatch(r.Node.Color) + " " + r.Node.Name, r.Node.Kind.Badge(), desc, fmt.Sprintf("%d", r.Score)})
			}
			ui.Table([]string{"ID", "Name", "Kind", "Description", "Score"}, rows)
			fmt.Printf("\n  %d results\n", len(results))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		kindFilter string
		extended   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List nodes with their size and connections",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			var want *graph.Kind
			if kindFilter != "" {
				var k graph.Kind
				if err := k.UnmarshalText([]byte(kindFilter)); err != nil {
					ui.Bad.Printf("  %v\n", err)
					os.Exit(1)
				}
				want = &k
			}

			g := buildGraph(extended)
			var nodes []*graph.Node
			for _, n := range g.Nodes {
				if want != nil && n.Kind != *want {
					continue
				}
				nodes = append(nodes, n)
			}
			sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Size > nodes[j].Size })

			if jsonOutput {
				data, _ := json.MarshalIndent(nodes, "", "  ")
				fmt.Println(string(data))
				return
			}

			if len(nodes) == 0 {
				fmt.Printf("  No nodes of kind %q\n", kindFilter)
				return
			}

			ui.Banner("nodes")
			var rows [][]string
			for _, n := range nodes {
				rows = append(rows, []string{
					n.ID,
					ui.Swatch(n.Color) + " " + n.Name,
					n.Kind.Badge(),
					fmt.Sprintf("%.0f", n.Size),
					fmt.Sprintf("%d", len(g.LinksOf(n.ID))),
				})
			}
			ui.Table([]string{"ID", "Name", "Kind", "Size", "Links"}, rows)
			fmt.Printf("\n  %d nodes\n", len(nodes))
		},
	}

	cmd.Flags().StringVar(&kindFilter, "kind", "", "Filter by node kind (e.g. devTech, project)")
	cmd.Flags().BoolVarP(&extended, "extended", "e", false, "Include projects and experience")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		format   string
		extended bool
		out      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the graph as JSON, Graphviz DOT, or a standalone HTML page",
		Run: func(cmd *cobra.Command, args []string) {
			g := buildGraph(extended)

			var data []byte
			switch format {
			case "json":
				b, err := g.ExportJSON()
				if err != nil {
					ui.Bad.Printf("  Export failed: %v\n", err)
					os.Exit(1)
				}
				data = append(b, '\n')
			case "dot":
				data = []byte(g.ExportDOT())
			case "html":
				page, err := htmlPage(g)
				if err != nil {
					ui.Bad.Printf("  Export failed: %v\n", err)
					os.Exit(1)
				}
				data = []byte(page)
			default:
				ui.Bad.Printf("  Unknown format: %s (use json, dot, or html)\n", format)
				os.Exit(1)
			}

			if out == "" || out == "-" {
				os.Stdout.Write(data)
				return
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				ui.Bad.Printf("  Failed to write %s: %v\n", out, err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Wrote %s (%d nodes, %d links)\n", ui.StatusIcon(true), out, len(g.Nodes), len(g.Links))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, dot, or html")
	cmd.Flags().BoolVarP(&extended, "extended", "e", false, "Include projects and experience")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func htmlPage(g *graph.Graph) (string, error) {
	c := loadConfig()
	o := render.OptionsFromConfig(c.Render)
	sc := render.Settle(g, layout.FromConfig(c.Layout), o, layout.WithLogger(loadLogger()))
	page, err := render.NewHTMLRenderer()
	if err != nil {
		return "", err
	}
	return page.Render("Skill Graph", render.SVGBytes(sc, o), loadBuilder().Index(), g)
}
