package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/msalah0e/skillgraph/internal/logging"
	"github.com/msalah0e/skillgraph/internal/tui"
	"github.com/msalah0e/skillgraph/internal/ui"
	"github.com/spf13/cobra"
)

func exploreCmd() *cobra.Command {
	var extended bool

	cmd := &cobra.Command{
		Use:     "explore",
		Aliases: []string{"ui", "tui"},
		Short:   "Explore the graph interactively in the terminal",
		Long: `Open the interactive graph. Click or hover nodes with the mouse,
or cycle them with n/p and select with enter.

  + -    zoom          [ ]    spacing
  l      labels        e      projects & experience
  f      fullscreen    r      reset view
  d      details tab   esc    close panel
  ?      help          q      quit`,
		Run: func(cmd *cobra.Command, args []string) {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				ui.Bad.Println("  explore needs a terminal; try `skillgraph render -f cells`")
				os.Exit(1)
			}

			c := loadConfig()
			if cmd.Flags().Changed("extended") {
				c.View.ShowExtended = extended
			}
			// Keep log lines off the canvas.
			logger = logging.FileOnly(c.Log)

			m := tui.New(loadBuilder(), c, logger, nil)
			p := tea.NewProgram(m, tea.WithMouseCellMotion())
			if _, err := p.Run(); err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			fmt.Println()
		},
	}

	cmd.Flags().BoolVarP(&extended, "extended", "e", false, "Start with projects and experience shown")
	return cmd
}
