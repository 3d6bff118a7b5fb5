package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/msalah0e/skillgraph/internal/metrics"
	"github.com/msalah0e/skillgraph/internal/server"
	"github.com/msalah0e/skillgraph/internal/ui"
	"github.com/spf13/cobra"
)

// serveAddr picks the listen address: --addr, then SKILLGRAPH_ADDR, then
// PORT, then the config file.
func serveAddr(flag, configured string) string {
	if flag != "" {
		return flag
	}
	if addr := os.Getenv("SKILLGRAPH_ADDR"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return configured
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview page, snapshots and the graph API",
		Long: `Start an HTTP server for previewing the widget.

  GET /                     rendered page (?extended, ?selected, ?labels, ?spacing, ?zoom; rate limited)
  GET /graph.svg            SVG snapshot (same parameters, rate limited)
  GET /graph.png            PNG snapshot (same parameters, rate limited)
  GET /api/graph            nodes and links as JSON
  GET /api/nodes/:id        detail panel as JSON
  GET /api/search?q=        node search
  GET /metrics              Prometheus metrics
  GET /healthz              liveness

The address comes from --addr, SKILLGRAPH_ADDR, PORT (a .env file is read),
or [serve] addr in the config.`,
		Run: func(cmd *cobra.Command, args []string) {
			c := loadConfig()
			log := loadLogger()

			srv, err := server.New(loadBuilder(), c, log, metrics.New())
			if err != nil {
				ui.Bad.Printf("  Failed to start: %v\n", err)
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			listen := serveAddr(addr, c.Serve.Addr)
			ui.Banner("preview server")
			ui.Info.Printf("  Listening on %s\n", listen)
			ui.Subtle.Println("  Ctrl-C to stop")

			if err := srv.Run(ctx, listen); err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Stopped\n", ui.StatusIcon(true))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (e.g. :8080)")
	return cmd
}
