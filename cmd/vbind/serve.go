package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/pkg/metrics"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr        string
		withMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the template",
		Long: `Serve the bound template over HTTP. Each browser tab gets its
own view model; events and v-model edits travel over a WebSocket
and the bound root is re-rendered after every change.

Examples:
  vbind serve
  vbind serve --addr 0.0.0.0:8080 --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, flags)
			if err != nil {
				return err
			}
			if addr != "" {
				p.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("metrics") {
				p.cfg.Server.Metrics = withMetrics
			}

			// Fail fast on a broken template instead of on first request.
			if _, err := p.mount(cmd.Context(), nil); err != nil {
				return err
			}

			config := server.Config{
				Addr:   p.cfg.Server.Addr,
				Render: render.RendererConfig{Pretty: p.cfg.Render.Pretty},
				Logger: p.logger,
			}
			var m *metrics.Metrics
			if p.cfg.Server.Metrics {
				reg := prometheus.NewRegistry()
				m = metrics.New(metrics.WithRegistry(reg))
				config.Metrics = m
				config.Gatherer = reg
			}
			config.Mount = func(ctx context.Context) (*server.Page, error) {
				return p.mount(ctx, m)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printBanner(cmd)
			info(cmd, "serving %s", p.cfg.TemplatePath())
			info(cmd, "http://%s", p.cfg.Server.Addr)
			return server.New(config).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Expose /metrics (overrides config)")

	return cmd
}
