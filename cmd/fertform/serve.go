package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-fertform"
	"github.com/goliatone/go-fertform/internal/metrics"
	"github.com/goliatone/go-fertform/internal/server"
	"github.com/goliatone/go-fertform/pkg/renderers/page"
)

var (
	listen       string
	waitUpstream time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the form as a web page",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides config)")
	serveCmd.Flags().DurationVar(&waitUpstream, "wait-upstream", 0, "Wait up to this long for the prediction service before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	if listen != "" {
		cfg.Listen = listen
	}

	ctx, cancel := signalContext()
	defer cancel()

	if waitUpstream > 0 {
		if err := server.WaitForUpstream(ctx, cfg.Endpoint, server.WaitOptions{
			MaxElapsed: waitUpstream,
			Logger:     logger,
		}); err != nil {
			return err
		}
	}

	client, err := newPredictor(ctx, cfg)
	if err != nil {
		return err
	}
	cat, err := fertform.LoadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	renderer, err := page.New(
		page.WithCatalog(cat),
		page.WithTheme(cfg.RendererTheme()),
		page.WithStylesheet(server.StylesheetURL),
		page.WithBannerDelay(cfg.BannerDelay),
	)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Predictor:   client,
		Page:        renderer,
		Catalog:     cat,
		Logger:      logger.Named("server"),
		Metrics:     metrics.New(),
		SubmitLabel: cfg.Labels.Submit,
		BusyLabel:   cfg.Labels.Busy,
		BannerDelay: cfg.BannerDelay,
	})
	if err != nil {
		return err
	}

	logger.Info("serving form", zap.String("endpoint", client.Endpoint()))
	return srv.Run(ctx, cfg.Listen)
}
