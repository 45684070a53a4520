package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fertform"
	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/renderers/tui"
)

var (
	outputFormat string
	repeat       bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Fill in the form interactively in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runPrompt,
}

func init() {
	promptCmd.Flags().StringVarP(&outputFormat, "output", "o", string(tui.OutputFormatPretty), "Result format: pretty or json")
	promptCmd.Flags().BoolVar(&repeat, "repeat", false, "Offer another recommendation after each result")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	format := tui.OutputFormat(outputFormat)
	if format != tui.OutputFormatPretty && format != tui.OutputFormatJSON {
		return fmt.Errorf("unknown output format %q", outputFormat)
	}

	ctx, cancel := signalContext()
	defer cancel()

	client, err := newPredictor(ctx, cfg)
	if err != nil {
		return err
	}
	cat, err := fertform.LoadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	session, err := tui.New(client,
		tui.WithCatalog(cat),
		tui.WithOutput(cmd.OutOrStdout()),
		tui.WithOutputFormat(format),
		tui.WithRepeat(repeat),
		tui.WithSubmitLabel(cfg.Labels.Submit),
		tui.WithLogger(logger.Named("tui")),
		tui.WithControllerOptions(
			controller.WithBannerDelay(cfg.BannerDelay),
			controller.WithBusyLabel(cfg.Labels.Busy),
		),
	)
	if err != nil {
		return err
	}

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		return err
	}
	return nil
}
