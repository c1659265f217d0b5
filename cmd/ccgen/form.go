package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ccgen/internal/cli"
	"github.com/Veraticus/ccgen/internal/config"
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/tui"
	"github.com/Veraticus/ccgen/internal/tui/themes"
)

func formCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Open the interactive generator form",
		Long: `Open a terminal form with the same fields as the web generator: BIN,
quantity, format, expiry, CVC and money annotations.

Keys: ctrl+g generate, ctrl+y copy, ctrl+f cycle format, ctrl+r reset,
ctrl+p recall a previous BIN, f1 help, esc quit.`,
		Args: cobra.NoArgs,
		RunE: runForm,
	}

	cmd.Flags().Bool("plain", false, "disable colors (also enabled by NO_COLOR)")

	return cmd
}

func runForm(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	o, cleanup := newOrchestrator(ctx, cfg, engine.WithClipboard(cli.SystemClipboard{}))
	defer cleanup()

	theme := themes.ForEnv(os.LookupEnv)
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		theme = themes.Plain
	}

	return tui.Run(ctx,
		tui.WithOrchestrator(o),
		tui.WithDefaults(cfg.Defaults.Quantity, cfg.Defaults.Format, cfg.Defaults.Balance),
		tui.WithTheme(theme),
	)
}
