package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ccgen/internal/cli"
	"github.com/Veraticus/ccgen/internal/config"
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/service"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [bin]",
		Short: "Generate cards for a BIN",
		Long: `Generate test cards for a BIN and print them in the chosen format.

The BIN may be given as an argument or with --bin; non-digits are ignored and
at least 6 digits are required. Every card gets a CVC of the length its
network uses unless --cvc pins one.

Examples:
  ccgen generate 453201                 # 10 Visa cards, pipe format
  ccgen generate 371449 -n 25 -f json   # 25 Amex cards as JSON
  ccgen generate 453201 --month 07 --year 2030 --cvc 123
  ccgen generate 453201 --currency USD --balance 500-1000 -f csv
  ccgen generate 453201 --batches 4 --out cards.txt --copy`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}

	// Flags
	cmd.Flags().String("bin", "", "BIN prefix (at least 6 digits)")
	cmd.Flags().IntP("quantity", "n", 0, "cards per request, 1-50 (default from config)")
	cmd.Flags().StringP("format", "f", "", "output format: pipe, csv, sql, json, xml")
	cmd.Flags().String("month", "", "expiry month (01-12, blank for random)")
	cmd.Flags().String("year", "", "expiry year (blank for random)")
	cmd.Flags().String("cvc", "", "pin every card to this CVC")
	cmd.Flags().String("currency", "", "currency annotation, used together with --balance")
	cmd.Flags().String("balance", "", "balance annotation (default from config when --currency is set)")
	cmd.Flags().Bool("no-date", false, "let the API pick expiry dates even if --month/--year are set")
	cmd.Flags().Int("batches", 1, "number of requests to make")
	cmd.Flags().Bool("copy", false, "copy the output to the clipboard")
	cmd.Flags().StringP("out", "o", "", "write the output to a file instead of stdout")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	req, err := generateRequest(cmd, args, cfg)
	if err != nil {
		return err
	}

	var opts []engine.Option
	if req.Batches > 1 {
		progress := cli.NewBatchProgress(cmd.ErrOrStderr(), req.Batches)
		opts = append(opts, engine.WithProgress(progress.Step))
	}
	notifier := cli.NewToastNotifier(cmd.ErrOrStderr())
	opts = append(opts, engine.WithClipboard(cli.SystemClipboard{}), engine.WithNotifier(notifier))

	o, cleanup := newOrchestrator(ctx, cfg, opts...)
	defer cleanup()

	result, err := o.Generate(ctx, req)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := os.WriteFile(out, []byte(result.Output+"\n"), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		notifier.Notify(service.NotifyInfo, fmt.Sprintf("Wrote %d cards to %s", len(result.Records), out))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), result.Output)
	}

	if copyOut, _ := cmd.Flags().GetBool("copy"); copyOut {
		if !cli.ClipboardAvailable() {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("No clipboard available, skipping --copy."))
			return nil
		}
		// Copy reports its own outcome through the notifier.
		_ = o.Copy(ctx, result.Output)
	}
	return nil
}

// generateRequest maps flags onto an engine request, filling gaps from cfg.
func generateRequest(cmd *cobra.Command, args []string, cfg *config.Config) (engine.Request, error) {
	flags := cmd.Flags()

	binValue, _ := flags.GetString("bin")
	if len(args) > 0 {
		if binValue != "" && binValue != args[0] {
			return engine.Request{}, fmt.Errorf("BIN given twice: %q and %q", args[0], binValue)
		}
		binValue = args[0]
	}

	quantity, _ := flags.GetInt("quantity")
	if !flags.Changed("quantity") {
		quantity = cfg.Defaults.Quantity
	}

	format := cfg.Defaults.Format
	if f, _ := flags.GetString("format"); f != "" {
		format = formatter.Tag(strings.ToLower(strings.TrimSpace(f)))
	}

	month, _ := flags.GetString("month")
	year, _ := flags.GetString("year")
	noDate, _ := flags.GetBool("no-date")
	cvc, _ := flags.GetString("cvc")
	currency, _ := flags.GetString("currency")
	balance, _ := flags.GetString("balance")
	if balance == "" {
		balance = cfg.Defaults.Balance
	}
	batches, _ := flags.GetInt("batches")

	return engine.Request{
		BIN:          binValue,
		Quantity:     quantity,
		Format:       format,
		Month:        month,
		Year:         year,
		CVC:          cvc,
		Currency:     currency,
		Balance:      balance,
		Batches:      batches,
		DateEnabled:  !noDate,
		CVCEnabled:   cvc != "",
		MoneyEnabled: strings.TrimSpace(currency) != "",
	}, nil
}
