package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/model"
)

func formatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [file|-]",
		Short: "Re-render a saved card document",
		Long: `Read a {"cards": [...]} JSON document, as returned by the generation API,
and render it in another format. Reads stdin when no file or "-" is given.

Examples:
  ccgen format cards.json -f csv
  curl -s "$URL" | ccgen format -f sql --currency USD --balance 100-200`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFormat,
	}

	cmd.Flags().StringP("format", "f", string(formatter.Pipe), "output format: pipe, csv, sql, json, xml")
	cmd.Flags().String("currency", "", "currency annotation, used together with --balance")
	cmd.Flags().String("balance", "", "balance annotation, used together with --currency")

	return cmd
}

func runFormat(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	var doc model.GenerateResponse
	if err := json.NewDecoder(in).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode card document: %w", err)
	}

	tag, _ := cmd.Flags().GetString("format")
	currency, _ := cmd.Flags().GetString("currency")
	balance, _ := cmd.Flags().GetString("balance")

	out := formatter.Format(doc.Cards, tag, &model.Money{Currency: currency, Balance: balance})
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
