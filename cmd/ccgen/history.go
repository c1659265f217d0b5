package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ccgen/internal/cli"
	"github.com/Veraticus/ccgen/internal/config"
	"github.com/Veraticus/ccgen/internal/engine"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage recently used BINs",
		Long: `Show or clear the BINs remembered from earlier runs. The most recent BIN
prefills the interactive form.`,
		RunE: runHistoryList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recently used BINs, most recent first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "last",
		Short: "Print the last used BIN",
		Args:  cobra.NoArgs,
		RunE:  runHistoryLast,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the history database location",
		Args:  cobra.NoArgs,
		RunE:  runHistoryPath,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget every remembered BIN",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClear,
	})

	return cmd
}

func historyOrchestrator(cmd *cobra.Command) (*engine.Orchestrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	store, err := initStorage(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	cleanup := func() { _ = store.Close() }
	return engine.New(nil, store), cleanup, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	o, cleanup, err := historyOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	bins, err := o.History(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(bins) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No BINs remembered yet"))
		return nil
	}
	for _, b := range bins {
		fmt.Fprintln(out, b)
	}
	return nil
}

func runHistoryLast(cmd *cobra.Command, _ []string) error {
	o, cleanup, err := historyOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if last := o.LastBIN(cmd.Context()); last != "" {
		fmt.Fprintln(cmd.OutOrStdout(), last)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	o, cleanup, err := historyOrchestrator(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := o.ClearHistory(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("BIN history cleared"))
	return nil
}

func runHistoryPath(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := initStorage(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	fmt.Fprintln(cmd.OutOrStdout(), store.Path())
	return nil
}
