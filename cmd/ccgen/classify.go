package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ccgen/internal/cli"
	"github.com/Veraticus/ccgen/internal/engine"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <bin>...",
		Short: "Show the network and CVC length for BINs",
		Long: `Detect the card network and CVC length for one or more BIN prefixes.

Examples:
  ccgen classify 453201
  ccgen classify 371449 6011 5555 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().Bool("json", false, "print results as JSON")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	o := engine.New(nil, nil)

	results := make([]engine.ClassifyResult, len(args))
	for i, arg := range args {
		results[i] = o.Classify(arg)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		lines := []string{
			cli.FormatField("Network", r.Classification.Network.String()),
			cli.FormatField("CVC length", strconv.Itoa(r.Classification.CVCLength)),
			cli.FormatField("CVC hint", r.Hint),
		}
		if r.Mask != r.BIN {
			lines = append(lines, cli.FormatField("Pattern", r.Mask))
		}
		fmt.Fprintln(out, cli.RenderBox(cli.CardIcon+" "+r.BIN, strings.Join(lines, "\n")))
	}
	return nil
}
