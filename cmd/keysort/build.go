package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/keysort/internal/presentation/outline"
	"github.com/aretw0/keysort/internal/presentation/tui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the key and print it",
	Long: `Loads traits and items, builds the dichotomous key (or reuses a cached one)
and prints it as an indented outline, Markdown or JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		a, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.buildKey(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case "text":
			return outline.Render(out, res.Key)
		case "markdown":
			md := outline.Markdown(res.Key)
			if isTerminal(out) {
				render, err := tui.NewRenderer(terminalWidth(out))
				if err != nil {
					return err
				}
				if md, err = render(md); err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(out, md)
			return err
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Key)
		}
		return fmt.Errorf("unknown format %q (text, markdown, json)", format)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("format", "f", "text", "Output format: text, markdown or json")
}
