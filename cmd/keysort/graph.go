package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/keysort/internal/presentation/graph"
	"github.com/aretw0/keysort/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the key as a Mermaid diagram",
	Long: `Builds the key and outputs a Mermaid diagram (graph TD).
With --label, the path those answers take through the key is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		labels, _ := cmd.Flags().GetStringToString("label")

		a, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.buildKey(cmd.Context())
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if len(labels) > 0 {
			id, err := res.Key.Identify(domain.LabelAnswers(labels))
			if err != nil && !errors.Is(err, domain.ErrMissingAnswer) && !errors.Is(err, domain.ErrNoMatch) {
				return err
			}
			overlay = graph.OverlayFrom(id)
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(res.Key, overlay))
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringToString("label", nil, "Highlight the path for trait=label answers (repeatable)")
}
