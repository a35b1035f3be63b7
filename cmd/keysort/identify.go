package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/keysort"
	"github.com/aretw0/keysort/internal/presentation/tui"
	"github.com/aretw0/keysort/pkg/domain"
	"github.com/aretw0/keysort/pkg/runner"
)

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Identify an item interactively",
	Long: `Builds the key and walks it by asking one trait question at a time.
Answers are read line by line from standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")

		a, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := a.buildKey(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		opts := []runner.Option{
			runner.WithIO(cmd.InOrStdin(), out),
			runner.WithLogger(a.logger),
		}
		if isTerminal(out) {
			render, err := tui.NewRenderer(terminalWidth(out))
			if err != nil {
				return err
			}
			opts = append(opts,
				runner.WithRenderer(render),
				runner.WithPromptStyle(func(q string) string { return tui.Prompt(out, q) }),
			)
		}
		if !quiet {
			tui.PrintBanner(out, keysort.Version)
		}

		_, err = runner.New(opts...).Run(ctx, res.Key)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			a.logger.Debug("identification interrupted", "err", err)
			return nil
		case errors.Is(err, domain.ErrNoMatch):
			// already reported by the runner
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(identifyCmd)
	identifyCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
