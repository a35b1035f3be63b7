package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/keysort/internal/runtime"
	"github.com/aretw0/keysort/pkg/domain"
	"github.com/aretw0/keysort/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check traits and items for consistency",
	Long: `Checks every trait and item field by field, then builds the key to catch
problems that only show up while partitioning (such as a trait recorded for
some items of a group but not for others).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if err := a.engine.Validate(cmd.Context()); err != nil {
			reportValidation(out, err)
			return errors.New("validation failed")
		}

		res, err := a.buildKey(cmd.Context())
		if err != nil {
			reportBuild(out, err)
			return errors.New("validation failed")
		}

		fmt.Fprintf(out, "Key is valid! %s\n", runtime.Describe(res.Key))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func reportValidation(w io.Writer, err error) {
	problems := schema.ValidationErrors(err)
	if len(problems) == 0 {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	for _, p := range problems {
		fmt.Fprintf(w, "  - %v\n", p)
	}
}

func reportBuild(w io.Writer, err error) {
	var be *domain.BuildError
	if !errors.As(err, &be) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Build failed at node %d: %v\n", be.NodeID, be)
	if len(be.Present) > 0 {
		fmt.Fprintf(w, "  recorded for: %v\n", be.Present)
	}
	if len(be.Absent) > 0 {
		fmt.Fprintf(w, "  missing for:  %v\n", be.Absent)
	}
}
