package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/keysort"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of keysort",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "keysort version %s\n", strings.TrimSpace(keysort.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
