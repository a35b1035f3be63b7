package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keysort",
	Short: "Keysort builds dichotomous identification keys",
	Long: `Keysort turns a list of binary traits and a set of described items into a
dichotomous key: a tree of yes/no questions that separates every item.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Project file (defaults to ./keysort.yaml when present)")
	flags.String("traits", "", "Traits file (JSON or YAML)")
	flags.String("items", "", "Items file (JSON or YAML)")
	flags.String("items-dir", "", "Directory of Markdown items (overrides --items)")
	flags.Bool("strict", false, "Fail when items remain unseparated after the last trait")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("store", "", "Key cache: none, memory, file, redis")
}
