// intentctl classifies chat commands offline. It is the quickest way to
// check how a phrase table change affects real user input.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intentctl",
	Short: "Inspect and tune chat intent phrase tables",
	Long: `intentctl runs the chat intent matcher outside the server.

Classify text given as arguments or one line per stdin line, list the
built-in locales, or dump a table as YAML to start a custom one.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newClassifyCmd(), newTablesCmd(), newDumpCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
