package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "bracket-arb",
	Short: "Kalshi bracket arbitrage bot",
	Long: `Scans Kalshi's mutually-exclusive bracket events for Dutch-book
arbitrage: buying YES across every bracket (LONG) or selling YES
across every bracket (SHORT) for a combined cost or proceeds that
clears an exchange fee and profit floor, regardless of which bracket
resolves.

Configuration is read from config.toml in the working directory; see
the [scanner], [risk], [kalshi], [storage], and [status] sections.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
