package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mselser95/bracket-arb/internal/kalshi"
	"github.com/mselser95/bracket-arb/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var listSeriesCmd = &cobra.Command{
	Use:   "list-series",
	Short: "List the exchange's series catalog",
	Long:  `Fetches and displays the series catalog for debugging, independent of the scan loop.`,
	RunE:  runListSeries,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(listSeriesCmd)
}

func runListSeries(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	client, err := kalshi.NewClient(kalshi.Config{
		BaseURL:    cfg.Kalshi.BaseURL,
		RSAKeyPath: cfg.Kalshi.RSAKeyPath,
		APIKeyID:   cfg.APIKeyID,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("build exchange client: %w", err)
	}

	list, err := client.ListSeries(ctx)
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No series found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TICKER\tTITLE\tSTATUS\n")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Ticker, s.Title, s.Status)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d series\n", len(list))
	return nil
}
