package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vehicle-reconciler/config"
	"vehicle-reconciler/observability"
	"vehicle-reconciler/scraper/marketplace"
	"vehicle-reconciler/services"
	"vehicle-reconciler/storage"
	"vehicle-reconciler/transport"
	"vehicle-reconciler/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vehicle-reconciler",
		Short: "Reconcile dealer inventory against live marketplace listings",
		Long: "vehicle-reconciler checks a dealer inventory file against the AutoTrader\n" +
			"and Carsguide listing APIs, reporting a match status and any field\n" +
			"discrepancies per vehicle.",
		SilenceUsage: true,
	}
	root.AddCommand(newBatchCmd(), newLookupCmd())
	return root
}

func newBatchCmd() *cobra.Command {
	var (
		input   string
		output  string
		saveRaw bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Check every record of an inventory CSV against both providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("processed_cars_%s.csv", time.Now().Format("20060102_150405"))
			}
			return runBatch(input, output, saveRaw, verbose)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "path to the inventory CSV file")
	cmd.Flags().StringVar(&output, "output", "", "output CSV path (default processed_cars_<timestamp>.csv)")
	cmd.Flags().BoolVar(&saveRaw, "save-raw", false, "save raw provider responses as JSON files")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newLookupCmd() *cobra.Command {
	var (
		stockNo  string
		provider string
		makeHint string
		dealerID string
		saveRaw  bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up a single stock number against one or both providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(stockNo, provider, makeHint, dealerID, saveRaw, verbose)
		},
	}

	cmd.Flags().StringVar(&stockNo, "stock-no", "", "stock number to search for")
	cmd.Flags().StringVar(&provider, "provider", "both", "provider to search: autotrader, carsguide or both")
	cmd.Flags().StringVar(&makeHint, "make", "", "vehicle make (helps with Carsguide search accuracy)")
	cmd.Flags().StringVar(&dealerID, "dealer-id", "", "dealer ID to filter by (default from config)")
	cmd.Flags().BoolVar(&saveRaw, "save-raw", false, "save raw provider responses as JSON files")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	_ = cmd.MarkFlagRequired("stock-no")

	return cmd
}

func runBatch(input, output string, saveRaw, verbose bool) error {
	logger := utils.NewLogger()
	logger.SetVerbose(verbose)
	cfg := config.Load()

	if cfg.MetricsPort != "" {
		observability.Start(cfg.MetricsPort)
	}

	records, headers, err := storage.ReadRecords(input)
	if err != nil {
		return err
	}
	logger.Info("Loaded %d records from %s", len(records), input)

	clients, names := buildClients(cfg, logger)

	orchestrator := services.NewOrchestrator(clients, services.NewReconciler(logger), cfg, logger)
	if saveRaw {
		orchestrator.SetRawWriter(storage.NewJSONWriter(cfg.RawSaveDir, logger))
	}

	logger.Info("Searching both AutoTrader and Carsguide for all vehicles...")
	orchestrator.Run(records)

	csvWriter := storage.NewCSVWriter(output, headers, names)
	if err := csvWriter.Write(records); err != nil {
		return err
	}
	logger.Info("Results saved to %s", output)

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), names)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			defer pgWriter.Close()
			if err := pgWriter.Write(records); err != nil {
				logger.Error("PostgreSQL write failed: %v", err)
			} else {
				logger.Info("Results stored in PostgreSQL (table: reconciliation_results)")
			}
		}
	}

	summarySvc := services.NewSummaryService(logger)
	summarySvc.Print(summarySvc.Generate(records, names))

	fmt.Printf("\nOutput saved to: %s\n", output)
	return nil
}

func runLookup(stockNo, provider, makeHint, dealerID string, saveRaw, verbose bool) error {
	logger := utils.NewLogger()
	logger.SetVerbose(verbose)
	cfg := config.Load()
	if dealerID != "" {
		cfg.DealerID = dealerID
	}

	clients, _ := buildClients(cfg, logger)

	var selected []services.Searcher
	for _, c := range clients {
		if provider == "both" || strings.EqualFold(provider, c.Name()) {
			selected = append(selected, c)
		}
	}
	if len(selected) == 0 {
		return fmt.Errorf("unknown provider %q (want autotrader, carsguide or both)", provider)
	}

	var rawWriter storage.RawResponseWriter
	if saveRaw {
		rawWriter = storage.NewJSONWriter(cfg.RawSaveDir, logger)
	}

	logger.Info("Searching for stock number: %s with dealer ID: %s", stockNo, cfg.DealerID)

	for _, c := range selected {
		sep := strings.Repeat("=", 60)
		fmt.Printf("\n%s\nSEARCHING %s\n%s\n", sep, strings.ToUpper(c.Name()), sep)

		resp, err := c.Search(stockNo, makeHint, nil)
		if err != nil {
			logger.Error("Failed to retrieve %s data: %v", c.Name(), err)
			fmt.Printf("No vehicle found in %s or API error occurred\n", c.Name())
			continue
		}
		if resp.Empty() {
			fmt.Printf("No vehicle found in %s or API error occurred\n", c.Name())
			continue
		}

		if rawWriter != nil {
			if err := rawWriter.SaveRaw(c.Name(), stockNo, resp); err != nil {
				logger.Error("Failed to save raw %s response: %v", c.Name(), err)
			}
		}

		fmt.Println(services.FormatListingDetails(resp.First(), c.Name()))
	}
	return nil
}

// buildClients constructs the provider clients in query order, sharing one
// transport session for the whole run.
func buildClients(cfg *config.Config, logger *utils.Logger) ([]services.Searcher, []string) {
	session := transport.New(cfg, logger)

	clients := []services.Searcher{
		marketplace.New(marketplace.Autotrader(cfg), session, cfg, logger),
		marketplace.New(marketplace.Carsguide(cfg), session, cfg, logger),
	}
	names := make([]string, len(clients))
	for i, c := range clients {
		names[i] = c.Name()
	}
	return clients, names
}
