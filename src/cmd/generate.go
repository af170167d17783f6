package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/username/criptofolio/src/config"
	"github.com/username/criptofolio/src/database"
	"github.com/username/criptofolio/src/kraken"
	"github.com/username/criptofolio/src/logger"
	"github.com/username/criptofolio/src/processors"
	"github.com/username/criptofolio/src/rates"
	"github.com/username/criptofolio/src/report"
	"github.com/username/criptofolio/src/utils"
)

var (
	generateYear   int
	generateMonth  int
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the declaration file for one calendar month",
	RunE:  runGenerate,
}

func init() {
	now := time.Now().UTC()
	generateCmd.Flags().IntVar(&generateYear, "year", now.Year(), "year of the declaration period")
	generateCmd.Flags().IntVar(&generateMonth, "month", int(now.Month()), "month of the declaration period (1-12)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "declaration.txt", "path of the generated declaration file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Cfg

	firstDay, lastDay, err := utils.MonthRange(generateYear, generateMonth)
	if err != nil {
		return err
	}
	// Kraken filters on unix timestamps, so the window runs to the last
	// second of the month.
	periodEnd := lastDay.Add(24*time.Hour - time.Second)

	logger.L.Info("Generating declaration",
		"year", generateYear, "month", generateMonth, "output", generateOutput)

	database.InitDB(cfg.RatesDBPath)
	defer database.DB.Close()

	pairs, err := loadPairTable(cfg.PairsDataPath)
	if err != nil {
		return fmt.Errorf("loading pair table: %w", err)
	}

	client, err := kraken.NewClient(cfg.KrakenAPIKey, cfg.KrakenAPISecret, cfg.KrakenAPIBaseURL, cfg.HTTPTimeout)
	if err != nil {
		return err
	}

	deposits, withdrawals, trades, err := client.FetchActivity(cmd.Context(), firstDay, periodEnd)
	if err != nil {
		return fmt.Errorf("fetching kraken activity: %w", err)
	}

	rateService := rates.NewService(
		rates.NewBCBClient(cfg.BCBAPIBaseURL, cfg.HTTPTimeout),
		rates.NewCoinGeckoClient(cfg.CoinGeckoAPIBaseURL, cfg.CoinGeckoAPIKey, cfg.HTTPTimeout),
		rates.NewStore(database.DB),
	)

	exchange := report.ExchangeInfo{
		Name:    cfg.ExchangeName,
		URL:     cfg.ExchangeURL,
		Country: cfg.ExchangeCountry,
	}
	classifier := processors.NewActivityClassifier(rateService, pairs, exchange)

	transactions, err := classifier.Classify(deposits, withdrawals, trades)
	if err != nil {
		return fmt.Errorf("classifying activity: %w", err)
	}

	if err := report.GenerateReport(transactions, generateOutput); err != nil {
		return err
	}

	logger.L.Info("Declaration complete",
		"records", len(transactions),
		"purchaseTotalBRL", purchaseTotal(transactions).StringFixed(2))
	return nil
}

func loadPairTable(path string) (*kraken.PairTable, error) {
	if path != "" {
		return kraken.LoadPairTableFromDir(path)
	}
	return kraken.LoadEmbeddedPairTable()
}

// purchaseTotal sums the declared value of all purchase records, a quick
// check against the exemption threshold for the month.
func purchaseTotal(transactions []report.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if p, ok := t.(*report.PurchaseTransaction); ok {
			total = total.Add(p.OperationValue)
		}
	}
	return total
}
