// Command cashflow-export renders the monthly cash-flow series as CSV, to
// stdout or a file, and can optionally push the same series to the Google
// Sheets ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"villabook/internal/cli"
	"villabook/internal/core"
	"villabook/internal/ledger/google"
	"villabook/internal/report"
	"villabook/internal/services"
)

func main() {
	var (
		fromFlag    = flag.String("from", "", "window start (YYYY-MM-DD, required)")
		toFlag      = flag.String("to", "", "window end (YYYY-MM-DD, required)")
		horizonFlag = flag.Int("horizon", -1, "projection months past the window (default from config)")
		outFlag     = flag.String("o", "", "output file (default stdout)")
		sheetsFlag  = flag.Bool("sheets", false, "also write the series to the Google Sheets ledger")
	)
	flag.Parse()

	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	from, err := parseDate(*fromFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from: %v\n", err)
		os.Exit(2)
	}
	to, err := parseDate(*toFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -to: %v\n", err)
		os.Exit(2)
	}
	horizon := *horizonFlag
	if horizon < 0 {
		horizon = cfg.ProjectionHorizonMonths
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx := context.Background()
	reports := services.NewReportService(repo)
	buckets, err := reports.CashFlow(ctx, core.NewDateRange(from, to), horizon)
	if err != nil {
		logger.Error("Failed to build cash-flow series", "error", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			logger.Error("Failed to create output file", "error", err, "path", *outFlag)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := report.WriteCSV(out, buckets); err != nil {
		logger.Error("Failed to write CSV", "error", err)
		os.Exit(1)
	}

	if *sheetsFlag {
		client, err := google.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets ledger", "error", err)
			os.Exit(1)
		}
		if err := client.WriteCashFlow(ctx, buckets); err != nil {
			logger.Error("Failed to write cash flow to ledger", "error", err)
			os.Exit(1)
		}
		logger.Info("Cash flow written to ledger", "buckets", len(buckets))
	}
}

func parseDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, fmt.Errorf("missing date")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}
