package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/export"
	"github.com/tutejaLucky/docExtract/internal/extract/docstrange"
	"github.com/tutejaLucky/docExtract/internal/pipeline"
	"github.com/tutejaLucky/docExtract/internal/reconcile"
	repo "github.com/tutejaLucky/docExtract/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file = flag.String("file", "", "purchase order PDF to extract (required)")
		po   = flag.String("po", "", "PO number to reconcile (optional, defaults to the extracted one)")
		out  = flag.String("out", "", "output directory (optional, defaults to OUTPUT_DIR)")
	)
	flag.Parse()

	if *file == "" {
		printError("Error: --file is required\n")
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}
	if *out != "" {
		cfg.OutputDir = *out
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr so stdout carries only the JSON response.
	logger := common.NewLogger(cfg.Log, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	var reconciler pipeline.Reconciler
	if cfg.ReconcileEnabled() {
		store, err := repo.Open(ctx, repo.ConfigFrom(cfg.Database), logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close(logger)
		reconciler = reconcile.NewEngine(logger, reconcile.NewSQLSource(store.DB), store.Dialect)
	}

	extractor := docstrange.NewClient(docstrange.Config{
		BaseURL: cfg.Extractor.BaseURL,
		APIKey:  cfg.Extractor.APIKey,
		Timeout: cfg.Extractor.Timeout,
	}, logger)
	processor := pipeline.NewProcessor(
		logger,
		pipeline.NewScanner(logger, extractor, cfg.Extractor.Timeout),
		export.NewWriter(logger),
		reconciler,
		cfg.OutputDir,
		cfg.AutoReconcile,
	)

	start := time.Now()
	sub, err := processor.Submit(ctx, pipeline.SubmitRequest{Path: *file, PONumber: *po})
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sub.Response()); err != nil {
		printError("Error: encode response: %v\n", err)
		os.Exit(1)
	}
	logger.Info("poscan.done",
		"strategy", sub.Scan.Strategy,
		"json", sub.Exports.JSON,
		"csv", sub.Exports.CSV,
		"xlsx", sub.Exports.XLSX,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}
