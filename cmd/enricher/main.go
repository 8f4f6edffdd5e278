package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/harborline/vessel-enricher/internal/app"
	"github.com/harborline/vessel-enricher/internal/config"
	"github.com/harborline/vessel-enricher/internal/enrich"
	"github.com/harborline/vessel-enricher/internal/enrich/gemini"
	"github.com/harborline/vessel-enricher/internal/enrich/sonar"
	"github.com/harborline/vessel-enricher/internal/util"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	case "run":
		os.Exit(run(ctx, os.Args[2:]))
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string) int {
	// Pick up a local .env before reading any configuration.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "YAML config file path (optional)")
	inputPath := fs.String("input", "", "Input bill-of-lading CSV (env: ENRICHER_INPUT)")
	outputPath := fs.String("output", "", "Output CSV path; default embeds the UTC date (env: ENRICHER_OUTPUT)")
	backend := fs.String("backend", "", "Lookup backend: sonar or gemini (env: ENRICHER_BACKEND)")
	model := fs.String("model", "", "Lookup model name (env: ENRICHER_MODEL)")
	rowLimit := fs.String("row-limit", "", `Input row cap, ":all" for unbounded (env: ENRICHER_ROW_LIMIT)`)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}
	overrideIfSet(&cfg.Input, *inputPath)
	overrideIfSet(&cfg.Output, *outputPath)
	overrideIfSet(&cfg.Backend, *backend)
	overrideIfSet(&cfg.Model, *model)
	overrideIfSet(&cfg.RowLimit, *rowLimit)

	querier, err := newQuerier(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "lookup config error: %s\n", util.RedactSecrets(err.Error()))
		return 2
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	n, err := app.Run(ctx, cfg, querier, logger)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "run failed: %s\n", util.RedactSecrets(err.Error()))
		return 1
	}
	fmt.Printf("wrote %d enriched vessel rows\n", n)
	return 0
}

func newQuerier(ctx context.Context, cfg config.Config) (enrich.Querier, error) {
	switch cfg.Backend {
	case "gemini":
		return gemini.New(ctx, gemini.Config{
			APIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
		})
	default:
		return sonar.New(sonar.Config{
			APIKey:            strings.TrimSpace(os.Getenv("SONAR_API_KEY")),
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			Temperature:       cfg.Temperature,
			SearchContextSize: cfg.SearchContextSize,
		})
	}
}

func overrideIfSet(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func usage(w *os.File) {
	_, _ = fmt.Fprintf(w, `enricher: vessel provenance enrichment for bill-of-lading CSV exports

Usage:
  enricher <command> [flags]

Commands:
  run   Read the input CSV, enrich unique vessels, write the dated output CSV

Examples:
  enricher run --input bol_export.csv
  enricher run --config enricher.yaml --row-limit 50

Environment:
  SONAR_API_KEY       Bearer token for the sonar backend (required for sonar)
  GEMINI_API_KEY      API key for the gemini backend (required for gemini)
  ENRICHER_BACKEND    sonar (default) or gemini
  ENRICHER_MODEL      Lookup model name
  ENRICHER_BASE_URL   Endpoint override (proxies/testing)
  ENRICHER_INPUT      Input CSV path
  ENRICHER_OUTPUT     Output CSV path
  ENRICHER_ROW_LIMIT  Input row cap, ":all" for unbounded

A .env file in the working directory is loaded before reading configuration.

`)
}
