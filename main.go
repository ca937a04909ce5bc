package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"pricetrail/config"
	"pricetrail/helpers"
	"pricetrail/internal/plot"
	"pricetrail/internal/store"
	"pricetrail/internal/tracker"
	"pricetrail/logger"
	"pricetrail/pkg/errors"
	"pricetrail/services/publisher"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "track":
		err = runTrack(os.Args[2:])
	case "plot":
		err = runPlot(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	// Only unrecoverable setup failures reach here; per-keyword and
	// per-listing failures are contained inside the run
	if err != nil {
		log.Error().Err(err).Msg("Run aborted")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pricetrail <track|plot> [flags]")
	fmt.Fprintln(os.Stderr, "  track  scrape search results for each input keyword and append to the history CSV")
	fmt.Fprintln(os.Stderr, "  plot   render a price-history scatter for records matching a keyword")
}

// runTrack executes one tracking run over the input keyword list
func runTrack(args []string) error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	fs := flag.NewFlagSet("track", flag.ExitOnError)
	inputArg := fs.String("input", "products.csv", "CSV file of product keywords to track")
	outputArg := fs.String("output", "history.csv", "CSV file the price history is appended to")
	limitArg := fs.Int("limit", cfg.ResultLimit, "maximum listings recorded per keyword")
	limitProductsArg := fs.Int("limit-products", 0, "process at most this many input rows (0 = all)")
	fs.Parse(args)

	if *limitArg < 1 {
		return errors.NewConfiguration("-limit must be at least 1", nil)
	}

	helpers.SetTimeout(cfg.RequestTimeout)

	profile, err := tracker.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}

	queries, err := tracker.LoadQueries(*inputArg, *limitArg)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return errors.NewConfiguration("no keywords to track in "+*inputArg, nil)
	}
	if *limitProductsArg > 0 && len(queries) > *limitProductsArg {
		queries = queries[:*limitProductsArg]
	}

	log := logger.ForTracker()
	log.Info().
		Str("environment", cfg.Environment).
		Str("marketplace", profile.Name).
		Int("keywords", len(queries)).
		Int("limit", *limitArg).
		Msg("Starting tracking run")

	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		redisPub := publisher.NewRedisPublisher(
			context.Background(),
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLength,
		)
		defer redisPub.Close()
		pub = redisPub
		logger.ForPublisher().Info().
			Str("addr", cfg.RedisAddr).
			Str("stream", cfg.RedisStream).
			Msg("Publishing recorded rows to Redis")
	}

	delay := tracker.RandomDelay(cfg.DelayMin, cfg.DelayMax)
	if cfg.Delay > 0 {
		delay = tracker.FixedDelay(cfg.Delay)
	}

	t := tracker.New(
		tracker.NewPageFetcher(profile),
		tracker.NewListingParser(profile),
		store.NewCSVStore(*outputArg),
		pub,
		helpers.NewRunLogger(),
		delay,
	)

	summary := t.Run(queries)
	for _, r := range summary.Results {
		log.Info().
			Str("keyword", r.Keyword).
			Int("recorded", r.Recorded).
			Bool("failed", r.Err != nil).
			Msg("Keyword result")
	}
	log.Info().
		Str("run_id", summary.RunID).
		Int("recorded", summary.TotalRecorded()).
		Int("failed_keywords", summary.Failed()).
		Msg("Tracking run complete")

	if pub != nil {
		if err := pub.Trim(); err != nil {
			logger.LogError("publisher", err, "stream trim failed")
		}
	}

	// keywords yielding zero results or failing individually still exit 0
	return nil
}

// runPlot renders the price history for records matching a keyword
func runPlot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	inputArg := fs.String("input", "history.csv", "history CSV to read")
	keywordArg := fs.String("keyword", "", "keyword substring to filter on (required)")
	outArg := fs.String("out", "chart.png", "output image file")
	filteredArg := fs.String("filtered", "", "optional CSV file to write the matching rows to")
	fs.Parse(args)

	if *keywordArg == "" {
		return errors.NewConfiguration("-keyword is required for plot mode", nil)
	}

	log := logger.ForPlotter()

	records, err := store.NewCSVStore(*inputArg).ReadAll()
	if err != nil {
		return err
	}

	matched := plot.Filter(records, *keywordArg)
	if len(matched) == 0 {
		// reported, not fatal: an empty filter still exits cleanly
		log.Warn().
			Str("keyword", *keywordArg).
			Err(errors.NewNoData(*keywordArg)).
			Msg("Nothing to plot")
		return nil
	}

	if *filteredArg != "" {
		if err := store.Export(*filteredArg, matched); err != nil {
			return err
		}
		log.Info().Str("path", *filteredArg).Int("rows", len(matched)).Msg("Filtered rows written")
	}

	if err := plot.Render(matched, *keywordArg, *outArg); err != nil {
		return err
	}
	log.Info().
		Str("keyword", *keywordArg).
		Int("points", len(matched)).
		Str("path", *outArg).
		Msg("Chart rendered")
	return nil
}
