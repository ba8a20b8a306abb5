// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/stallcast/internal/config"
	"github.com/tomtom215/stallcast/internal/database"
	"github.com/tomtom215/stallcast/internal/fallback"
	"github.com/tomtom215/stallcast/internal/features"
	"github.com/tomtom215/stallcast/internal/logging"
	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/recommend"
	"github.com/tomtom215/stallcast/internal/recommend/storage"
	"github.com/tomtom215/stallcast/internal/training"
	"github.com/tomtom215/stallcast/internal/venue"
)

// options are the parsed command line flags.
type options struct {
	vendorID   uuid.UUID
	productID  *uuid.UUID
	venueID    *uuid.UUID
	marketDate time.Time
	limit      int
	train      bool
	weather    *models.WeatherData
	event      *models.EventData
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	var (
		vendor     = fs.String("vendor", "", "vendor ID (required)")
		product    = fs.String("product", "", "single product ID; all active products when empty")
		venueFlag  = fs.String("venue", "", "venue ID")
		date       = fs.String("date", "", "market date, YYYY-MM-DD")
		limit      = fs.Int("limit", 0, "maximum products in a batch; 0 uses recommend.default_batch_limit")
		train      = fs.Bool("train", false, "train the vendor's baseline model from sales instead")
		temp       = fs.Float64("temp", 0, "forecast temperature in F")
		condition  = fs.String("condition", "", "forecast condition, e.g. sunny or rain")
		attendance = fs.Int("attendance", 0, "expected event attendance")
		special    = fs.Bool("special", false, "market day has a special event")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var opts options
	var err error
	if opts.vendorID, err = uuid.Parse(*vendor); err != nil {
		return options{}, fmt.Errorf("-vendor: %w", err)
	}
	opts.train = *train
	opts.limit = *limit
	if opts.train {
		return opts, nil
	}

	if opts.marketDate, err = time.Parse(time.DateOnly, *date); err != nil {
		return options{}, fmt.Errorf("-date: %w", err)
	}
	if opts.productID, err = optionalUUID(*product); err != nil {
		return options{}, fmt.Errorf("-product: %w", err)
	}
	if opts.venueID, err = optionalUUID(*venueFlag); err != nil {
		return options{}, fmt.Errorf("-venue: %w", err)
	}

	// Only flags given explicitly become context.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "temp":
			opts.weatherData().TempF = temp
		case "condition":
			opts.weatherData().Condition = *condition
		case "attendance":
			opts.eventData().ExpectedAttendance = attendance
		case "special":
			opts.eventData().IsSpecial = *special
		}
	})
	return opts, nil
}

func (o *options) weatherData() *models.WeatherData {
	if o.weather == nil {
		o.weather = &models.WeatherData{}
	}
	return o.weather
}

func (o *options) eventData() *models.EventData {
	if o.event == nil {
		o.event = &models.EventData{}
	}
	return o.event
}

func optionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Caller: cfg.Logging.Caller})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, logging.Logger(), os.Stdout); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("recommend failed")
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func run(ctx context.Context, cfg *config.Config, opts options, logger zerolog.Logger, out io.Writer) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if opts.train {
		artifacts, err := storage.NewStore(cfg.Training.ModelDir)
		if err != nil {
			return err
		}
		result, err := training.NewTrainer(db, artifacts, nil, cfg.Training, logger).TrainVendor(ctx, opts.vendorID)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("vendor %s has fewer than %d usable sales rows", opts.vendorID, cfg.Training.MinSalesRecords)
		}
		return enc.Encode(result)
	}

	venues := venue.NewEngineer(db, cfg.Venue, logger)
	engine := recommend.NewEngine(
		db,
		features.NewExtractor(db, venues, logger),
		venues,
		fallback.NewHeuristic(db, cfg.Fallback, logger),
		cfg.Recommend,
		logger,
	)

	if opts.productID != nil {
		rec, err := engine.Generate(ctx, recommend.Request{
			VendorID:   opts.vendorID,
			ProductID:  *opts.productID,
			MarketDate: opts.marketDate,
			VenueID:    opts.venueID,
			Weather:    opts.weather,
			Event:      opts.event,
		})
		if err != nil {
			return err
		}
		return enc.Encode(rec)
	}

	recs, err := engine.GenerateForDate(ctx, recommend.BatchRequest{
		VendorID:   opts.vendorID,
		MarketDate: opts.marketDate,
		VenueID:    opts.venueID,
		Weather:    opts.weather,
		Event:      opts.event,
		Limit:      opts.limit,
	})
	if err != nil {
		return err
	}
	return enc.Encode(recs)
}
