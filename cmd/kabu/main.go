// Package main is the entry point for the kabu investment research CLI.
// It assembles the service graph (config, cache database, market data
// client, analysis services) and dispatches to the subcommands.
package main

import (
	"context"
	"flag"
	"os"
	"path"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/aristath/kabu/internal/cli"
	"github.com/aristath/kabu/internal/clientdata"
	"github.com/aristath/kabu/internal/clients/sentiment"
	"github.com/aristath/kabu/internal/clients/yahoo"
	"github.com/aristath/kabu/internal/config"
	"github.com/aristath/kabu/internal/database"
	"github.com/aristath/kabu/internal/domain"
	"github.com/aristath/kabu/internal/modules/forecast"
	"github.com/aristath/kabu/internal/modules/health"
	"github.com/aristath/kabu/internal/modules/portfolio"
	"github.com/aristath/kabu/internal/modules/rebalance"
	"github.com/aristath/kabu/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.Pretty,
	}).With().Str("run_id", uuid.New().String()).Logger()

	ctx := context.Background()

	db, err := database.New(cfg.CacheDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer db.Close()

	cacheRepo := clientdata.NewRepository(db.Conn())
	clientdata.Cleanup(cacheRepo, log)
	clientdata.TTLQuote = time.Duration(cfg.QuoteTTLMinutes) * time.Minute
	clientdata.TTLDetail = time.Duration(cfg.DetailTTLMinutes) * time.Minute

	provider := yahoo.NewClient(cacheRepo, log)

	var sentimentProvider domain.SentimentProvider
	if cfg.GeminiAPIKey != "" {
		client, err := sentiment.NewClient(ctx, cfg.GeminiAPIKey, log)
		if err != nil {
			log.Warn().Err(err).Msg("Sentiment provider unavailable, continuing without it")
		} else {
			sentimentProvider = client
		}
	}

	store := portfolio.NewStore(cfg.PortfolioPath)

	app := &cli.App{
		Config:    cfg,
		Log:       log,
		Store:     store,
		Portfolio: portfolio.NewService(store, provider, log),
		Forecast:  forecast.NewService(provider, log),
		Health:    health.NewService(provider, log),
		Rebalance: rebalance.NewEngine(cfg.SellThreshold, cfg.DirectiveCut, cfg.MinTicketJPY, log),
		Provider:  provider,
		Sentiment: sentimentProvider,
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cli.Register(commander, app)

	flag.Parse()
	os.Exit(int(commander.Execute(ctx)))
}
