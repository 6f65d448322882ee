package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shohjahon1code/telegram-parser/internal/api"
	"github.com/shohjahon1code/telegram-parser/internal/core/service"
	"github.com/shohjahon1code/telegram-parser/internal/infrastructure/config"
	mongodb "github.com/shohjahon1code/telegram-parser/internal/infrastructure/db/mongo"
	redisdb "github.com/shohjahon1code/telegram-parser/internal/infrastructure/db/redis"
	"github.com/shohjahon1code/telegram-parser/internal/infrastructure/exchange"
	"github.com/shohjahon1code/telegram-parser/internal/infrastructure/geo"
	"github.com/shohjahon1code/telegram-parser/internal/infrastructure/llm"
	"github.com/shohjahon1code/telegram-parser/internal/infrastructure/queue"
	"github.com/shohjahon1code/telegram-parser/internal/infrastructure/telegram"
	"github.com/shohjahon1code/telegram-parser/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "cargo-parser"})
		bootLog.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "cargo-parser",
		Pretty:  cfg.Env == "development",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	loadRepo := mongodb.NewLoadRepository(db)
	if err := loadRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("load indexes")
	}
	authRepo := mongodb.NewAuthRepository(db)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("auth indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection")
	}
	defer rdb.Close()

	// --- Pipeline ---
	completer := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	}, log)
	geocoder := geo.NewClient(geo.Config{
		APIKey:  cfg.Geocoder.APIKey,
		BaseURL: cfg.Geocoder.BaseURL,
		Timeout: cfg.Geocoder.Timeout,
	}, log)

	pipeline := service.NewPipeline(
		service.NewExtractor(completer, cfg.OpenAI.Timeout, log),
		service.NewNormalizer(),
		service.NewValidator(),
		service.NewEnricher(completer, geocoder, cfg.Geocoder.Timeout, log),
		log,
	)

	// --- Ingestion ---
	dedup := redisdb.NewDedupChecker(rdb)
	ingestor := telegram.NewIngestor(dedup, pipeline, loadRepo, log)
	dispatcher := queue.NewDispatcher(cfg.Telegram.Workers, ingestor, log)
	dispatcher.Start(ctx)

	listener := telegram.NewListener(telegram.Config{
		BotToken:     cfg.Telegram.BotToken,
		ChatIDs:      cfg.Telegram.ChatIDs,
		PollInterval: cfg.Telegram.PollInterval,
		RateLimit:    cfg.Telegram.RateLimit,
		RateWindow:   cfg.Telegram.RateWindow,
	}, dispatcher, log)

	// --- Exchange ---
	publisher := exchange.NewPublisher(exchange.NewClient(exchange.Config{
		BaseURL: cfg.Exchange.BaseURL,
		Token:   cfg.Exchange.Token,
	}), loadRepo, log)

	// --- HTTP ---
	router := api.NewRouter(db, rdb, loadRepo, publisher, geocoder, cfg.JWTSecret, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return listener.Run(gctx)
	})

	if cfg.Exchange.Enabled {
		g.Go(func() error {
			return publisher.Run(gctx, cfg.Exchange.Interval)
		})
	}

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("http server starting")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown with error")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}
