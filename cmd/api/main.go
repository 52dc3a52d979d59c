package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkapoor/ledgerlens/internal/api/handlers"
	"github.com/dkapoor/ledgerlens/internal/catalogue"
	"github.com/dkapoor/ledgerlens/internal/classifier"
	"github.com/dkapoor/ledgerlens/internal/config"
	"github.com/dkapoor/ledgerlens/internal/dispatch"
	"github.com/dkapoor/ledgerlens/internal/logger"
	"github.com/dkapoor/ledgerlens/internal/query"
	"github.com/dkapoor/ledgerlens/internal/store"
	"github.com/dkapoor/ledgerlens/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info")
		boot.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)

	ctx := context.Background()

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()

	entries := store.NewMongo(client, cfg.MongoDatabase)
	cat := catalogue.New()

	// Without an API key the dispatcher falls back to the pattern router.
	var primary classifier.Classifier
	if cfg.GeminiAPIKey != "" {
		gemini, err := classifier.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cat, cfg.ClassifyTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini classifier")
		}
		primary = gemini
		log.Info().Str("model", cfg.GeminiModel).Msg("Gemini classifier enabled")
	} else {
		log.Warn().Msg("No GEMINI_API_KEY configured - questions will be answered by the pattern router")
	}

	dispatcher := dispatch.New(primary, cat, entries, log)
	uploads := upload.NewService(entries, upload.NewBroker(), cfg.UploadBatchSize, log)
	queries := query.NewService(entries)

	handler := handlers.New(dispatcher, uploads, queries, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE progress streams stay open until the upload completes
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
