package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dkapoor/ledgerlens/internal/config"
	"github.com/dkapoor/ledgerlens/internal/logger"
	"github.com/dkapoor/ledgerlens/internal/store"
	"github.com/dkapoor/ledgerlens/internal/upload"
)

// Loads a journal entry workbook straight into MongoDB, bypassing the HTTP
// upload endpoint. Useful for seeding a database from the command line.
func main() {
	log := logger.New("info")

	path := flag.String("file", "", "Path to the .xlsx workbook to ingest")
	flag.Parse()

	if *path == "" {
		log.Fatal().Msg("Error: --file is required")
	}
	if err := upload.ValidateFilename(filepath.Base(*path)); err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("Unsupported file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open workbook")
	}
	defer f.Close()

	svc := upload.NewService(store.NewMongo(client, cfg.MongoDatabase), upload.NewBroker(), cfg.UploadBatchSize, log)

	uploadID := svc.Broker().Open()
	events, cancelSub, err := svc.Broker().Subscribe(uploadID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to subscribe to progress")
	}
	defer cancelSub()

	go func() {
		for ev := range events {
			log.Info().
				Str("status", ev.Status).
				Int("processed", ev.Processed).
				Int("total_rows", ev.TotalRows).
				Int("percent", ev.Percent).
				Msg("Ingestion progress")
		}
	}()

	log.Info().Str("file", *path).Msg("Starting ingestion")

	rows, err := svc.Process(ctx, uploadID, f)
	if err != nil {
		log.Fatal().Err(err).Int("rows", rows).Msg("Ingestion failed")
	}

	fmt.Printf("Ingested %d rows from %s\n", rows, filepath.Base(*path))
}
