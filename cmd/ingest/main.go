package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/answerlab/answer-agent/internal/database"
	"github.com/answerlab/answer-agent/internal/ingestion"
	"github.com/answerlab/answer-agent/internal/setup"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	insertDocCommand := flag.Bool("insert-doc", false, "Insert document command")
	filePath := flag.String("filePath", "resources/test-input.txt", "Relative path to the document")
	chunkSize := flag.Int("chunkSize", 500, "Chunk size")
	chunkOverlap := flag.Int("chunkOverlap", 100, "Chunk overlap")

	deleteDocCommand := flag.Bool("delete-doc", false, "Delete existing document command")
	documentID := flag.String("doc-id", "", "Document id which needs to be deleted")

	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Unable to load env variables")
	}

	ctx := context.Background()
	cfg := setup.LoadConfig()

	db, embedder, err := setup.WireIngestion(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire ingestion dependencies")
	}
	defer db.Close()

	log.Info().Msg("Database connected")

	switch {
	case *deleteDocCommand:
		if *documentID == "" {
			log.Fatal().Msg("doc-id is required for delete-doc")
		}
		repo := database.NewPgChunkRepository(db)
		if err := repo.DeleteByDocument(ctx, *documentID); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete document")
		}
		log.Info().Str("doc_id", *documentID).Msg("Document deleted successfully")

	case *insertDocCommand:
		parser := ingestion.NewParser()
		chunker := ingestion.NewChunker(*chunkSize, *chunkOverlap)
		pipeline := ingestion.NewPipeline(parser, chunker, embedder, db.Pool)

		if err := pipeline.IngestTextDocument(ctx, *filePath); err != nil {
			log.Fatal().Err(err).Msg("Ingestion failed")
		}
		log.Info().Msg("Ingestion successful!")

	default:
		log.Fatal().Msg("Unsupported command")
	}
}
