package ingestion

import (
	"context"
	"fmt"

	"github.com/answerlab/answer-agent/internal/embeddings"
	"github.com/answerlab/answer-agent/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

type Pipeline struct {
	parser   *Parser
	chunker  *Chunker
	embedder embeddings.Embedder
	pool     *pgxpool.Pool
}

func NewPipeline(
	parser *Parser,
	chunker *Chunker,
	embedder embeddings.Embedder,
	pool *pgxpool.Pool,
) *Pipeline {
	return &Pipeline{
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		pool:     pool,
	}
}

// IngestTextDocument processes a text file and stores it atomically
func (p *Pipeline) IngestTextDocument(ctx context.Context, filePath string) error {
	log.Info().Str("file", filePath).Msg("Starting ingestion")

	doc, err := p.parser.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}
	log.Info().Str("doc_id", doc.ID).Str("title", doc.Title).Msg("Document parsed")

	textChunks := p.chunker.ChunkText(doc.Content)
	if len(textChunks) == 0 {
		return fmt.Errorf("document %s produced no chunks", doc.ID)
	}
	log.Info().Int("chunk_count", len(textChunks)).Msg("Document chunked successfully")

	chunks := make([]models.Chunk, 0, len(textChunks))
	for _, tc := range textChunks {
		embedding, err := p.embedder.GenerateEmbedding(ctx, tc.Content)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", tc.Index, err)
		}

		chunk, err := models.NewChunk(uuid.New().String(), doc.ID, tc.Content, tc.Index, embedding)
		if err != nil {
			return fmt.Errorf("invalid chunk %d: %w", tc.Index, err)
		}
		chunks = append(chunks, chunk)
	}

	log.Info().Msg("Embeddings generated successfully")

	if err := p.storeChunks(ctx, doc, chunks); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	log.Info().
		Str("doc_id", doc.ID).
		Int("chunks", len(chunks)).
		Msg("Ingestion complete")

	return nil
}

// storeChunks stores all chunks of a document in a single transaction
func (p *Pipeline) storeChunks(ctx context.Context, doc *Document, chunks []models.Chunk) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if we don't commit

	chunkQuery := `
        INSERT INTO chunks (id, document_id, content, position, embedding, embedding_model)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	for i, chunk := range chunks {
		vector := pgvector.NewVector(chunk.Embedding.Vector)

		_, err := tx.Exec(ctx, chunkQuery,
			chunk.ID,
			chunk.DocumentID,
			chunk.Text,
			chunk.Position,
			vector,
			chunk.Embedding.Model,
		)
		if err != nil {
			// Transaction will auto-rollback via defer
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	log.Info().Int("chunks", len(chunks)).Msg("All chunks inserted in transaction")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
