package database

import (
	"context"
	"fmt"

	"github.com/answerlab/answer-agent/internal/models"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
)

// ChunkRepository is the persistence port for context chunks.
type ChunkRepository interface {
	Save(ctx context.Context, chunk models.Chunk) error
	FindSimilar(ctx context.Context, queryEmbedding []float32, topK int) ([]models.Chunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// PgChunkRepository stores chunks with their embeddings in a pgvector table.
type PgChunkRepository struct {
	db *DB
}

func NewPgChunkRepository(db *DB) *PgChunkRepository {
	return &PgChunkRepository{db: db}
}

func (r *PgChunkRepository) Save(ctx context.Context, chunk models.Chunk) error {
	query := `
	INSERT INTO chunks (id, document_id, content, position, embedding, embedding_model)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
	  content = EXCLUDED.content,
	  embedding = EXCLUDED.embedding,
	  embedding_model = EXCLUDED.embedding_model`

	vector := pgvector.NewVector(chunk.Embedding.Vector)

	_, err := r.db.Pool.Exec(ctx, query,
		chunk.ID,
		chunk.DocumentID,
		chunk.Text,
		chunk.Position,
		vector,
		chunk.Embedding.Model,
	)
	if err != nil {
		return fmt.Errorf("failed to save chunk %s: %w", chunk.ID, err)
	}

	return nil
}

func (r *PgChunkRepository) FindSimilar(ctx context.Context, queryEmbedding []float32, topK int) ([]models.Chunk, error) {
	if len(queryEmbedding) == 0 {
		return nil, fmt.Errorf("query embedding cannot be empty")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive: %d", topK)
	}

	query := `
	SELECT
	  id,
	  document_id,
	  content,
	  position,
	  embedding,
	  embedding_model
	FROM chunks
	ORDER BY embedding <=> $1
	LIMIT $2`

	vector := pgvector.NewVector(queryEmbedding)

	rows, err := r.db.Pool.Query(ctx, query, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var (
			id, documentID, content, embeddingModel string
			position                                int
			embedding                               pgvector.Vector
		)

		if err := rows.Scan(&id, &documentID, &content, &position, &embedding, &embeddingModel); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}

		emb, err := models.NewEmbedding(embedding.Slice(), embeddingModel)
		if err != nil {
			return nil, fmt.Errorf("invalid stored embedding for chunk %s: %w", id, err)
		}

		chunk, err := models.NewChunk(id, documentID, content, position, emb)
		if err != nil {
			return nil, fmt.Errorf("invalid stored chunk %s: %w", id, err)
		}

		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}

func (r *PgChunkRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks for document %s: %w", documentID, err)
	}

	if result.RowsAffected() == 0 {
		log.Warn().Str("document_id", documentID).Msg("No chunks found for document")
	}

	return nil
}
