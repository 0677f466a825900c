package ingestion

import (
	"strings"
	"testing"
)

func TestChunkText_SplitsWithOverlap(t *testing.T) {
	chunker := NewChunker(10, 3)
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := chunker.ChunkText(text)
	if len(chunks) == 0 {
		t.Fatal("Expected chunks")
	}

	if chunks[0].Content != "abcdefghij" {
		t.Errorf("Unexpected first chunk: %q", chunks[0].Content)
	}
	// Step is size minus overlap, so consecutive chunks share 3 bytes.
	if chunks[1].Start != 7 {
		t.Errorf("Expected second chunk to start at 7, got %d", chunks[1].Start)
	}
	if !strings.HasPrefix(chunks[1].Content, "hij") {
		t.Errorf("Expected 3-byte overlap, got %q", chunks[1].Content)
	}

	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("Expected index %d, got %d", i, chunk.Index)
		}
	}

	last := chunks[len(chunks)-1]
	if last.End != len(text) {
		t.Errorf("Expected last chunk to end at %d, got %d", len(text), last.End)
	}
}

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunker := NewChunker(500, 100)

	chunks := chunker.ChunkText("short document")
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "short document" {
		t.Errorf("Unexpected content: %q", chunks[0].Content)
	}
}

func TestChunkText_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunker := NewChunker(tt.size, tt.overlap)
			if chunks := chunker.ChunkText("some text to chunk"); len(chunks) != 0 {
				t.Errorf("Expected no chunks for invalid configuration, got %d", len(chunks))
			}
		})
	}
}

func TestChunkText_EmptyText(t *testing.T) {
	chunker := NewChunker(10, 3)
	if chunks := chunker.ChunkText(""); len(chunks) != 0 {
		t.Errorf("Expected no chunks for empty text, got %d", len(chunks))
	}
}
