package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Document struct {
	ID       string
	Title    string
	Content  string
	FilePath string
}

type Parser struct {
	// Add parser specific configuration
}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) ParseFile(path string) (*Document, error) {
	path = strings.TrimSpace(path)

	ext := filepath.Ext(path)
	if ext != ".txt" && ext != ".md" {
		return nil, fmt.Errorf("unsupported file type %s (expected .txt or .md)", ext)
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if len(bytes) == 0 {
		return nil, fmt.Errorf("file %s is empty", path)
	}

	filename := filepath.Base(path)
	title := strings.TrimSuffix(filename, ext)

	return &Document{
		ID:       uuid.New().String(),
		Title:    title,
		Content:  string(bytes),
		FilePath: path,
	}, nil
}
