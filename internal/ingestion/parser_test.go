package ingestion

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	return path
}

func TestParseFile_Text(t *testing.T) {
	path := writeFile(t, "notes.txt", "Paris is the capital of France.")

	parser := NewParser()
	doc, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("Expected title 'notes', got %q", doc.Title)
	}
	if doc.Content != "Paris is the capital of France." {
		t.Errorf("Unexpected content: %q", doc.Content)
	}
	if doc.ID == "" {
		t.Error("Expected a generated document id")
	}
}

func TestParseFile_Markdown(t *testing.T) {
	path := writeFile(t, "readme.md", "# Title\n\nBody.")

	parser := NewParser()
	if _, err := parser.ParseFile(path); err != nil {
		t.Errorf("Expected markdown to be accepted: %v", err)
	}
}

func TestParseFile_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "data.json", `{"a":1}`)

	parser := NewParser()
	if _, err := parser.ParseFile(path); err == nil {
		t.Error("Expected error for unsupported file type")
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", "")

	parser := NewParser()
	if _, err := parser.ParseFile(path); err == nil {
		t.Error("Expected error for empty file")
	}
}

func TestParseFile_Missing(t *testing.T) {
	parser := NewParser()
	if _, err := parser.ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}
