package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/answerlab/answer-agent/internal/verifier"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadModelCatalog_FromFile(t *testing.T) {
	path := writeConfig(t, `
models:
  catalog:
    - name: phi3:mini
      parameters: 3800000000
      context_window: 4096
    - name: qwen2.5:7b
      parameters: 7000000000
      context_window: 32768
  default: phi3:mini
  escalation:
    phi3:mini: qwen2.5:7b
  ceiling: qwen2.5:7b
  token_budgets:
    small: 128
    medium: 384
  verification: phi3:mini
`)
	t.Setenv("MODELS_CONFIG_PATH", path)

	cat, verificationModel, err := LoadModelCatalog()
	if err != nil {
		t.Fatalf("LoadModelCatalog failed: %v", err)
	}

	if cat.DefaultModel() != "phi3:mini" {
		t.Errorf("Expected default phi3:mini, got %s", cat.DefaultModel())
	}
	if got := cat.Escalate("phi3:mini"); got != "qwen2.5:7b" {
		t.Errorf("Expected escalation to qwen2.5:7b, got %s", got)
	}
	if got := cat.TokenBudget("phi3:mini"); got != 128 {
		t.Errorf("Expected configured small budget 128, got %d", got)
	}
	if got := cat.TokenBudget("qwen2.5:7b"); got != 384 {
		t.Errorf("Expected configured medium budget 384, got %d", got)
	}
	if verificationModel != "phi3:mini" {
		t.Errorf("Expected verification model phi3:mini, got %s", verificationModel)
	}
}

func TestLoadModelCatalog_MissingFileFallsBack(t *testing.T) {
	t.Setenv("MODELS_CONFIG_PATH", filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	cat, verificationModel, err := LoadModelCatalog()
	if err != nil {
		t.Fatalf("Expected built-in fallback, got error: %v", err)
	}
	if cat.DefaultModel() != "phi3:mini" {
		t.Errorf("Expected built-in default phi3:mini, got %s", cat.DefaultModel())
	}
	if verificationModel != verifier.DefaultModel {
		t.Errorf("Expected default verification model, got %s", verificationModel)
	}
}

func TestLoadModelCatalog_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "models: [broken")
	t.Setenv("MODELS_CONFIG_PATH", path)

	if _, _, err := LoadModelCatalog(); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadModelCatalog_EmptyCatalog(t *testing.T) {
	path := writeConfig(t, `
models:
  default: phi3:mini
  ceiling: phi3:mini
`)
	t.Setenv("MODELS_CONFIG_PATH", path)

	if _, _, err := LoadModelCatalog(); err == nil {
		t.Error("Expected error for empty catalog")
	}
}

func TestLoadModelCatalog_DefaultVerificationModel(t *testing.T) {
	path := writeConfig(t, `
models:
  catalog:
    - name: phi3:mini
      parameters: 3800000000
  default: phi3:mini
  ceiling: phi3:mini
`)
	t.Setenv("MODELS_CONFIG_PATH", path)

	_, verificationModel, err := LoadModelCatalog()
	if err != nil {
		t.Fatalf("LoadModelCatalog failed: %v", err)
	}
	if verificationModel != verifier.DefaultModel {
		t.Errorf("Expected default verification model %s, got %s", verifier.DefaultModel, verificationModel)
	}
}
