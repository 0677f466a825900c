package config

import (
	"fmt"
	"os"

	"github.com/answerlab/answer-agent/internal/catalog"
	"github.com/answerlab/answer-agent/internal/verifier"
	"go.yaml.in/yaml/v3"
)

// LoadModelCatalog reads the model catalog from MODELS_CONFIG_PATH (default
// configs/models.yaml). A missing file falls back to the built-in catalog so
// a bare checkout still runs.
func LoadModelCatalog() (*catalog.Catalog, string, error) {
	path := os.Getenv("MODELS_CONFIG_PATH")
	if path == "" {
		path = "configs/models.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog.Default(), verifier.DefaultModel, nil
		}
		return nil, "", err
	}

	var cfg ModelsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse models config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	cat, err := buildCatalog(&cfg)
	if err != nil {
		return nil, "", fmt.Errorf("invalid models config %s: %w", path, err)
	}

	verificationModel := cfg.Models.Verification
	if verificationModel == "" {
		verificationModel = verifier.DefaultModel
	}

	return cat, verificationModel, nil
}

func applyDefaults(cfg *ModelsConfig) {
	if cfg.Models.TokenBudgets.Small == 0 {
		cfg.Models.TokenBudgets.Small = 256
	}
	if cfg.Models.TokenBudgets.Medium == 0 {
		cfg.Models.TokenBudgets.Medium = 512
	}
	if cfg.Models.TokenBudgets.Large == 0 {
		cfg.Models.TokenBudgets.Large = 1024
	}
}

func buildCatalog(cfg *ModelsConfig) (*catalog.Catalog, error) {
	if len(cfg.Models.Catalog) == 0 {
		return nil, fmt.Errorf("models.catalog is empty")
	}

	entries := make([]catalog.Model, 0, len(cfg.Models.Catalog))
	for _, entry := range cfg.Models.Catalog {
		entries = append(entries, catalog.Model{
			Name:          entry.Name,
			Parameters:    entry.Parameters,
			ContextWindow: entry.ContextWindow,
		})
	}

	budgets := map[catalog.SizeClass]int{
		catalog.SizeSmall:  cfg.Models.TokenBudgets.Small,
		catalog.SizeMedium: cfg.Models.TokenBudgets.Medium,
		catalog.SizeLarge:  cfg.Models.TokenBudgets.Large,
	}

	return catalog.New(entries, cfg.Models.Escalation, cfg.Models.Ceiling, budgets, cfg.Models.Default)
}
