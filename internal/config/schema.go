package config

// ModelsConfig is the on-disk shape of the model catalog and its escalation
// tables.
type ModelsConfig struct {
	Models ModelsSection `yaml:"models"`
}

type ModelsSection struct {
	Catalog      []ModelEntry      `yaml:"catalog"`
	Default      string            `yaml:"default"`
	Escalation   map[string]string `yaml:"escalation"`
	Ceiling      string            `yaml:"ceiling"`
	TokenBudgets TokenBudgets      `yaml:"token_budgets"`
	Verification string            `yaml:"verification"`
}

type ModelEntry struct {
	Name          string `yaml:"name"`
	Parameters    int64  `yaml:"parameters"`
	ContextWindow int    `yaml:"context_window"`
}

type TokenBudgets struct {
	Small  int `yaml:"small"`
	Medium int `yaml:"medium"`
	Large  int `yaml:"large"`
}
