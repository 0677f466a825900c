package catalog

import (
	"fmt"
)

// SizeClass buckets models by parameter count. It drives the per-attempt
// token budget, independent of the escalation table.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

const (
	smallMaxParams  = 3_800_000_000
	mediumMaxParams = 8_000_000_000
)

// Model describes one servable LLM.
type Model struct {
	Name          string
	Parameters    int64
	ContextWindow int
}

func (m Model) SizeClass() SizeClass {
	if m.Parameters <= smallMaxParams {
		return SizeSmall
	}
	if m.Parameters <= mediumMaxParams {
		return SizeMedium
	}
	return SizeLarge
}

// Catalog holds the known models, the escalation table and the per-class
// token budgets. Tables are data, not code, so tests and deployments can
// swap them without touching the control plane.
type Catalog struct {
	models       map[string]Model
	escalation   map[string]string
	ceiling      string
	tokenBudgets map[SizeClass]int
	defaultModel string
}

func New(models []Model, escalation map[string]string, ceiling string, budgets map[SizeClass]int, defaultModel string) (*Catalog, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("catalog requires at least one model")
	}

	byName := make(map[string]Model, len(models))
	for _, m := range models {
		if m.Name == "" {
			return nil, fmt.Errorf("catalog model with empty name")
		}
		if m.Parameters <= 0 {
			return nil, fmt.Errorf("model %s has non-positive parameter count", m.Name)
		}
		byName[m.Name] = m
	}

	if _, ok := byName[ceiling]; !ok {
		return nil, fmt.Errorf("escalation ceiling %q is not in the catalog", ceiling)
	}
	if _, ok := byName[defaultModel]; !ok {
		return nil, fmt.Errorf("default model %q is not in the catalog", defaultModel)
	}
	for from, to := range escalation {
		if _, ok := byName[from]; !ok {
			return nil, fmt.Errorf("escalation source %q is not in the catalog", from)
		}
		if _, ok := byName[to]; !ok {
			return nil, fmt.Errorf("escalation target %q is not in the catalog", to)
		}
	}

	if budgets == nil {
		budgets = defaultTokenBudgets()
	}
	for _, class := range []SizeClass{SizeSmall, SizeMedium, SizeLarge} {
		if budgets[class] <= 0 {
			return nil, fmt.Errorf("token budget for %s class must be positive", class)
		}
	}

	return &Catalog{
		models:       byName,
		escalation:   escalation,
		ceiling:      ceiling,
		tokenBudgets: budgets,
		defaultModel: defaultModel,
	}, nil
}

// Default returns the built-in catalog: local Ollama models with the
// escalation ladder small -> 7B -> 8B -> 14B.
func Default() *Catalog {
	c, err := New(defaultModels(), defaultEscalation(), "qwen2.5:14b", defaultTokenBudgets(), "phi3:mini")
	if err != nil {
		// Built-in tables are validated by tests; a failure here is a bug.
		panic(err)
	}
	return c
}

func defaultModels() []Model {
	return []Model{
		{Name: "llama3.2:3b", Parameters: 3_000_000_000, ContextWindow: 8192},
		{Name: "llama3.1:8b", Parameters: 8_000_000_000, ContextWindow: 8192},
		{Name: "qwen2.5:7b", Parameters: 7_000_000_000, ContextWindow: 32768},
		{Name: "qwen2.5:14b", Parameters: 14_000_000_000, ContextWindow: 32768},
		{Name: "mistral:7b", Parameters: 7_000_000_000, ContextWindow: 8192},
		{Name: "phi3:mini", Parameters: 3_800_000_000, ContextWindow: 4096},
		{Name: "deepseek-r1:1.5b", Parameters: 1_500_000_000, ContextWindow: 8192},
	}
}

func defaultEscalation() map[string]string {
	return map[string]string{
		"phi3:mini":        "qwen2.5:7b",
		"deepseek-r1:1.5b": "qwen2.5:7b",
		"llama3.2:3b":      "qwen2.5:7b",
		"qwen2.5:7b":       "llama3.1:8b",
		"mistral:7b":       "llama3.1:8b",
	}
}

func defaultTokenBudgets() map[SizeClass]int {
	return map[SizeClass]int{
		SizeSmall:  256,
		SizeMedium: 512,
		SizeLarge:  1024,
	}
}

func (c *Catalog) Lookup(name string) (Model, bool) {
	m, ok := c.models[name]
	return m, ok
}

// DefaultModel is the cheapest model, used for the first attempt.
func (c *Catalog) DefaultModel() string {
	return c.defaultModel
}

// Escalate returns the next model tier. Models without an explicit mapping
// escalate to the ceiling; the ceiling escalates to itself.
func (c *Catalog) Escalate(name string) string {
	if next, ok := c.escalation[name]; ok {
		return next
	}
	return c.ceiling
}

// TokenBudget returns the generation budget for a model based on its size
// class. Unknown models get the large-class budget.
func (c *Catalog) TokenBudget(name string) int {
	m, ok := c.models[name]
	if !ok {
		return c.tokenBudgets[SizeLarge]
	}
	return c.tokenBudgets[m.SizeClass()]
}
