package strategy

import (
	"fmt"
	"strings"
)

// Strategy selects how much context the retrieval layer fetches.
type Strategy string

const (
	Simple     Strategy = "simple"
	Deep       Strategy = "deep"
	Exhaustive Strategy = "exhaustive"
)

var defaultTopK = map[Strategy]int{
	Simple:     5,
	Deep:       10,
	Exhaustive: 20,
}

// Escalation ladder. Exhaustive is the ceiling and escalates to itself.
var defaultNext = map[Strategy]Strategy{
	Simple:     Deep,
	Deep:       Exhaustive,
	Exhaustive: Exhaustive,
}

func (s Strategy) Valid() bool {
	_, ok := defaultTopK[s]
	return ok
}

// TopK is the fetch depth the retrieval gateway interprets.
func (s Strategy) TopK() int {
	if k, ok := defaultTopK[s]; ok {
		return k
	}
	return defaultTopK[Simple]
}

func Parse(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown retrieval strategy: %q", name)
	}
	return s, nil
}

// Escalator maps a strategy to the next deeper one. The table is injectable
// so escalation order is configuration rather than hard-coded branches.
type Escalator struct {
	next map[Strategy]Strategy
}

func NewEscalator(next map[Strategy]Strategy) *Escalator {
	if next == nil {
		next = defaultNext
	}
	return &Escalator{next: next}
}

func DefaultEscalator() *Escalator {
	return NewEscalator(nil)
}

func (e *Escalator) Escalate(current Strategy) Strategy {
	if next, ok := e.next[current]; ok {
		return next
	}
	return Exhaustive
}
