package gov

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ReceiptGenerator produces correlation tokens stamped on every mutating
// operation. The token appears in the engine's log lines and in the
// operation journal, tying an external request to everything it caused.
type ReceiptGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 receipt tokens.
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined receipt tokens for deterministic
// tests and golden trace comparison.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
// Generate panics once all tokens are consumed; that fail-fast catches test
// misconfiguration.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

// SequenceGenerator returns "r-1", "r-2", ... without a fixed supply.
// Used where tests need determinism but not specific values.
type SequenceGenerator struct {
	mu sync.Mutex
	n  int
}

// Generate returns the next sequential token.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("r-%d", g.n)
}
