// Package idgen provides ID generation for roll and dispatch attempt ids
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// UUIDGenerator generates UUIDs with optional prefix
type UUIDGenerator struct {
	prefix  string
	ordered bool
}

// NewUUID creates a random (v4) UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// NewTimeOrdered creates a v7 UUID generator. Ids from one process sort in
// creation order, which keeps journal attempts sortable by id.
func NewTimeOrdered(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix, ordered: true}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := g.next()
	if g.prefix != "" {
		return g.prefix + "_" + id
	}
	return id
}

func (g *UUIDGenerator) next() string {
	if g.ordered {
		// NewV7 only fails when the random source does
		if id, err := uuid.NewV7(); err == nil {
			return id.String()
		}
	}
	return uuid.New().String()
}
