package stocksync

import (
	"context"
	"sync"
)

var _ Guard = (*MemoryGuard)(nil)

// MemoryGuard guardia en proceso: un SKU ocupado hasta que su dueño lo libera.
type MemoryGuard struct {
	mu       sync.Mutex
	inFlight map[string]string // sku -> RunID
}

// NewMemoryGuard construye una guardia vacía.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{inFlight: make(map[string]string)}
}

// Acquire marca el SKU como ocupado por owner; false si ya lo estaba.
func (g *MemoryGuard) Acquire(_ context.Context, sku, owner string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[sku]; busy {
		return false, nil
	}
	g.inFlight[sku] = owner
	return true, nil
}

// Release libera el SKU si la reserva es de owner.
func (g *MemoryGuard) Release(_ context.Context, sku, owner string) error {
	g.mu.Lock()
	if g.inFlight[sku] == owner {
		delete(g.inFlight, sku)
	}
	g.mu.Unlock()
	return nil
}
