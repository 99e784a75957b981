package stocksync_test

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-sync/internal/application/stocksync"
)

// fakeStore almacén local en memoria con contador de llamadas.
// Si block no es nil, SetQuantity espera a que se cierre (o se envíe) antes de responder.
type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]int
	calls   int
	err     error
	block   chan struct{}
	entered chan struct{}
}

func newFakeStore(rows map[string]int) *fakeStore {
	return &fakeStore{rows: rows}
}

func (s *fakeStore) SetQuantity(_ context.Context, sku string, qty int) (bool, error) {
	s.mu.Lock()
	s.calls++
	block, entered := s.block, s.entered
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.rows[sku]; !ok {
		return false, nil
	}
	s.rows[sku] = qty
	return true, nil
}

func (s *fakeStore) quantity(sku string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[sku]
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fakeRemote cliente remoto guionado.
type fakeRemote struct {
	mu      sync.Mutex
	calls   int
	message string
	err     error
	lastID  string
	lastQty int
}

func (r *fakeRemote) UpdateStock(_ context.Context, remoteItemID string, qty int) (*stocksync.RemoteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastID, r.lastQty = remoteItemID, qty
	if r.err != nil {
		return nil, r.err
	}
	return &stocksync.RemoteResult{Message: r.message}, nil
}

func (r *fakeRemote) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// recordingSink guarda los eventos publicados.
type recordingSink struct {
	events chan stocksync.Event
}

func newRecordingSink() *recordingSink {
	return &recordingSink{events: make(chan stocksync.Event, 64)}
}

func (s *recordingSink) Publish(ev stocksync.Event) {
	s.events <- ev
}

// until lee eventos hasta el final de la corrida runID.
func (s *recordingSink) until(runID string) []stocksync.Event {
	var out []stocksync.Event
	for ev := range s.events {
		if ev.RunID != runID {
			continue
		}
		out = append(out, ev)
		if ev.Final {
			return out
		}
	}
	return out
}

// recordingGuard MemoryGuard que anota los dueños de cada Acquire/Release.
type recordingGuard struct {
	*stocksync.MemoryGuard
	mu       sync.Mutex
	acquired []string
	released []string
}

func (g *recordingGuard) Acquire(ctx context.Context, sku, owner string) (bool, error) {
	g.mu.Lock()
	g.acquired = append(g.acquired, owner)
	g.mu.Unlock()
	return g.MemoryGuard.Acquire(ctx, sku, owner)
}

func (g *recordingGuard) Release(ctx context.Context, sku, owner string) error {
	g.mu.Lock()
	g.released = append(g.released, owner)
	g.mu.Unlock()
	return g.MemoryGuard.Release(ctx, sku, owner)
}

func (g *recordingGuard) owners() (acquired, released []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.acquired...), append([]string(nil), g.released...)
}
