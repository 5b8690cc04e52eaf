package journal

import (
	"context"
	"sync"

	"github.com/jwebster45206/wasteland/pkg/survival"
)

// MemoryJournal is an in-process journal for tests and single-node runs.
type MemoryJournal struct {
	mu      sync.Mutex
	entries map[string][]survival.Entry
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{entries: make(map[string][]survival.Entry)}
}

func (m *MemoryJournal) Sink(playerID string) survival.Sink {
	return memorySink{journal: m, playerID: playerID}
}

func (m *MemoryJournal) Drain(ctx context.Context, playerID string) ([]survival.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.entries[playerID]
	delete(m.entries, playerID)
	if out == nil {
		out = []survival.Entry{}
	}
	return out, nil
}

func (m *MemoryJournal) Clear(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, playerID)
	return nil
}

type memorySink struct {
	journal  *MemoryJournal
	playerID string
}

func (s memorySink) Emit(message string, severity survival.Severity) {
	s.journal.mu.Lock()
	defer s.journal.mu.Unlock()
	list := append(s.journal.entries[s.playerID], survival.Entry{Message: message, Severity: severity})
	if len(list) > MaxEntries {
		list = list[len(list)-MaxEntries:]
	}
	s.journal.entries[s.playerID] = list
}
