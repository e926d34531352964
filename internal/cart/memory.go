package cart

import (
	"context"
	"sync"
)

// MemorySnapshots is a process-local SnapshotStore used when no redis is
// configured. Snapshots do not survive a restart.
type MemorySnapshots struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{}
}

func (m *MemorySnapshots) Load(context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, ErrNoSnapshot
	}
	return m.snap, nil
}

func (m *MemorySnapshots) Save(_ context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}
