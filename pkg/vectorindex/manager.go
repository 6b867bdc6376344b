package vectorindex

import (
	"sync"

	"github.com/kart-io/logger"
)

// Manager owns the per-session indices. Sessions never share an index
// and there is no cross-session operation, so dropping one session
// cannot affect another.
type Manager struct {
	mu        sync.RWMutex
	indices   map[string]*Index
	dimension int
	version   string
}

// NewManager creates a manager whose indices use the given embedding
// dimension and version.
func NewManager(dimension int, version string) *Manager {
	return &Manager{
		indices:   make(map[string]*Index),
		dimension: dimension,
		version:   version,
	}
}

// Version returns the embedding version new indices are pinned to.
func (m *Manager) Version() string {
	return m.version
}

// GetOrCreate returns the session's index, creating it on first use.
func (m *Manager) GetOrCreate(sessionID string) *Index {
	m.mu.RLock()
	ix, ok := m.indices[sessionID]
	m.mu.RUnlock()
	if ok {
		return ix
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ix, ok := m.indices[sessionID]; ok {
		return ix
	}
	ix = NewIndex(m.dimension, m.version)
	m.indices[sessionID] = ix
	logger.Debugw("session index created", "session_id", sessionID, "dimension", m.dimension)
	return ix
}

// Get returns the session's index, or nil when no chunks were ever
// indexed for it.
func (m *Manager) Get(sessionID string) *Index {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indices[sessionID]
}

// Drop releases the session's index. Idempotent; returns whether an
// index existed.
func (m *Manager) Drop(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ix, ok := m.indices[sessionID]
	if !ok {
		return false
	}
	delete(m.indices, sessionID)
	logger.Infow("session index dropped", "session_id", sessionID, "chunks", ix.Len())
	return true
}

// Sessions returns the session IDs with a live index.
func (m *Manager) Sessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.indices))
	for id := range m.indices {
		ids = append(ids, id)
	}
	return ids
}

// TotalVectors returns the number of vectors across all live indices.
func (m *Manager) TotalVectors() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, ix := range m.indices {
		total += ix.Len()
	}
	return total
}
