package session

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Manager keeps the live report sessions keyed by id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*ReportSession
}

func NewManager() *Manager {
	return &Manager{sessions: map[string]*ReportSession{}}
}

// Create registers a fresh Idle session bound to store and returns it.
func (m *Manager) Create(store RideStore) *ReportSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	// lightweight unique id (time + rand) to avoid heavy deps
	id := strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.Itoa(rand.Intn(1000000))
	for m.sessions[id] != nil {
		id = strconv.FormatInt(time.Now().UnixNano(), 36) + "-" + strconv.Itoa(rand.Intn(1000000))
	}

	s := NewReportSession(id, store)
	m.sessions[id] = s
	return s
}

// Get returns the session with the given id when it exists.
func (m *Manager) Get(id string) (*ReportSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete drops a session and everything it held (rides cache, overrides).
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
