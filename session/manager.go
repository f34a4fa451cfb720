package session

import (
	"fmt"
	"sync"

	"github.com/korjavin/mathdungeonbot/random"
)

// Manager keeps one Session per user
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	store    Store
	seed     int64
	opts     []Option
}

// NewManager creates a registry. A non-zero seed makes every new session
// deterministic; otherwise each session is seeded from crypto/rand.
func NewManager(store Store, seed int64, opts ...Option) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		store:    store,
		seed:     seed,
		opts:     opts,
	}
}

// Get returns the user's session, creating it on first use
func (m *Manager) Get(userID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}

	seed := m.seed
	if seed == 0 {
		var err error
		seed, err = random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("seed session: %w", err)
		}
	}

	s := New(userID, random.NewSeeded(seed), m.store, m.opts...)
	m.sessions[userID] = s
	return s, nil
}

// Lookup returns the user's session without creating one
func (m *Manager) Lookup(userID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	return s, ok
}

// Len reports the number of sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
