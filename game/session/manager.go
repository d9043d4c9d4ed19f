package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/logjam/game/engine"
	"github.com/wricardo/logjam/game/service"
)

var (
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager handles game session lifecycle. Sessions live in memory only.
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// Create creates a new session with the given ID and level. An empty ID gets
// a generated one.
func (m *Manager) Create(id, configID string, config *engine.LevelConfig) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	} else if strings.ContainsAny(id, " /\\") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[key(id)]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionAlreadyExists, id)
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		ConfigID:       configID,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = session

	log.WithFields(log.Fields{"session": id, "level": config.Name}).Debug("session created")
	return session, nil
}

// key normalizes a session ID; lookups ignore case
func key(id string) string {
	return strings.ToLower(id)
}

// Get returns the session with the given ID
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookupLocked(id)
}

func (m *Manager) lookupLocked(id string) (*service.Session, error) {
	if s, ok := m.sessions[key(id)]; ok {
		return s, nil
	}
	return nil, service.ErrSessionNotFound
}

// GetOrCreate returns the session with the given ID, starting it on config
// when it does not exist yet.
func (m *Manager) GetOrCreate(id, configID string, config *engine.LevelConfig) (*service.Session, error) {
	s, err := m.Get(id)
	if errors.Is(err, service.ErrSessionNotFound) {
		return m.Create(id, configID, config)
	}
	return s, err
}

// List returns every session, oldest first. Ties are broken by ID.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	all := make([]*service.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	slices.SortFunc(all, func(a, b *service.Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return all
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookupLocked(id); err != nil {
		return err
	}
	delete(m.sessions, key(id))
	log.WithField("session", id).Debug("session deleted")
	return nil
}

// UpdateLastAccessed marks the session as used now, which postpones its expiry
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(id)
	if err != nil {
		return err
	}
	s.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge and
// returns how many went.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k, s := range m.sessions {
		if !s.LastAccessedAt.After(cutoff) {
			delete(m.sessions, k)
			removed++
		}
	}
	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns four hex characters not used by another session
func (m *Manager) generateSessionID() string {
	buf := make([]byte, 2)
	for {
		rand.Read(buf)
		id := hex.EncodeToString(buf)

		m.mu.RLock()
		_, taken := m.sessions[id]
		m.mu.RUnlock()
		if !taken {
			return id
		}
	}
}
