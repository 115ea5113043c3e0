package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/gearpuzzle/game/engine"
	"github.com/wricardo/gearpuzzle/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
	ErrLevelRequired        = errors.New("session requires a level")
)

const (
	maxIDAttempts    = 16
	generatedIDBytes = 2
)

// Manager keeps the live puzzle sessions, keyed by lower-cased id, and mirrors
// them to persistence when one is configured. Each session owns its own
// GameEngine; callers serialize board changes themselves.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*service.Session
	persistence SessionPersistence
}

// NewManager creates an in-memory session manager
func NewManager() *Manager {
	return NewManagerWithPersistence(nil)
}

// NewManagerWithPersistence creates a session manager backed by persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
}

func key(id string) string {
	return strings.ToLower(id)
}

// usableID rejects ids that could escape the sessions directory
func usableID(id string) bool {
	return !strings.ContainsAny(id, `/\.`)
}

// Create starts a session on a freshly propagated board for level. An empty
// id gets a generated one.
func (m *Manager) Create(id string, level *engine.Level) (*service.Session, error) {
	if level == nil {
		return nil, ErrLevelRequired
	}
	if !usableID(id) {
		return nil, ErrInvalidSessionID
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = newSessionID()
		for attempt := 0; m.taken(id) && attempt < maxIDAttempts; attempt++ {
			id = newSessionID()
		}
	}
	if _, exists := m.sessions[key(id)]; exists {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Level:          level,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = sess
	m.persist(sess, "create")

	return sess, nil
}

// Get returns a live session, loading it from persistence on a cache miss.
// Ids match case-insensitively.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if ok {
		return sess, nil
	}

	if m.persistence == nil || !usableID(id) || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}

	loaded, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have loaded it meanwhile
	if sess, ok := m.sessions[key(id)]; ok {
		return sess, nil
	}
	m.sessions[key(id)] = loaded
	return loaded, nil
}

// GetOrCreate returns the session with id, creating it on level when missing
func (m *Manager) GetOrCreate(id string, level *engine.Level) (*service.Session, error) {
	sess, err := m.Get(id)
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, level)
	}
	return sess, err
}

// List returns every live session in no particular order
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	return out
}

// Delete drops a session from memory and from persistence
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, live := m.sessions[key(id)]
	delete(m.sessions, key(id))

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}
	if !live {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory evicts a session without touching its persisted copy
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[key(id)]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))
	return nil
}

// UpdateLastAccessed marks a session as used now and persists the timestamp
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[key(id)]
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = time.Now()
	m.persist(sess, "access update")
	return nil
}

// Save writes one session, board included, to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	sess, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	return m.persistence.Save(sess)
}

// CleanupExpiredSessions evicts sessions idle longer than maxAge from memory.
// Persisted copies stay on disk and reload on the next Get.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for k, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, k)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedSessions pulls every stored session not already live into
// memory. Files that fail to load are logged and skipped.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if _, ok := m.sessions[key(id)]; ok {
			continue
		}
		sess, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("Warning: Failed to load persisted session %s: %v", id, err)
			continue
		}
		m.sessions[key(id)] = sess
		loaded++
	}

	if loaded > 0 {
		log.Printf("📂 Loaded %d persisted sessions from storage", loaded)
	}
	return nil
}

// SaveAllSessions writes every live session, reporting all failures together
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	var errs []error
	for _, sess := range m.List() {
		if err := m.persistence.Save(sess); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", sess.ID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to save %d sessions: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// persist saves sess when persistence is configured; failures are only logged.
// Callers hold m.mu.
func (m *Manager) persist(sess *service.Session, reason string) {
	if m.persistence == nil {
		return
	}
	if err := m.persistence.Save(sess); err != nil {
		log.Printf("Warning: Failed to persist session %s after %s: %v", sess.ID, reason, err)
	}
}

// taken reports whether id collides with a live or persisted session. Callers hold m.mu.
func (m *Manager) taken(id string) bool {
	if _, ok := m.sessions[key(id)]; ok {
		return true
	}
	return m.persistence != nil && m.persistence.Exists(id)
}

// newSessionID returns a random 4-character hex id
func newSessionID() string {
	b := make([]byte, generatedIDBytes)
	rand.Read(b)
	return hex.EncodeToString(b)
}
