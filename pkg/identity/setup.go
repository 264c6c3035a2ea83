package identity

import (
	"net/http"
	"sync"
)

// DefaultCookieName is the store key holding the session identity.
const DefaultCookieName = "_splunk_rum_sid"

// Logger defines the interface for logging operations in the identity package.
//
//go:generate mockgen -source=setup.go -destination=mock_logger.go -package=identity
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Manager derives the session identity from a Store. When the store refuses a
// write, the generated value is kept in memory so the rest of the page load
// still sees one stable session id.
type Manager struct {
	store  Store
	logger Logger

	mu       sync.Mutex
	fallback map[string]string
}

// NewManager creates a Manager backed by store. A nil store falls back to a
// MemoryStore.
func NewManager(store Store, logger Logger) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		store:    store,
		logger:   logger,
		fallback: make(map[string]string),
	}
}

// EnsureSessionID returns the session id stored under key, creating and
// persisting a new one when none exists. An existing value is never replaced.
func (m *Manager) EnsureSessionID(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.store.Get(key); ok && v != "" {
		return v
	}
	if v, ok := m.fallback[key]; ok {
		return v
	}

	id := NewSessionID()
	err := m.store.Set(&http.Cookie{
		Name:  key,
		Value: id,
		Path:  "/",
	})
	if err != nil {
		m.logger.Warn("session id not persisted, using in-memory identity", err, map[string]interface{}{
			"key": key,
		})
		m.fallback[key] = id
		return id
	}

	m.logger.Debug("session id created", nil, map[string]interface{}{
		"key": key,
	})
	return id
}

// NewInstanceID generates the per-load instance identity.
func (m *Manager) NewInstanceID() string {
	return NewInstanceID()
}
