// Package connection tracks external service links. The actual OAuth or
// network flow lives outside the core: callers report its outcome here
// and the manager keeps the status machine honest.
package connection

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkraev/clipsync/internal/core"
)

// SettingsStore persists connections. A nil store keeps them in memory
// only.
type SettingsStore interface {
	SaveConnection(c core.Connection) error
	DeleteConnection(id string) error
}

// Manager holds the connection set in creation order.
type Manager struct {
	mu          sync.Mutex
	connections []*core.Connection
	byID        map[string]*core.Connection
	settings    SettingsStore
	now         func() time.Time
}

// New creates a Manager. settings may be nil.
func New(settings SettingsStore) *Manager {
	return &Manager{
		byID:     make(map[string]*core.Connection),
		settings: settings,
		now:      time.Now,
	}
}

// Load seeds the manager from persisted connections, preserving order.
// Intended for startup, before the manager is shared.
func (m *Manager) Load(connections []core.Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range connections {
		c := connections[i]
		if _, ok := m.byID[c.ID]; ok {
			continue
		}
		m.connections = append(m.connections, &c)
		m.byID[c.ID] = &c
	}
}

// Add registers a new connection in the disconnected state.
func (m *Manager) Add(name string, provider core.Provider) (core.Connection, error) {
	if name == "" {
		return core.Connection{}, fmt.Errorf("connection name is required: %w", core.ErrValidation)
	}
	if !core.ValidProvider(provider) {
		return core.Connection{}, fmt.Errorf("provider %q: %w", provider, core.ErrValidation)
	}

	c := core.Connection{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      provider,
		Status:    core.StatusDisconnected,
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	cp := c
	m.connections = append(m.connections, &cp)
	m.byID[cp.ID] = &cp
	m.mu.Unlock()

	return c, m.persist(c)
}

// OnConnected records a successful external auth flow, attaching the
// account the provider reported.
func (m *Manager) OnConnected(id, accountID string) (core.Connection, error) {
	if accountID == "" {
		return core.Connection{}, fmt.Errorf("account id is required: %w", core.ErrValidation)
	}
	return m.transition(id, func(c *core.Connection) {
		c.Status = core.StatusConnected
		c.AccountID = accountID
	})
}

// OnError records a failed external auth flow. AccountID is cleared: the
// connection no longer speaks for any account.
func (m *Manager) OnError(id string) (core.Connection, error) {
	return m.transition(id, func(c *core.Connection) {
		c.Status = core.StatusError
		c.AccountID = ""
	})
}

// Disconnect returns a connection to the disconnected state and clears
// its account.
func (m *Manager) Disconnect(id string) (core.Connection, error) {
	return m.transition(id, func(c *core.Connection) {
		c.Status = core.StatusDisconnected
		c.AccountID = ""
	})
}

// Remove deletes a connection entirely.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	if _, ok := m.byID[id]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("connection %s: %w", id, core.ErrNotFound)
	}
	delete(m.byID, id)
	for i, c := range m.connections {
		if c.ID == id {
			m.connections = append(m.connections[:i], m.connections[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if m.settings != nil {
		if err := m.settings.DeleteConnection(id); err != nil {
			return fmt.Errorf("deleting connection from storage: %w", err)
		}
	}
	return nil
}

// Get returns one connection by id.
func (m *Manager) Get(id string) (core.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return core.Connection{}, fmt.Errorf("connection %s: %w", id, core.ErrNotFound)
	}
	return *c, nil
}

// List returns all connections in creation order.
func (m *Manager) List() []core.Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Connection, len(m.connections))
	for i, c := range m.connections {
		out[i] = *c
	}
	return out
}

func (m *Manager) transition(id string, apply func(*core.Connection)) (core.Connection, error) {
	m.mu.Lock()
	c, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return core.Connection{}, fmt.Errorf("connection %s: %w", id, core.ErrNotFound)
	}
	apply(c)
	result := *c
	m.mu.Unlock()

	return result, m.persist(result)
}

func (m *Manager) persist(c core.Connection) error {
	if m.settings == nil {
		return nil
	}
	if err := m.settings.SaveConnection(c); err != nil {
		return fmt.Errorf("persisting connection: %w", err)
	}
	return nil
}
