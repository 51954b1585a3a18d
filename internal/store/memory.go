// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Live sessions are held in memory for their whole lifetime: the engine
// mutates *game.Game in place, so the store only has to hand out the same
// pointer to every request. Durable facts (finished games, shot logs,
// player stats) are written to SQLite by the HTTP layer.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Errors are returned for missing session IDs on Get().

package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/orapamine/go-server/internal/game"
)

var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for live game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save registers or updates a session.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, id string) (*game.Game, error)

	// List returns every registered session, newest first.
	List(ctx context.Context) ([]*game.Game, error)

	// Delete drops a session from the registry. Unknown IDs are a no-op.
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

// List snapshots the registered sessions, newest first.
func (m *memory) List(ctx context.Context) ([]*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*game.Game, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a session from the registry.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}