// Package session confines each game to one engine instance keyed by a
// server-issued id. The engine serializes its own calls, so there is
// exactly one writer per game state.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"harvest/internal/game"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("game not found")

type Manager struct {
	mu        sync.RWMutex
	log       *slog.Logger
	src       game.Source
	countries []game.CountryOption
	games     map[string]*game.Engine
}

func NewManager(countries []game.CountryOption, src game.Source, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if src == nil {
		src = game.NewSource()
	}
	return &Manager{
		log:       logger,
		src:       src,
		countries: countries,
		games:     make(map[string]*game.Engine),
	}
}

// Create starts a fresh game and returns its id with the initial state.
func (m *Manager) Create(country, crop string) (string, *game.State, error) {
	eng := game.NewEngine(m.countries, m.src, m.log)
	st, err := eng.CreateGame(country, crop)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	m.mu.Lock()
	m.games[id] = eng
	m.mu.Unlock()
	return id, st, nil
}

func (m *Manager) Get(id string) (*game.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	eng, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return eng, nil
}

// Delete discards a game unconditionally; deleting an unknown id is a
// no-op, matching reset semantics.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if eng, ok := m.games[id]; ok {
		eng.Reset()
		delete(m.games, id)
	}
}

// Count reports the number of live games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
