// Package session keeps live games in memory and serialises access to
// each engine.
package session

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/wasteland/pkg/rng"
	"github.com/jwebster45206/wasteland/pkg/survival"
)

// Store persists snapshots and loads the newest one for a player.
type Store interface {
	survival.Persister
	Load(ctx context.Context, playerID string) (*survival.Snapshot, error)
}

// Entitlements loads a player's purchased items.
type Entitlements interface {
	Load(ctx context.Context, playerID string) ([]string, error)
}

// Journal provides a per-player narrative sink.
type Journal interface {
	Sink(playerID string) survival.Sink
}

// Notifiers provides a per-player sound cue notifier.
type Notifiers interface {
	Notifier(gameID string) survival.Notifier
}

// Options configures a Manager. Only Store is required.
type Options struct {
	Store        Store
	Entitlements Entitlements
	Journal      Journal
	Notifiers    Notifiers
	Metrics      survival.Metrics
	// Seed makes every game's RNG deterministic when non-zero.
	Seed uint64
	// OnChange is called with the number of open games.
	OnChange func(open int)
}

// Game is one live engine plus the lines emitted during the current call.
type Game struct {
	mu     sync.Mutex
	engine *survival.Engine
	recent *survival.Log
}

// Do runs fn with exclusive access to the engine and returns the log lines
// emitted since the previous call.
func (g *Game) Do(fn func(e *survival.Engine) error) ([]survival.Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	err := fn(g.engine)
	return g.recent.Drain(), err
}

// View returns the current read model.
func (g *Game) View() survival.View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.View()
}

// Manager owns the open games.
type Manager struct {
	mu      sync.Mutex
	games   map[uuid.UUID]*Game
	loading map[uuid.UUID]*pending
	opts    Options
	logger  *slog.Logger
}

// pending is a game whose save is being read. Later opens of the same
// player wait on done instead of loading again.
type pending struct {
	done chan struct{}
	game *Game
	err  error
}

func NewManager(opts Options, logger *slog.Logger) *Manager {
	return &Manager{
		games:   make(map[uuid.UUID]*Game),
		loading: make(map[uuid.UUID]*pending),
		opts:    opts,
		logger:  logger,
	}
}

func (m *Manager) randFor(id uuid.UUID) *rng.Rand {
	if m.opts.Seed == 0 {
		return rng.New(nil)
	}
	return rng.NewSeeded(m.opts.Seed ^ binary.BigEndian.Uint64(id[:8]))
}

// Open returns the live game for id, loading the newest save or starting a
// new game in mode. created reports whether a fresh game was started. A nil
// id allocates a new player. Storage is read without holding the manager
// lock, so open games stay playable while another player loads.
func (m *Manager) Open(ctx context.Context, id uuid.UUID, name string, mode survival.GameMode) (g *Game, created bool, err error) {
	if id == uuid.Nil {
		id = uuid.New()
	}

	m.mu.Lock()
	if g, ok := m.games[id]; ok {
		m.mu.Unlock()
		return g, false, nil
	}
	if p, ok := m.loading[id]; ok {
		m.mu.Unlock()
		select {
		case <-p.done:
			return p.game, false, p.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	p := &pending{done: make(chan struct{})}
	m.loading[id] = p
	m.mu.Unlock()

	g, created, err = m.load(ctx, id, name, mode)

	m.mu.Lock()
	delete(m.loading, id)
	if err == nil {
		m.games[id] = g
		m.changed()
	}
	p.game, p.err = g, err
	m.mu.Unlock()
	close(p.done)

	if err != nil {
		return nil, false, err
	}
	return g, created, nil
}

func (m *Manager) load(ctx context.Context, id uuid.UUID, name string, mode survival.GameMode) (*Game, bool, error) {
	log := m.logger.With("player_uid", id.String())
	snap, err := m.opts.Store.Load(ctx, id.String())
	if err != nil {
		return nil, false, fmt.Errorf("failed to load game: %w", err)
	}
	var owned []string
	if m.opts.Entitlements != nil {
		if owned, err = m.opts.Entitlements.Load(ctx, id.String()); err != nil {
			return nil, false, fmt.Errorf("failed to load entitlements: %w", err)
		}
	}

	recent := &survival.Log{}
	var sink survival.Sink = recent
	if m.opts.Journal != nil {
		sink = survival.MultiSink{recent, m.opts.Journal.Sink(id.String())}
	}
	deps := survival.Deps{
		Rand:      m.randFor(id),
		Sink:      sink,
		Metrics:   m.opts.Metrics,
		Persister: m.opts.Store,
		Logger:    log,
	}
	if m.opts.Notifiers != nil {
		deps.Notifier = m.opts.Notifiers.Notifier(id.String())
	}

	engine := survival.New(id, name, deps)
	created := false
	if snap != nil {
		if err := engine.Restore(snap); err != nil {
			return nil, false, fmt.Errorf("failed to restore game: %w", err)
		}
		if name != "" {
			engine.SetPlayerName(name)
		}
		engine.SetEntitlements(owned)
		log.Info("Game restored", "day", engine.Day())
	} else {
		engine.SetEntitlements(owned)
		engine.NewGame(mode)
		if err := engine.Save(ctx); err != nil {
			log.Warn("Failed to save new game", "error", err)
		}
		created = true
		log.Info("New game started", "mode", mode)
	}
	return &Game{engine: engine, recent: recent}, created, nil
}

// Get returns an open game.
func (m *Manager) Get(id uuid.UUID) (*Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	return g, ok
}

// Evict drops a game from memory. Its save is untouched.
func (m *Manager) Evict(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return false
	}
	delete(m.games, id)
	m.changed()
	return true
}

// Len returns the number of open games.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

// SaveAll writes every open game, returning the first error.
func (m *Manager) SaveAll(ctx context.Context) error {
	m.mu.Lock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.Unlock()

	var first error
	for _, g := range games {
		if _, err := g.Do(func(e *survival.Engine) error { return e.Save(ctx) }); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Manager) changed() {
	if m.opts.OnChange != nil {
		m.opts.OnChange(len(m.games))
	}
}
