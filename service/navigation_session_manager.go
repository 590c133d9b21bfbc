package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-nav/agent"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/pathfinder"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/google/uuid"
)

const (
	defaultTickInterval = 16 * time.Millisecond
	maxGridSize         = 64
	maxGridRerolls      = 8

	routeKeyFmt = "navigation:route:%s:%d,%d:%d,%d"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidGridSize = errors.New("invalid grid size")
	ErrNoLayoutRepo    = errors.New("layout repository is not configured")
	ErrUnplayableGrid  = errors.New("could not build a grid with a passable edge")
)

type navigationSession struct {
	session     *game.Session
	rng         *rand.Rand // spawn source, guarded by the manager lock
	fingerprint string
	cancel      context.CancelFunc
}

// Config holds the collaborators of a NavigationSessionManager.
type Config struct {
	LayoutRepo   i.LayoutRepo           // Optional; enables layout persistence.
	RouteCache   i.RouteCache           // Optional; routes are searched directly without it.
	Pathfinder   *pathfinder.Pathfinder // Defaults to pathfinder.New().
	Logger       i.Logger
	TickInterval time.Duration
	AgentSpeed   float64
}

// NavigationSessionManager owns every running navigation session.
type NavigationSessionManager struct {
	sessions     map[uuid.UUID]*navigationSession
	layoutRepo   i.LayoutRepo
	routeCache   i.RouteCache
	pathfinder   *pathfinder.Pathfinder
	logger       i.Logger
	tickInterval time.Duration
	agentSpeed   float64
	sync.RWMutex
}

// NewNavigationSessionManager creates a manager from c.
func NewNavigationSessionManager(c *Config) (*NavigationSessionManager, error) {
	if c == nil || c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	pf := c.Pathfinder
	if pf == nil {
		pf = pathfinder.New()
	}

	interval := c.TickInterval
	if interval <= 0 {
		interval = defaultTickInterval
	}

	return &NavigationSessionManager{
		sessions:     make(map[uuid.UUID]*navigationSession),
		layoutRepo:   c.LayoutRepo,
		routeCache:   c.RouteCache,
		pathfinder:   pf,
		logger:       c.Logger,
		tickInterval: interval,
		agentSpeed:   c.AgentSpeed,
	}, nil
}

// NewSession builds a seeded random grid and starts a session on it. Grids whose edge
// ring is fully blocked are re-rolled from the same random source.
func (m *NavigationSessionManager) NewSession(ctx context.Context, size int, seed int64) (uuid.UUID, error) {
	if size == 0 {
		size = grid.DefaultGridSize
	}
	if size < 0 || size > maxGridSize {
		return uuid.Nil, fmt.Errorf("%w: %d", ErrInvalidGridSize, size)
	}

	rng := rand.New(rand.NewSource(seed))
	var g *grid.Grid
	for attempt := 0; attempt < maxGridRerolls; attempt++ {
		candidate, err := grid.Build(size, rng)
		if err != nil {
			return uuid.Nil, err
		}
		if _, err := candidate.RandomEdgeCell(rng); err != nil {
			if errors.Is(err, grid.ErrEmptyEdgeSet) {
				m.logger.Warning(fmt.Sprintf("re-rolling grid without passable edge: seed=%d attempt=%d", seed, attempt))
				continue
			}
			return uuid.Nil, err
		}
		g = candidate
		break
	}
	if g == nil {
		return uuid.Nil, ErrUnplayableGrid
	}

	id := uuid.New()
	if m.layoutRepo != nil {
		if err := m.layoutRepo.Save(ctx, grid.LayoutOf(id.String(), g)); err != nil {
			m.logger.Warning(fmt.Sprintf("saving layout of session %s: %s", id, err))
		}
	}

	return id, m.startSession(id, g, rng)
}

// NewSessionFromLayout starts a session on the stored layout called name.
func (m *NavigationSessionManager) NewSessionFromLayout(ctx context.Context, name string) (uuid.UUID, error) {
	if m.layoutRepo == nil {
		return uuid.Nil, ErrNoLayoutRepo
	}
	if err := validateLayoutName(name); err != nil {
		return uuid.Nil, err
	}

	layout, err := m.layoutRepo.ByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	g, err := layout.Grid()
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	return id, m.startSession(id, g, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func (m *NavigationSessionManager) startSession(id uuid.UUID, g *grid.Grid, rng *rand.Rand) error {
	session, err := game.NewSession(id, g, m.pathfinder.FindRoute, agent.WithSpeed(m.agentSpeed))
	if err != nil {
		m.logger.Error(fmt.Sprintf("creating session: %s", err))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.Lock()
	m.sessions[id] = &navigationSession{
		session:     session,
		rng:         rng,
		fingerprint: g.Fingerprint(),
		cancel:      cancel,
	}
	m.Unlock()

	go func() {
		if err := session.Start(ctx, m.tickInterval); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, game.ErrSessionStopped) {
			m.logger.Error(fmt.Sprintf("session %s loop: %s", id, err))
		}
	}()

	m.logger.Info(fmt.Sprintf("started session %s on %dx%d grid", id, g.Rows(), g.Cols()))
	return nil
}

func (m *NavigationSessionManager) lookup(id uuid.UUID) (*navigationSession, error) {
	m.RLock()
	defer m.RUnlock()
	ns, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ns, nil
}

// SpawnAgent places a new agent on a random passable edge cell of the session's grid.
func (m *NavigationSessionManager) SpawnAgent(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, grid.Cell, error) {
	m.Lock()
	defer m.Unlock()

	ns, ok := m.sessions[sessionID]
	if !ok {
		return uuid.Nil, grid.Cell{}, ErrSessionNotFound
	}

	id, at, err := ns.session.SpawnAgentAtEdge(ns.rng)
	if err != nil {
		return uuid.Nil, grid.Cell{}, err
	}
	m.logger.Info(fmt.Sprintf("spawned agent %s at %s in session %s", id, at, sessionID))
	return id, at, nil
}

// Move plans a route for the agent to goal, consulting the route cache first.
func (m *NavigationSessionManager) Move(ctx context.Context, sessionID, agentID uuid.UUID, goal grid.Position) (pathfinder.Route, error) {
	ns, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	route, err := ns.session.MoveWith(agentID, grid.Cell{Row: goal.Row, Col: goal.Col}, m.cachedPlanner(ctx, ns.fingerprint))
	if err != nil {
		if errors.Is(err, pathfinder.ErrNoRoute) {
			m.logger.Info(fmt.Sprintf("no route for agent %s to %s", agentID, goal))
		}
		return nil, err
	}
	return route, nil
}

// cachedPlanner wraps the pathfinder with the route cache. Cache failures fall back to
// a direct search.
func (m *NavigationSessionManager) cachedPlanner(ctx context.Context, fingerprint string) game.Planner {
	return func(g *grid.Grid, start, goal grid.Cell) (pathfinder.Route, error) {
		if m.routeCache == nil {
			return m.pathfinder.FindRoute(g, start, goal)
		}

		key := routeKey(fingerprint, start.Position(), goal.Position())
		positions, hit, err := m.routeCache.Fetch(ctx, key, func() ([]grid.Position, error) {
			route, err := m.pathfinder.FindRoute(g, start, goal)
			if err != nil {
				return nil, err
			}
			return route.Positions(), nil
		})
		if err != nil {
			if errors.Is(err, pathfinder.ErrNoRoute) || errors.Is(err, pathfinder.ErrInvalidEndpoint) {
				return nil, err
			}
			m.logger.Warning(fmt.Sprintf("route cache unavailable: %s", err))
			return m.pathfinder.FindRoute(g, start, goal)
		}

		route, err := routeFromPositions(g, start, positions)
		if err != nil {
			m.logger.Warning(fmt.Sprintf("discarding cached route %s (hit=%t): %s", key, hit, err))
			return m.pathfinder.FindRoute(g, start, goal)
		}
		return route, nil
	}
}

// routeKey names a route by the grid layout it crosses and its endpoints, so sessions on
// identical layouts share entries.
func routeKey(fingerprint string, start, goal grid.Position) string {
	return fmt.Sprintf(routeKeyFmt, fingerprint, start.Row, start.Col, goal.Row, goal.Col)
}

func routeFromPositions(g *grid.Grid, start grid.Cell, positions []grid.Position) (pathfinder.Route, error) {
	route := make(pathfinder.Route, 0, len(positions))
	for _, p := range positions {
		c, err := g.At(p.Row, p.Col)
		if err != nil {
			return nil, err
		}
		route = append(route, c)
	}
	if err := route.Validate(g, start); err != nil {
		return nil, err
	}
	return route, nil
}

// State returns a snapshot of the session.
func (m *NavigationSessionManager) State(sessionID uuid.UUID) (game.State, error) {
	ns, err := m.lookup(sessionID)
	if err != nil {
		return game.State{}, err
	}
	return ns.session.Snapshot(), nil
}

// EndSession stops the session's tick loop and forgets it.
func (m *NavigationSessionManager) EndSession(sessionID uuid.UUID) error {
	m.Lock()
	ns, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	ns.session.Stop()
	ns.cancel()
	m.logger.Info(fmt.Sprintf("ended session %s", sessionID))
	return nil
}

// StopAll ends every session.
func (m *NavigationSessionManager) StopAll() {
	m.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*navigationSession)
	m.Unlock()

	for _, ns := range sessions {
		ns.session.Stop()
		ns.cancel()
	}
}
