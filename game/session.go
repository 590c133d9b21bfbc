package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-nav/agent"
	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/pathfinder"
	"github.com/google/uuid"
)

// Session-related errors.
var (
	ErrAgentNotFound   = errors.New("agent not found")
	ErrAgentExists     = errors.New("agent already exists")
	ErrTooManyAgents   = errors.New("too many agents")
	ErrInvalidSpawn    = errors.New("agents must spawn on a passable cell")
	ErrSessionStopped  = errors.New("session is stopped")
	ErrInvalidInterval = errors.New("tick interval must be positive")
	ErrPlanConflict    = errors.New("agent kept moving while its route was planned")
)

const (
	maxAgents = 4 // Maximum number of agents per session.

	stateBufferSize = 1
	maxPlanAttempts = 3
)

// Planner computes a route across g. pathfinder.Pathfinder.FindRoute satisfies it.
type Planner func(g *grid.Grid, start, goal grid.Cell) (pathfinder.Route, error)

// Session owns one grid and the agents walking on it. The grid never changes, so
// planners read it without the session lock while agents keep ticking.
type Session struct {
	id        uuid.UUID                   // Session identifier.
	grid      *grid.Grid                  // Immutable for the session's lifetime.
	planner   Planner                     // Default route planner.
	agents    map[uuid.UUID]*agent.Motion // Agents indexed by their IDs.
	agentOpts []agent.Option              // Options applied to spawned agents.
	version   int64                       // State version, bumped on every change.
	StateChan chan State                  // Latest state, published by the tick loop.
	stop      chan struct{}               // Closed to end the tick loop.
	done      chan struct{}               // Closed once the tick loop returns.
	stopOnce  sync.Once
	running   bool
	sync.RWMutex
}

// NewSession creates a session over g that plans with planner.
func NewSession(id uuid.UUID, g *grid.Grid, planner Planner, agentOpts ...agent.Option) (*Session, error) {
	if g == nil {
		return nil, grid.ErrInvalidDimensions
	}
	if planner == nil {
		planner = pathfinder.New().FindRoute
	}

	return &Session{
		id:        id,
		grid:      g,
		planner:   planner,
		agents:    make(map[uuid.UUID]*agent.Motion),
		agentOpts: agentOpts,
		StateChan: make(chan State, stateBufferSize),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Grid returns the session's grid. Callers must not mutate it.
func (s *Session) Grid() *grid.Grid {
	return s.grid
}

// SpawnAgent places a new idle agent on cell.
func (s *Session) SpawnAgent(id uuid.UUID, at grid.Cell) error {
	cell, err := s.grid.At(at.Row, at.Col)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpawn, err)
	}
	if cell.Obstacle {
		return fmt.Errorf("%w: %s is an obstacle", ErrInvalidSpawn, cell)
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.agents[id]; ok {
		return ErrAgentExists
	}
	if len(s.agents) >= maxAgents {
		return ErrTooManyAgents
	}

	s.agents[id] = agent.New(cell, s.agentOpts...)
	s.version++
	return nil
}

// SpawnAgentAtEdge places a new agent on a random passable edge cell.
func (s *Session) SpawnAgentAtEdge(rng *rand.Rand) (uuid.UUID, grid.Cell, error) {
	cell, err := s.grid.RandomEdgeCell(rng)
	if err != nil {
		return uuid.Nil, grid.Cell{}, err
	}

	id := uuid.New()
	if err := s.SpawnAgent(id, cell); err != nil {
		return uuid.Nil, grid.Cell{}, err
	}
	return id, cell, nil
}

// RemoveAgent deletes an agent from the session.
func (s *Session) RemoveAgent(id uuid.UUID) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.agents[id]; !ok {
		return ErrAgentNotFound
	}
	delete(s.agents, id)
	s.version++
	return nil
}

// Move plans a route for the agent to goal with the session's planner.
func (s *Session) Move(id uuid.UUID, goal grid.Cell) (pathfinder.Route, error) {
	return s.MoveWith(id, goal, s.planner)
}

// MoveWith plans a route for the agent to goal with planner and hands it to the agent.
//
// An idle agent is planned from its current cell. A moving agent first finishes the step
// it is on: planning starts at its target, and the target leads the returned route. When
// no route exists the agent keeps its previous orders and the planner's error is returned.
//
// The planner runs without the session lock. If the agent's origin changed while it was
// planning, the route is discarded and planning starts over.
func (s *Session) MoveWith(id uuid.UUID, goal grid.Cell, planner Planner) (pathfinder.Route, error) {
	for attempt := 0; attempt < maxPlanAttempts; attempt++ {
		s.RLock()
		m, ok := s.agents[id]
		if !ok {
			s.RUnlock()
			return nil, ErrAgentNotFound
		}
		origin, moving := planOrigin(m)
		s.RUnlock()

		route, err := planner(s.grid, origin, goal)
		if err != nil {
			return nil, err
		}

		s.Lock()
		current, ok := s.agents[id]
		if !ok {
			s.Unlock()
			return nil, ErrAgentNotFound
		}
		if now, stillMoving := planOrigin(current); current != m || now != origin || stillMoving != moving {
			s.Unlock()
			continue
		}

		if moving {
			route = append(pathfinder.Route{origin}, route...)
		}
		m.SetRoute(route)
		s.version++
		s.Unlock()
		return route.Clone(), nil
	}
	return nil, ErrPlanConflict
}

// planOrigin returns the cell a new route for m starts from and whether m is mid-step.
func planOrigin(m *agent.Motion) (grid.Cell, bool) {
	if target, moving := m.Target(); moving {
		return target, true
	}
	return m.CurrentCell(), false
}

// Halt drops the agent's queued cells. An agent between cells finishes its current step.
func (s *Session) Halt(id uuid.UUID) error {
	s.Lock()
	defer s.Unlock()

	m, ok := s.agents[id]
	if !ok {
		return ErrAgentNotFound
	}
	m.Stop()
	s.version++
	return nil
}

// Step advances every agent by dt seconds and reports whether any agent moved.
func (s *Session) Step(dt float64) bool {
	s.Lock()
	defer s.Unlock()

	moved := false
	for _, m := range s.agents {
		if m.Tick(dt) {
			moved = true
		}
	}
	if moved {
		s.version++
	}
	return moved
}

// Start runs the tick loop until ctx is done or Stop is called. Each tick advances
// agents by the wall-clock time since the previous tick and publishes the new state
// on StateChan, replacing any state the consumer has not read yet.
func (s *Session) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	s.Lock()
	select {
	case <-s.stop:
		s.Unlock()
		return ErrSessionStopped
	default:
	}
	if s.running {
		s.Unlock()
		return nil
	}
	s.running = true
	s.Unlock()

	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if s.Step(dt) {
				s.publish(s.Snapshot())
			}
		}
	}
}

// publish replaces any unread state on StateChan with st.
func (s *Session) publish(st State) {
	select {
	case <-s.StateChan:
	default:
	}
	select {
	case s.StateChan <- st:
	default:
	}
}

// Stop ends the tick loop and waits for it to return. It is safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	s.RLock()
	running := s.running
	s.RUnlock()
	if running {
		<-s.done
	}
}
