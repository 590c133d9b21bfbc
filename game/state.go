package game

import (
	"sort"
	"strings"

	"github.com/beka-birhanu/vinom-nav/agent"
	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/google/uuid"
)

// Vec3 is a world position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AgentState is a point-in-time view of one agent.
type AgentState struct {
	ID        uuid.UUID       `json:"id"`
	Cell      grid.Position   `json:"cell"`
	Position  Vec3            `json:"position"`
	Target    *grid.Position  `json:"target,omitempty"`
	Remaining []grid.Position `json:"remaining"`
	State     string          `json:"state"`
}

// State is a versioned snapshot of a session.
type State struct {
	SessionID uuid.UUID    `json:"session_id"`
	Version   int64        `json:"version"`
	Rows      int          `json:"rows"`
	Cols      int          `json:"cols"`
	Layout    []string     `json:"layout"`
	Agents    []AgentState `json:"agents"`
}

// Snapshot captures the current session state. Agents are ordered by ID.
func (s *Session) Snapshot() State {
	s.RLock()
	defer s.RUnlock()

	st := State{
		SessionID: s.id,
		Version:   s.version,
		Rows:      s.grid.Rows(),
		Cols:      s.grid.Cols(),
		Layout:    strings.Split(strings.TrimSuffix(s.grid.String(), "\n"), "\n"),
		Agents:    make([]AgentState, 0, len(s.agents)),
	}

	for id, m := range s.agents {
		st.Agents = append(st.Agents, agentState(id, m))
	}
	sort.Slice(st.Agents, func(i, j int) bool {
		return st.Agents[i].ID.String() < st.Agents[j].ID.String()
	})

	return st
}

// Agent returns the state of a single agent.
func (s *Session) Agent(id uuid.UUID) (AgentState, error) {
	s.RLock()
	defer s.RUnlock()

	m, ok := s.agents[id]
	if !ok {
		return AgentState{}, ErrAgentNotFound
	}
	return agentState(id, m), nil
}

func agentState(id uuid.UUID, m *agent.Motion) AgentState {
	pos := m.Position()
	as := AgentState{
		ID:        id,
		Cell:      m.CurrentCell().Position(),
		Position:  Vec3{X: pos.X, Y: pos.Y, Z: pos.Z},
		Remaining: make([]grid.Position, 0),
		State:     m.State().String(),
	}
	if target, ok := m.Target(); ok {
		p := target.Position()
		as.Target = &p
	}
	for _, c := range m.Remaining() {
		as.Remaining = append(as.Remaining, c.Position())
	}
	return as
}
