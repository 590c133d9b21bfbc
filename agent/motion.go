/*
Package agent turns routes into continuous movement.

A Motion tracks the cell an agent last arrived at, the cell it is walking toward and the
cells still queued behind it. Tick advances the agent along straight lines between cell
centers at a fixed speed, snapping onto each cell as it arrives.
*/
package agent

import (
	"math"

	"github.com/beka-birhanu/vinom-nav/grid"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultSpeed is measured in cells per second.
	DefaultSpeed = 2.0

	// DefaultArrivalEpsilon is the distance at which a target counts as reached.
	DefaultArrivalEpsilon = 1e-3
)

// State is the externally visible movement state used to pick idle or walk animations.
type State int

const (
	StateIdle State = iota
	StateMoving
)

func (s State) String() string {
	if s == StateMoving {
		return "moving"
	}
	return "idle"
}

// Option configures a Motion.
type Option func(*Motion)

// WithSpeed sets the movement speed in cells per second. Non-positive values are ignored.
func WithSpeed(speed float64) Option {
	return func(m *Motion) {
		if speed > 0 {
			m.speed = speed
		}
	}
}

// WithArrivalEpsilon sets the arrival threshold. Non-positive values are ignored.
func WithArrivalEpsilon(epsilon float64) Option {
	return func(m *Motion) {
		if epsilon > 0 {
			m.epsilon = epsilon
		}
	}
}

// Motion is the movement state of a single agent. It is not safe for concurrent use.
type Motion struct {
	current  grid.Cell   // Last cell the agent arrived at
	target   grid.Cell   // Cell being approached, valid when moving
	moving   bool        // Whether target is set
	route    []grid.Cell // Cells queued after target
	position r3.Vec      // World position
	speed    float64     // Cells per second
	epsilon  float64     // Arrival threshold
	arrivals int         // Cells reached since creation
}

// New places an idle agent on the center of start.
func New(start grid.Cell, opts ...Option) *Motion {
	m := &Motion{
		current:  start,
		position: WorldPosition(start),
		speed:    DefaultSpeed,
		epsilon:  DefaultArrivalEpsilon,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetRoute replaces any queued cells with route and starts walking toward its first
// cell. The route is copied. An empty route behaves like Stop.
func (m *Motion) SetRoute(route []grid.Cell) {
	if len(route) == 0 {
		m.Stop()
		return
	}
	m.route = append([]grid.Cell(nil), route...)
	m.moving = false
	m.advanceTarget()
}

// Stop drops every queued cell. A moving agent keeps its target and finishes the step
// it is on, so it always comes to rest on a cell center.
func (m *Motion) Stop() {
	m.route = nil
}

// Tick advances the agent by speed × dt toward its target and reports whether it moved.
// Reaching a target snaps the agent onto it and the unused distance carries on toward
// the next queued cell within the same tick, so step timing depends only on distance
// travelled. NaN, infinite and non-positive deltas are ignored.
func (m *Motion) Tick(dt float64) bool {
	if !m.moving || !validDelta(dt) {
		return false
	}

	budget := m.speed * dt
	for m.moving {
		goal := WorldPosition(m.target)
		delta := r3.Sub(goal, m.position)
		dist := r3.Norm(delta)

		if dist <= m.epsilon || dist <= budget {
			budget -= dist
			m.arrive()
			if budget <= 0 {
				return true
			}
			continue
		}

		m.position = r3.Add(m.position, r3.Scale(budget, r3.Unit(delta)))
		return true
	}
	return true
}

func validDelta(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 1)
}

func (m *Motion) arrive() {
	m.position = WorldPosition(m.target)
	m.current = m.target
	m.arrivals++
	m.moving = false
	m.advanceTarget()
}

func (m *Motion) advanceTarget() {
	if len(m.route) == 0 {
		m.route = nil
		return
	}
	m.target = m.route[0]
	m.route = m.route[1:]
	m.moving = true
}

// CurrentCell returns the last cell the agent arrived at.
func (m *Motion) CurrentCell() grid.Cell {
	return m.current
}

// Target returns the cell being approached.
func (m *Motion) Target() (grid.Cell, bool) {
	return m.target, m.moving
}

// Remaining returns a copy of the cells queued after the target.
func (m *Motion) Remaining() []grid.Cell {
	return append([]grid.Cell(nil), m.route...)
}

// Position returns the agent's world position.
func (m *Motion) Position() r3.Vec {
	return m.position
}

// Idle reports whether the agent has no target and no queued cells.
func (m *Motion) Idle() bool {
	return !m.moving
}

// State returns StateMoving while a target is set.
func (m *Motion) State() State {
	if m.moving {
		return StateMoving
	}
	return StateIdle
}

// Speed returns the configured speed in cells per second.
func (m *Motion) Speed() float64 {
	return m.speed
}

// Arrivals returns how many cells the agent has reached.
func (m *Motion) Arrivals() int {
	return m.arrivals
}
