// Package navigationapi exposes navigation sessions over HTTP.
package navigationapi

import (
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/google/uuid"
)

// NewSessionRequest asks for a session on a random grid, or on a stored layout when
// Layout is set.
type NewSessionRequest struct {
	Size   int    `json:"size"`
	Seed   *int64 `json:"seed"`
	Layout string `json:"layout"`
}

// NewSessionResponse carries the session token every protected route requires.
type NewSessionResponse struct {
	ID    uuid.UUID  `json:"id"`
	Token string     `json:"token"`
	State game.State `json:"state"`
}

// SpawnResponse describes a freshly spawned agent.
type SpawnResponse struct {
	ID   uuid.UUID     `json:"id"`
	Cell grid.Position `json:"cell"`
}

// MoveRequest names the goal cell of an agent.
type MoveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// MoveResponse lists the cells the agent will walk through.
type MoveResponse struct {
	Route []grid.Position `json:"route"`
}
