package i

import (
	"context"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/pathfinder"
	"github.com/google/uuid"
)

// NavigationSessionManager creates navigation sessions and relays commands to them.
type NavigationSessionManager interface {
	// NewSession builds a random size × size grid from seed and starts a session on it.
	NewSession(ctx context.Context, size int, seed int64) (uuid.UUID, error)

	// NewSessionFromLayout starts a session on a stored layout.
	NewSessionFromLayout(ctx context.Context, name string) (uuid.UUID, error)

	// SpawnAgent places a new agent on a random passable edge cell.
	SpawnAgent(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, grid.Cell, error)

	// Move plans a route for an agent and sets it walking.
	Move(ctx context.Context, sessionID, agentID uuid.UUID, goal grid.Position) (pathfinder.Route, error)

	// State returns a snapshot of the session.
	State(sessionID uuid.UUID) (game.State, error)

	// EndSession stops a session and forgets it.
	EndSession(sessionID uuid.UUID) error
}
