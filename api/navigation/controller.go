package navigationapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-nav/api/identity"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/pathfinder"
	"github.com/beka-birhanu/vinom-nav/service"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultTokenTTL = 12 * time.Hour

// Controller manages navigation sessions.
type Controller struct {
	sessions  i.NavigationSessionManager
	tokenizer i.Tokenizer
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewController initializes a Controller. A non-positive tokenTTL falls back to 12h.
func NewController(nsm i.NavigationSessionManager, ts i.Tokenizer, tokenTTL time.Duration) (*Controller, error) {
	if nsm == nil || ts == nil {
		return nil, errors.New("session manager and tokenizer are required")
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &Controller{
		sessions:  nsm,
		tokenizer: ts,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}, nil
}

// RegisterPublic registers public routes.
func (c *Controller) RegisterPublic(route *gin.RouterGroup) {
	route.POST("/sessions", c.newSession)
}

// RegisterProtected registers protected routes.
func (c *Controller) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions/:ID")
	sessions.Use(c.ownSession)
	{
		sessions.GET("", c.state)
		sessions.DELETE("", c.endSession)
		sessions.POST("/agents", c.spawnAgent)
		sessions.POST("/agents/:agentID/move", c.move)
	}
}

// newSession creates a session and hands out a token scoped to it.
func (c *Controller) newSession(ctx *gin.Context) {
	var request NewSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		id  uuid.UUID
		err error
	)
	if request.Layout != "" {
		id, err = c.sessions.NewSessionFromLayout(ctx, request.Layout)
	} else {
		seed := c.now().UnixNano()
		if request.Seed != nil {
			seed = *request.Seed
		}
		id, err = c.sessions.NewSession(ctx, request.Size, seed)
	}
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	token, err := c.tokenizer.Generate(map[string]interface{}{identity.ClaimSessionID: id.String()}, c.tokenTTL)
	if err != nil {
		_ = c.sessions.EndSession(id)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while issuing token"})
		return
	}

	state, err := c.sessions.State(id)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, &NewSessionResponse{ID: id, Token: token, State: state})
}

// ownSession parses :ID and rejects tokens issued for another session.
func (c *Controller) ownSession(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	claimed, ok := identity.SessionID(ctx)
	if !ok || claimed != id.String() {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not grant this session"})
		return
	}

	ctx.Set("sessionID", id)
	ctx.Next()
}

func sessionID(ctx *gin.Context) uuid.UUID {
	return ctx.MustGet("sessionID").(uuid.UUID)
}

// state returns the latest snapshot of the session.
func (c *Controller) state(ctx *gin.Context) {
	state, err := c.sessions.State(sessionID(ctx))
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// endSession stops the session.
func (c *Controller) endSession(ctx *gin.Context) {
	if err := c.sessions.EndSession(sessionID(ctx)); err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// spawnAgent places a new agent on the grid edge.
func (c *Controller) spawnAgent(ctx *gin.Context) {
	id, at, err := c.sessions.SpawnAgent(ctx, sessionID(ctx))
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, &SpawnResponse{ID: id, Cell: at.Position()})
}

// move sends an agent towards the requested cell.
func (c *Controller) move(ctx *gin.Context) {
	agentID, err := uuid.Parse(ctx.Param("agentID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent id"})
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal := grid.Position{Row: *request.Row, Col: *request.Col}
	route, err := c.sessions.Move(ctx, sessionID(ctx), agentID, goal)
	if err != nil {
		ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, &MoveResponse{Route: route.Positions()})
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, game.ErrAgentNotFound),
		errors.Is(err, i.ErrLayoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, pathfinder.ErrInvalidEndpoint),
		errors.Is(err, grid.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidGridSize),
		errors.Is(err, service.ErrInvalidLayoutName),
		errors.Is(err, grid.ErrInvalidLayout):
		return http.StatusBadRequest
	case errors.Is(err, pathfinder.ErrNoRoute):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrTooManyAgents),
		errors.Is(err, game.ErrPlanConflict),
		errors.Is(err, grid.ErrEmptyEdgeSet):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoLayoutRepo):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
