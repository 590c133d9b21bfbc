package navigationapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-nav/api"
	"github.com/beka-birhanu/vinom-nav/api/i"
	"github.com/beka-birhanu/vinom-nav/api/identity"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/grid"
	logger "github.com/beka-birhanu/vinom-nav/infrastruture/log"
	"github.com/beka-birhanu/vinom-nav/infrastruture/repo"
	"github.com/beka-birhanu/vinom-nav/infrastruture/routecache"
	"github.com/beka-birhanu/vinom-nav/infrastruture/token"
	"github.com/beka-birhanu/vinom-nav/pathfinder"
	"github.com/beka-birhanu/vinom-nav/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	layouts *repo.MemoryLayoutRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	layouts := repo.NewMemoryLayoutRepo()
	manager, err := service.NewNavigationSessionManager(&service.Config{
		LayoutRepo:   layouts,
		RouteCache:   routecache.NewMemoryRouteCache(time.Minute),
		Logger:       logger.Discard(),
		TickInterval: time.Hour,
		AgentSpeed:   1,
	})
	require.NoError(t, err)
	t.Cleanup(manager.StopAll)

	tokenizer := token.NewJwtService("test-secret", "vinom-nav")
	controller, err := NewController(manager, tokenizer, time.Minute)
	require.NoError(t, err)

	router := api.NewRouter(api.Config{
		BaseURL:                 "/api",
		Mode:                    gin.TestMode,
		Controllers:             []i.Controller{controller},
		AuthorizationMiddleware: identity.Authoriz(tokenizer),
	})
	return &testServer{handler: router.Handler(), layouts: layouts}
}

func (s *testServer) do(t *testing.T, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) newSession(t *testing.T, body interface{}) NewSessionResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/sessions", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp NewSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestNewSession(t *testing.T) {
	s := newTestServer(t)

	t.Run("Random grid", func(t *testing.T) {
		seed := int64(7)
		resp := s.newSession(t, NewSessionRequest{Size: 6, Seed: &seed})
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, resp.ID, resp.State.SessionID)
		assert.Equal(t, 6, resp.State.Rows)
		assert.Len(t, resp.State.Layout, 6)
	})

	t.Run("Empty body", func(t *testing.T) {
		resp := s.newSession(t, nil)
		assert.Equal(t, grid.DefaultGridSize, resp.State.Rows)
	})

	t.Run("Stored layout", func(t *testing.T) {
		require.NoError(t, s.layouts.Save(context.Background(), grid.Layout{Name: "wall", Rows: []string{".#.", ".#.", "..."}}))
		resp := s.newSession(t, NewSessionRequest{Layout: "wall"})
		assert.Equal(t, []string{".#.", ".#.", "..."}, resp.State.Layout)
	})

	t.Run("Errors", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/sessions", "", NewSessionRequest{Layout: "missing"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodPost, "/api/v1/sessions", "", NewSessionRequest{Size: -3})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProtectedRoutes(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.layouts.Save(context.Background(), grid.Layout{Name: "wall", Rows: []string{
		".#.",
		".#.",
		".#.",
	}}))
	session := s.newSession(t, NewSessionRequest{Layout: "wall"})
	base := "/api/v1/sessions/" + session.ID.String()

	t.Run("Authorization", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, base, "", nil).Code)

		other := s.newSession(t, NewSessionRequest{Layout: "wall"})
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, base, other.Token, nil).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/sessions/nope", session.Token, nil).Code)
	})

	var spawned SpawnResponse
	t.Run("Spawn", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/agents", session.Token, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spawned))
		assert.NotEqual(t, 1, spawned.Cell.Col)
	})

	t.Run("Move", func(t *testing.T) {
		movePath := base + "/agents/" + spawned.ID.String() + "/move"
		sameSide := spawned.Cell.Col
		otherSide := 2 - sameSide

		row := (spawned.Cell.Row + 1) % 3
		w := s.do(t, http.MethodPost, movePath, session.Token, gin.H{"row": row, "col": sameSide})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp MoveResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Route)
		assert.Equal(t, grid.Position{Row: row, Col: sameSide}, resp.Route[len(resp.Route)-1])

		w = s.do(t, http.MethodPost, movePath, session.Token, gin.H{"row": 0, "col": otherSide})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = s.do(t, http.MethodPost, movePath, session.Token, gin.H{"row": 9, "col": 9})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPost, movePath, session.Token, gin.H{"row": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPost, base+"/agents/"+session.ID.String()+"/move", session.Token, gin.H{"row": 0, "col": 0})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("State", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base, session.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var st game.State
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
		require.Len(t, st.Agents, 1)
		assert.Equal(t, spawned.ID, st.Agents[0].ID)
		assert.Equal(t, "moving", st.Agents[0].State)
	})

	t.Run("End", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, base, session.Token, nil).Code)
		assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, base, session.Token, nil).Code)
	})
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(pathfinder.ErrNoRoute))
	assert.Equal(t, http.StatusConflict, statusOf(game.ErrTooManyAgents))
	assert.Equal(t, http.StatusConflict, statusOf(game.ErrPlanConflict))
	assert.Equal(t, http.StatusNotFound, statusOf(service.ErrSessionNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
}
