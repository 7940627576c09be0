package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loyalty_club_backend/internal/models"
	"loyalty_club_backend/internal/repositories"
	"loyalty_club_backend/internal/services"
	"loyalty_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	engine *gin.Engine
	gate   *services.SessionGate
}

type readOnlyStore struct{ repositories.RecordStore }

func (readOnlyStore) Put(context.Context, string, []byte) error { return errors.New("read-only") }

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithStore(t, repositories.NewMemoryRecordStore())
}

func newTestServerWithStore(t *testing.T, store repositories.RecordStore) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repositories.NewClientRepository(context.Background(), store, repositories.ClientRepositoryOptions{})
	require.NoError(t, err)
	clientService := services.NewClientService(repo)
	t.Cleanup(clientService.Close)

	gate := services.NewSessionGate()
	authService, err := services.NewAuthService(gate, utils.NewTokenManager("router-test", time.Hour), services.Credential{
		Email:    "admin@popcard.com",
		Password: "popcard2025",
		Name:     "Admin User",
	})
	require.NoError(t, err)

	engine := gin.New()
	Setup(engine, Dependencies{Gate: gate, AuthService: authService, ClientService: clientService})
	return &testServer{engine: engine, gate: gate}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@popcard.com","password":"popcard2025"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp services.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestViewRedirects(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/clients", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/clients", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/login", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	s.login(t)

	w = s.do(http.MethodGet, "/login", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/clients", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/clients?filter=highPoints", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]json.RawMessage](t, w)
	assert.JSONEq(t, `"/clients"`, string(body["view"]))
	view := decode[struct {
		Clients services.ClientsView `json:"clients"`
	}](t, w)
	assert.Equal(t, "High Points Clients", view.Clients.Title)
	assert.Equal(t, 3, view.Clients.Count)
}

func TestAPIRequiresSession(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/clients", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.login(t)
	w = s.do(http.MethodGet, "/api/v1/auth/me", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[models.Session](t, w)
	assert.True(t, session.Authenticated)
	assert.Equal(t, "Admin User", session.User.Name)

	w = s.do(http.MethodPost, "/api/v1/auth/logout", token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/clients", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@popcard.com","password":"nope-nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"bad","password":"popcard2025"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(http.MethodPost, "/api/v1/clients", token, `{"name":"Alice","email":"alice@example.com","phone":"+1 555 0100","points":"15","totalVisits":1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Client](t, w)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, 15, created.Points)

	w = s.do(http.MethodPost, "/api/v1/clients", token, `{"name":"Al","email":"nope","phone":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/clients", token, `{"name":"Al","email":"al@example.com","phone":"1","dateCreated":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/clients/4", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[models.Client](t, w))

	w = s.do(http.MethodPut, "/api/v1/clients/4", token, `{"name":"Alice B","email":"alice@example.com","phone":"+1 555 0100","points":20,"totalVisits":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Alice B", decode[models.Client](t, w).Name)

	w = s.do(http.MethodPut, "/api/v1/clients/99", token, `{"name":"Ghost","email":"g@example.com","phone":"1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/clients/4/points", token, `{"points":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	pointed := decode[models.Client](t, w)
	assert.Equal(t, 25, pointed.Points)
	assert.Equal(t, 3, pointed.TotalVisits)

	w = s.do(http.MethodPost, "/api/v1/clients/4/points", token, `{"points":"five"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/clients/4", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, "/api/v1/clients/4", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/v1/clients/4", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/clients/abc", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientListAndStats(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(http.MethodGet, "/api/v1/clients?search=jane", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[services.ClientsView](t, w)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "Jane Smith", view.Clients[0].Name)
	assert.Equal(t, 3, view.Stats.TotalClients)

	w = s.do(http.MethodGet, "/api/v1/clients?filter=new", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[services.ClientsView](t, w)
	assert.Equal(t, services.FilterNew, view.Filter)
	assert.Equal(t, "Jane Smith", view.Clients[0].Name)

	w = s.do(http.MethodGet, "/api/v1/clients/stats", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ClientStats{TotalClients: 3, TotalPoints: 750, TotalVisits: 35, AveragePoints: 250}, decode[models.ClientStats](t, w))
}

func TestPersistenceFailureResponse(t *testing.T) {
	s := newTestServerWithStore(t, readOnlyStore{repositories.NewMemoryRecordStore()})
	token := s.login(t)

	w := s.do(http.MethodPost, "/api/v1/clients/1/points", token, `{"points":10}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "PERSISTENCE_FAILED")

	// the points were still credited in memory
	w = s.do(http.MethodGet, "/api/v1/clients/1", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 260, decode[models.Client](t, w).Points)
}
