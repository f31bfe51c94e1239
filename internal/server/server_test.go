package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/dailycoach/internal/auth"
	"github.com/julianstephens/dailycoach/internal/pages"
	"github.com/julianstephens/dailycoach/internal/storage/sqlite"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	tokens, err := auth.NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	s := New(auth.NewService(store), tokens, pages.NewController(store), store)
	s.now = func() time.Time { return time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC) }
	return s
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
}

func call(t *testing.T, s *Server, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func signup(t *testing.T, s *Server) string {
	t.Helper()
	rec, env := call(t, s, http.MethodPost, "/api/signup", "", map[string]string{
		"name": "Jan Novak", "email": "j@example.com", "password": "pw1", "confirm_password": "pw1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tok tokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(t, tok.Token)
	return tok.Token
}

func TestSignupLoginFlow(t *testing.T) {
	s := newTestServer(t)
	signup(t, s)

	rec, env := call(t, s, http.MethodPost, "/api/login", "", map[string]string{"email": "j@example.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var tok tokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, "j@example.com", tok.User.Email)
	assert.NotContains(t, string(env.Data), "password_hash")

	rec, env = call(t, s, http.MethodPost, "/api/login", "", map[string]string{"email": "j@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid credentials", env.Error.Message)

	rec, env = call(t, s, http.MethodPost, "/api/signup", "", map[string]string{
		"name": "Other", "email": "j@example.com", "password": "x", "confirm_password": "x",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "user already exists", env.Error.Message)

	rec, _ = call(t, s, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing name", map[string]string{"email": "a@example.com", "password": "x", "confirm_password": "x"}, "name is required"},
		{"mismatch", map[string]string{"name": "A", "email": "a@example.com", "password": "x", "confirm_password": "y"}, "passwords do not match"},
		{"unknown field", map[string]string{"name": "A", "nickname": "a"}, "invalid request body"},
		{"password over 72 bytes", map[string]string{
			"name": "A", "email": "a@example.com",
			"password": strings.Repeat("é", 40), "confirm_password": strings.Repeat("é", 40),
		}, "at most 72 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := call(t, s, http.MethodPost, "/api/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Contains(t, env.Error.Message, tt.want)
			assert.Equal(t, "validation", env.Error.Kind)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"no bearer prefix", "abc.def.ghi"},
		{"garbage token", "Bearer abc.def.ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/home", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestHomeAndStatus(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s)

	rec, env := call(t, s, http.MethodGet, "/api/home", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var home pages.HomeView
	require.NoError(t, json.Unmarshal(env.Data, &home))
	assert.Equal(t, "Hello, Jan", home.Greeting)
	require.Len(t, home.Cards, 6)

	id := home.Cards[0].Habit.ID
	rec, env = call(t, s, http.MethodPut, "/api/habits/"+id+"/status", token, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out pages.Outcome[pages.HomeView]
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out.Refresh)
	assert.Equal(t, 1, out.View.Done)
	assert.Equal(t, 17, out.View.Progress)

	rec, env = call(t, s, http.MethodPost, "/api/habits/"+id+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 0, out.View.Done)

	rec, env = call(t, s, http.MethodPut, "/api/habits/"+id+"/status", token, map[string]string{"status": "skipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "status must be one of")

	rec, _ = call(t, s, http.MethodPost, "/api/habits/nope/toggle", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryAndStats(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s)

	_, env := call(t, s, http.MethodGet, "/api/home", token, nil)
	var home pages.HomeView
	require.NoError(t, json.Unmarshal(env.Data, &home))
	for _, c := range home.Cards[:3] {
		rec, _ := call(t, s, http.MethodPost, "/api/habits/"+c.Habit.ID+"/toggle", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, env := call(t, s, http.MethodGet, "/api/history?date=2024-01-15", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history pages.HistoryView
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history.Days, 1)
	assert.Equal(t, 3, history.Days[0].Done)

	rec, _ = call(t, s, http.MethodGet, "/api/history?date=yesterday", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = call(t, s, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats pages.StatsView
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	require.Len(t, stats.Series, 1)
	assert.Equal(t, 100, stats.Series[0].Percent)
	assert.Equal(t, 50, stats.TodayProgress)
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s)

	rec, env := call(t, s, http.MethodPost, "/api/habits", token, map[string]string{"title": "Read", "time": "9:00", "category": "Education"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out pages.Outcome[pages.SettingsView]
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.View.Habits, 7)

	var id string
	for _, h := range out.View.Habits {
		if h.Title == "Read" {
			id = h.ID
			assert.Equal(t, "09:00", h.ScheduledTime)
		}
	}
	require.NotEmpty(t, id)

	rec, _ = call(t, s, http.MethodPost, "/api/habits", token, map[string]string{"title": "Read"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = call(t, s, http.MethodPut, "/api/habits/"+id, token, map[string]string{"title": "Read more", "time": "10:00"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = call(t, s, http.MethodPut, "/api/preferences", token, map[string]bool{"dark_mode": true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out.View.Preferences.DarkMode)

	rec, env = call(t, s, http.MethodDelete, "/api/habits/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Len(t, out.View.Habits, 6)

	rec, _ = call(t, s, http.MethodDelete, "/api/habits/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = call(t, s, http.MethodDelete, "/api/account", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = call(t, s, http.MethodGet, "/api/settings", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)

	rec, env := call(t, s, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/home", nil)
	pre := httptest.NewRecorder()
	s.ServeHTTP(pre, req)
	assert.Equal(t, http.StatusOK, pre.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
