package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/auth"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/handlers"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/httpserver"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/store"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/tmdb"
)

const testSecret = "test-secret"

type testEnv struct {
	srv    *httptest.Server
	store  *store.Store
	issuer *auth.TokenIssuer
}

// newTestEnv assembles the full router the way cmd/api does, backed by a
// throwaway sqlite database. tmdbBase may be "" when the test never touches
// the proxy.
func newTestEnv(t *testing.T, tmdbBase string) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.Migrate())

	issuer := &auth.TokenIssuer{Secret: []byte(testSecret), Issuer: "movietracking", TTL: time.Hour}
	verifier := auth.NewVerifier([]byte(testSecret), "movietracking")

	wlHandler := handlers.NewWatchlistHandler(st)
	tmdbHandler := handlers.NewTMDBHandler(tmdb.New("secret-api-key", tmdbBase))
	authHandler := handlers.NewAuthHandler(st, issuer)

	srv := httpserver.NewServer(func(r chi.Router) {
		r.Route("/tmdb", tmdbHandler.Routes)
		r.Route("/auth", func(r chi.Router) {
			authHandler.PublicRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(verifier.Middleware)
				r.Get("/me", authHandler.Me)
			})
		})
		r.Group(func(r chi.Router) {
			r.Use(verifier.Middleware)
			r.Route("/watchlists", wlHandler.Routes)
		})
	})

	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return &testEnv{srv: ts, store: st, issuer: issuer}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := e.issuer.Issue(userID)
	require.NoError(t, err)
	return tok
}

// request performs an HTTP call against the test server and decodes the JSON
// response into out when non-nil.
func (e *testEnv) request(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body = io.NopCloser(bytes.NewReader(data))
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
	}
	return res
}

func msgOf(t *testing.T, res *http.Response) string {
	t.Helper()
	var payload struct {
		Msg string `json:"msg"`
	}
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload.Msg
}
