package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/tmdb"
)

func TestGetAppendsKeyAndRelaysBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "key123", r.URL.Query().Get("api_key"))
		assert.Equal(t, "dune", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer upstream.Close()

	c := tmdb.New("key123", upstream.URL)
	res, err := c.Get(context.Background(), "search/movie", url.Values{"query": {"dune"}})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Status)
	require.JSONEq(t, `{"results":[]}`, string(res.Body))
}

func TestGetReturnsUpstreamStatusNotError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7}`))
	}))
	defer upstream.Close()

	c := tmdb.New("bad-key", upstream.URL)
	res, err := c.Get(context.Background(), "/movie/1", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.Status)
}

func TestGetTransportFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	c := tmdb.New("key", upstream.URL)
	_, err := c.Get(context.Background(), "/movie/1", nil)
	require.Error(t, err)
}

func TestImageURL(t *testing.T) {
	require.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", tmdb.ImageURL("/abc.jpg", "w500"))
	require.Equal(t, "https://image.tmdb.org/t/p/original/abc.jpg", tmdb.ImageURL("abc.jpg", ""))
	require.Equal(t, "", tmdb.ImageURL("", "w200"))
}
