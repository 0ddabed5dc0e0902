package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/models"
)

func TestWatchlistsRequireToken(t *testing.T) {
	env := newTestEnv(t, "")
	res := env.request(t, http.MethodGet, "/api/watchlists", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestFavoritesEndToEnd(t *testing.T) {
	env := newTestEnv(t, "")
	tok := env.token(t, "user-1")

	var created models.Watchlist
	res := env.request(t, http.MethodPost, "/api/watchlists", tok, map[string]string{"name": "Favorites"}, &created)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Favorites", created.Name)
	require.NotNil(t, created.Items)
	require.Empty(t, created.Items)

	var lists []models.Watchlist
	res = env.request(t, http.MethodGet, "/api/watchlists", tok, nil, &lists)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, lists, 1)
	require.Equal(t, "Favorites", lists[0].Name)
	require.Empty(t, lists[0].Items)

	item := map[string]any{"tmdbId": 27205, "mediaType": "movie", "title": "Inception"}
	var updated models.Watchlist
	res = env.request(t, http.MethodPost, "/api/watchlists/"+created.ID+"/items", tok, item, &updated)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, updated.Items, 1)
	require.EqualValues(t, 27205, updated.Items[0].TMDBID)
	require.Equal(t, "Inception", updated.Items[0].Title)
	require.False(t, updated.Items[0].Watched)

	// The same (tmdbId, mediaType) a second time is rejected.
	res = env.request(t, http.MethodPost, "/api/watchlists/"+created.ID+"/items", tok, item, nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, "Item already in watchlist", msgOf(t, res))
}

func TestDeleteWatchlist(t *testing.T) {
	env := newTestEnv(t, "")
	tok := env.token(t, "user-1")

	var created models.Watchlist
	env.request(t, http.MethodPost, "/api/watchlists", tok, map[string]string{"name": "Gone Soon"}, &created)

	res := env.request(t, http.MethodDelete, "/api/watchlists/"+created.ID, tok, nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Watchlist removed", msgOf(t, res))

	res = env.request(t, http.MethodDelete, "/api/watchlists/"+created.ID, tok, nil, nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, "Watchlist not found", msgOf(t, res))
}

func TestForeignWatchlistIsUnauthorizedNotNotFound(t *testing.T) {
	env := newTestEnv(t, "")
	ownerTok := env.token(t, "owner")
	otherTok := env.token(t, "other")

	var created models.Watchlist
	env.request(t, http.MethodPost, "/api/watchlists", ownerTok, map[string]string{"name": "Private"}, &created)

	res := env.request(t, http.MethodDelete, "/api/watchlists/"+created.ID, otherTok, nil, nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Equal(t, "Not authorized", msgOf(t, res))

	item := map[string]any{"tmdbId": 550, "mediaType": "movie", "title": "Fight Club"}
	res = env.request(t, http.MethodPost, "/api/watchlists/"+created.ID+"/items", otherTok, item, nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = env.request(t, http.MethodPut, "/api/watchlists/"+created.ID+"/items/any", otherTok, map[string]any{"watched": true}, nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Still intact for the owner.
	var lists []models.Watchlist
	env.request(t, http.MethodGet, "/api/watchlists", ownerTok, nil, &lists)
	require.Len(t, lists, 1)
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t, "")
	tok := env.token(t, "user-1")

	var created models.Watchlist
	env.request(t, http.MethodPost, "/api/watchlists", tok, map[string]string{"name": "Favorites"}, &created)
	var updated models.Watchlist
	env.request(t, http.MethodPost, "/api/watchlists/"+created.ID+"/items", tok,
		map[string]any{"tmdbId": 27205, "mediaType": "movie", "title": "Inception"}, &updated)

	res := env.request(t, http.MethodDelete, "/api/watchlists/"+created.ID+"/items/"+updated.Items[0].ID, tok, nil, &updated)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Empty(t, updated.Items)

	// Removing an id that is not there is not an error.
	res = env.request(t, http.MethodDelete, "/api/watchlists/"+created.ID+"/items/nope", tok, nil, &updated)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestUpdateItemPartial(t *testing.T) {
	env := newTestEnv(t, "")
	tok := env.token(t, "user-1")

	var created models.Watchlist
	env.request(t, http.MethodPost, "/api/watchlists", tok, map[string]string{"name": "Favorites"}, &created)
	var wl models.Watchlist
	env.request(t, http.MethodPost, "/api/watchlists/"+created.ID+"/items", tok,
		map[string]any{"tmdbId": 27205, "mediaType": "movie", "title": "Inception"}, &wl)
	itemID := wl.Items[0].ID

	res := env.request(t, http.MethodPut, "/api/watchlists/"+created.ID+"/items/"+itemID, tok,
		map[string]any{"userRating": 9.0, "userReview": "great"}, &wl)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, wl.Items[0].UserRating)
	require.Equal(t, 9.0, *wl.Items[0].UserRating)
	require.Equal(t, "great", wl.Items[0].UserReview)

	res = env.request(t, http.MethodPut, "/api/watchlists/"+created.ID+"/items/"+itemID, tok,
		map[string]any{"watched": true}, &wl)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.True(t, wl.Items[0].Watched)
	require.Equal(t, 9.0, *wl.Items[0].UserRating)
	require.Equal(t, "great", wl.Items[0].UserReview)

	res = env.request(t, http.MethodPut, "/api/watchlists/"+created.ID+"/items/missing", tok,
		map[string]any{"watched": true}, nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, "Item not found", msgOf(t, res))
}

func TestAddItemValidation(t *testing.T) {
	env := newTestEnv(t, "")
	tok := env.token(t, "user-1")

	var created models.Watchlist
	env.request(t, http.MethodPost, "/api/watchlists", tok, map[string]string{"name": "Favorites"}, &created)

	var errs map[string]string
	res := env.request(t, http.MethodPost, "/api/watchlists/"+created.ID+"/items", tok,
		map[string]any{"tmdbId": 1, "mediaType": "podcast", "title": "Nope"}, &errs)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, errs, "mediaType")

	res = env.request(t, http.MethodPost, "/api/watchlists", tok, map[string]string{}, &errs)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}
