package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/tmdb"
)

// TMDBHandler relays catalog queries to TMDb. The upstream body and status
// come back verbatim; the api key stays server-side.
type TMDBHandler struct {
	TMDB *tmdb.Client
}

func NewTMDBHandler(c *tmdb.Client) *TMDBHandler { return &TMDBHandler{TMDB: c} }

// Routes is mounted under /tmdb; all routes are public.
func (h *TMDBHandler) Routes(r chi.Router) {
	r.Get("/trending/{mediaType}/{window}", h.trending)
	r.Get("/search/{searchType}", h.search)
	r.Get("/movie/{id}", h.detail("movie"))
	r.Get("/tv/{id}", h.detail("tv"))
}

func (h *TMDBHandler) trending(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, "/trending/"+chi.URLParam(r, "mediaType")+"/"+chi.URLParam(r, "window"))
}

func (h *TMDBHandler) search(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, "/search/"+chi.URLParam(r, "searchType"))
}

func (h *TMDBHandler) detail(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.relay(w, r, "/"+kind+"/"+chi.URLParam(r, "id"))
	}
}

func (h *TMDBHandler) relay(w http.ResponseWriter, r *http.Request, path string) {
	res, err := h.TMDB.Get(r.Context(), path, r.URL.Query())
	if err != nil {
		slog.Error("tmdb proxy", "path", path, "err", err)
		serverError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}
