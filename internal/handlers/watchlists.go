package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/auth"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/models"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/store"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/validate"
)

type WatchlistHandler struct {
	Store *store.Store
}

func NewWatchlistHandler(s *store.Store) *WatchlistHandler {
	return &WatchlistHandler{Store: s}
}

// Routes is mounted under /watchlists behind the auth middleware.
func (h *WatchlistHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/items", h.addItem)
	r.Delete("/{id}/items/{itemId}", h.removeItem)
	r.Put("/{id}/items/{itemId}", h.updateItem)
}

func (h *WatchlistHandler) list(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	lists, err := h.Store.ListWatchlistsByOwner(r.Context(), uid)
	if err != nil {
		slog.Error("list watchlists", "err", err)
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *WatchlistHandler) create(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	type bodyT struct {
		Name string `json:"name" validate:"required,min=1,max=120"`
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate.Map(b); errs != nil {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	wl := &models.Watchlist{OwnerID: uid, Name: b.Name}
	if err := h.Store.CreateWatchlist(r.Context(), wl); err != nil {
		slog.Error("create watchlist", "err", err)
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (h *WatchlistHandler) delete(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if err := h.Store.DeleteWatchlist(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		storeError(w, err)
		return
	}
	writeMsg(w, http.StatusOK, "Watchlist removed")
}

func (h *WatchlistHandler) addItem(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	type bodyT struct {
		TMDBID      int64    `json:"tmdbId" validate:"required,gt=0"`
		MediaType   string   `json:"mediaType" validate:"required,oneof=movie tv"`
		Title       string   `json:"title" validate:"required,max=500"`
		PosterPath  string   `json:"posterPath"`
		ReleaseDate string   `json:"releaseDate"`
		VoteAverage float64  `json:"voteAverage" validate:"gte=0,lte=10"`
		UserRating  *float64 `json:"userRating" validate:"omitempty,gte=0,lte=10"`
		UserReview  string   `json:"userReview" validate:"max=2000"`
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate.Map(b); errs != nil {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	item := &models.WatchlistItem{
		TMDBID:      b.TMDBID,
		MediaType:   b.MediaType,
		Title:       b.Title,
		PosterPath:  b.PosterPath,
		ReleaseDate: b.ReleaseDate,
		VoteAverage: b.VoteAverage,
		UserRating:  b.UserRating,
		UserReview:  b.UserReview,
	}
	wl, err := h.Store.AddItem(r.Context(), chi.URLParam(r, "id"), uid, item)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (h *WatchlistHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	wl, err := h.Store.RemoveItem(r.Context(), chi.URLParam(r, "id"), uid, chi.URLParam(r, "itemId"))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (h *WatchlistHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	type bodyT struct {
		Watched    *bool    `json:"watched"`
		UserRating *float64 `json:"userRating" validate:"omitempty,gte=0,lte=10"`
		UserReview *string  `json:"userReview" validate:"omitempty,max=2000"`
	}
	var b bodyT
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid json")
		return
	}
	if errs := validate.Map(b); errs != nil {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	patch := store.ItemPatch{Watched: b.Watched, UserRating: b.UserRating, UserReview: b.UserReview}
	wl, err := h.Store.UpdateItem(r.Context(), chi.URLParam(r, "id"), uid, chi.URLParam(r, "itemId"), patch)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}
