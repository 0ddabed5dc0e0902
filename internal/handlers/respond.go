package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

func serverError(w http.ResponseWriter) {
	writeMsg(w, http.StatusInternalServerError, "Server Error")
}

// storeError maps store sentinel errors onto the wire contract.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMsg(w, http.StatusNotFound, "Watchlist not found")
	case errors.Is(err, store.ErrNotOwner):
		writeMsg(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, store.ErrDuplicateItem):
		writeMsg(w, http.StatusBadRequest, "Item already in watchlist")
	case errors.Is(err, store.ErrItemNotFound):
		writeMsg(w, http.StatusNotFound, "Item not found")
	default:
		serverError(w)
	}
}
