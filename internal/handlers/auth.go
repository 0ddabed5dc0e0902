package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/auth"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/models"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/store"
	"github.com/Ahmedakaak/MovieTracking-Ap/internal/validate"
)

type AuthHandler struct {
	Store  *store.Store
	Tokens *auth.TokenIssuer
}

func NewAuthHandler(s *store.Store, t *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{Store: s, Tokens: t}
}

// PublicRoutes carries the unauthenticated auth endpoints.
func (h *AuthHandler) PublicRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type bodyT struct {
		Username string `json:"username" validate:"required,min=2,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6,max=128"`
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
	if _, err := h.Store.GetUserByEmail(r.Context(), b.Email); err == nil {
		writeMsg(w, http.StatusBadRequest, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		serverError(w)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(b.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w)
		return
	}
	u := &models.User{Username: b.Username, Email: b.Email, PasswordHash: string(hash)}
	if err := h.Store.CreateUser(r.Context(), u); err != nil {
		slog.Error("create user", "err", err)
		serverError(w)
		return
	}
	h.issueToken(w, u.ID)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type bodyT struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
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
	u, err := h.Store.GetUserByEmail(r.Context(), b.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMsg(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		serverError(w)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(b.Password)) != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	h.issueToken(w, u.ID)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, userID string) {
	tok, err := h.Tokens.Issue(userID)
	if err != nil {
		slog.Error("issue token", "err", err)
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

// Me returns the authenticated caller. Mounted behind the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	u, err := h.Store.GetUser(r.Context(), uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMsg(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
