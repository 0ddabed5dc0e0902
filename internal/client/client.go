// Package client is the Go counterpart of the web front end's state layer:
// one HTTP call per user action, local copies replaced wholesale by the
// server's authoritative response.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/models"
)

// AuthState tracks the session: unknown until LoadSession runs, then
// authenticated or anonymous. Logout and a failed session load both drop
// back to anonymous.
type AuthState int

const (
	StateUnknown AuthState = iota
	StateAnonymous
	StateAuthenticated
)

// APIError carries the server's msg payload, or a generic fallback when the
// body had none.
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Msg)
}

type Session struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenStore

	state AuthState
	token string
	user  *models.User
	lists []models.Watchlist
}

func NewSession(baseURL string, tokens TokenStore) *Session {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	return &Session{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Tokens:  tokens,
		state:   StateUnknown,
	}
}

func (s *Session) State() AuthState { return s.state }

func (s *Session) User() *models.User { return s.user }

func (s *Session) Watchlists() []models.Watchlist { return s.lists }

// LoadSession restores a stored token and fetches the current user. Any
// failure means "not logged in", never an error.
func (s *Session) LoadSession(ctx context.Context) {
	tok, err := s.Tokens.Load()
	if err != nil || tok == "" {
		s.becomeAnonymous()
		return
	}
	s.token = tok
	var u models.User
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		s.becomeAnonymous()
		return
	}
	s.user = &u
	s.state = StateAuthenticated
}

func (s *Session) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return s.authenticate(ctx, "/api/auth/register", body)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return s.authenticate(ctx, "/api/auth/login", body)
}

func (s *Session) authenticate(ctx context.Context, path string, body any) error {
	var res struct {
		Token string `json:"token"`
	}
	if err := s.do(ctx, http.MethodPost, path, body, &res); err != nil {
		s.becomeAnonymous()
		return err
	}
	s.token = res.Token
	s.state = StateAuthenticated
	_ = s.Tokens.Save(res.Token)
	var u models.User
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err == nil {
		s.user = &u
	}
	return nil
}

func (s *Session) Logout() {
	s.becomeAnonymous()
}

func (s *Session) becomeAnonymous() {
	s.token = ""
	s.user = nil
	s.lists = nil
	s.state = StateAnonymous
	_ = s.Tokens.Clear()
}

// RefreshWatchlists replaces the local watchlist slice with the server's.
func (s *Session) RefreshWatchlists(ctx context.Context) error {
	var lists []models.Watchlist
	if err := s.do(ctx, http.MethodGet, "/api/watchlists", nil, &lists); err != nil {
		return err
	}
	s.lists = lists
	return nil
}

func (s *Session) CreateWatchlist(ctx context.Context, name string) (*models.Watchlist, error) {
	var wl models.Watchlist
	if err := s.do(ctx, http.MethodPost, "/api/watchlists", map[string]string{"name": name}, &wl); err != nil {
		return nil, err
	}
	s.lists = append([]models.Watchlist{wl}, s.lists...)
	return &wl, nil
}

func (s *Session) DeleteWatchlist(ctx context.Context, id string) error {
	if err := s.do(ctx, http.MethodDelete, "/api/watchlists/"+id, nil, nil); err != nil {
		return err
	}
	kept := s.lists[:0]
	for _, wl := range s.lists {
		if wl.ID != id {
			kept = append(kept, wl)
		}
	}
	s.lists = kept
	return nil
}

// AddItemRequest mirrors the item fields accepted by the server.
type AddItemRequest struct {
	TMDBID      int64   `json:"tmdbId"`
	MediaType   string  `json:"mediaType"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"posterPath,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	VoteAverage float64 `json:"voteAverage,omitempty"`
}

func (s *Session) AddItem(ctx context.Context, listID string, req AddItemRequest) (*models.Watchlist, error) {
	var wl models.Watchlist
	if err := s.do(ctx, http.MethodPost, "/api/watchlists/"+listID+"/items", req, &wl); err != nil {
		return nil, err
	}
	s.replaceList(wl)
	return &wl, nil
}

func (s *Session) RemoveItem(ctx context.Context, listID, itemID string) (*models.Watchlist, error) {
	var wl models.Watchlist
	if err := s.do(ctx, http.MethodDelete, "/api/watchlists/"+listID+"/items/"+itemID, nil, &wl); err != nil {
		return nil, err
	}
	s.replaceList(wl)
	return &wl, nil
}

// UpdateItemRequest carries the partial update; nil fields stay unchanged.
type UpdateItemRequest struct {
	Watched    *bool    `json:"watched,omitempty"`
	UserRating *float64 `json:"userRating,omitempty"`
	UserReview *string  `json:"userReview,omitempty"`
}

func (s *Session) UpdateItem(ctx context.Context, listID, itemID string, req UpdateItemRequest) (*models.Watchlist, error) {
	var wl models.Watchlist
	if err := s.do(ctx, http.MethodPut, "/api/watchlists/"+listID+"/items/"+itemID, req, &wl); err != nil {
		return nil, err
	}
	s.replaceList(wl)
	return &wl, nil
}

func (s *Session) replaceList(wl models.Watchlist) {
	for i := range s.lists {
		if s.lists[i].ID == wl.ID {
			s.lists[i] = wl
			return
		}
	}
}

func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	res, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{Status: res.StatusCode, Msg: "Server Error"}
		var payload struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Msg != "" {
			apiErr.Msg = payload.Msg
		}
		return apiErr
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}
