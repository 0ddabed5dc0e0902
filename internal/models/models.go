package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Username     string `gorm:"not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

type Watchlist struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	OwnerID string `gorm:"type:uuid;index;not null" json:"ownerId"`
	Name    string `gorm:"not null" json:"name"`

	// Newest-first: inserts take MIN(position)-1, reads order position ASC.
	Items []WatchlistItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type WatchlistItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	WatchlistID string `gorm:"type:uuid;uniqueIndex:idx_watchlist_media,priority:1" json:"watchlistId"`
	TMDBID      int64  `gorm:"uniqueIndex:idx_watchlist_media,priority:2" json:"tmdbId"`
	MediaType   string `gorm:"uniqueIndex:idx_watchlist_media,priority:3" json:"mediaType"`

	Title       string    `gorm:"not null" json:"title"`
	PosterPath  string    `json:"posterPath,omitempty"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	VoteAverage float64   `json:"voteAverage,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
	Watched     bool      `json:"watched"`
	UserRating  *float64  `json:"userRating,omitempty"`
	UserReview  string    `json:"userReview,omitempty"`
	Position    int       `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (wl *Watchlist) BeforeCreate(tx *gorm.DB) error {
	if wl.ID == "" {
		wl.ID = uuid.NewString()
	}
	wl.Name = strings.TrimSpace(wl.Name)
	return nil
}

func (it *WatchlistItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.AddedAt.IsZero() {
		it.AddedAt = time.Now().UTC()
	}
	return nil
}
