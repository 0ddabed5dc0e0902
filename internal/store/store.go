package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Ahmedakaak/MovieTracking-Ap/internal/models"
)

var (
	// ErrNotFound covers a missing watchlist or user.
	ErrNotFound = errors.New("not found")
	// ErrNotOwner is returned when the caller does not own the watchlist.
	ErrNotOwner = errors.New("not authorized")
	// ErrDuplicateItem is returned when (tmdb_id, media_type) already exists in the list.
	ErrDuplicateItem = errors.New("item already in watchlist")
	// ErrItemNotFound is returned by UpdateItem for an absent item id.
	ErrItemNotFound = errors.New("item not found")
)

type Store struct{ DB *gorm.DB }

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// Migrate creates or updates the schema, including the composite unique
// index backing the duplicate-item check.
func (s *Store) Migrate() error {
	return s.DB.AutoMigrate(&models.User{}, &models.Watchlist{}, &models.WatchlistItem{})
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.DB.WithContext(ctx).Create(u).Error
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Watchlists

func (s *Store) CreateWatchlist(ctx context.Context, wl *models.Watchlist) error {
	if wl.Items == nil {
		wl.Items = []models.WatchlistItem{}
	}
	return s.DB.WithContext(ctx).Create(wl).Error
}

func (s *Store) ListWatchlistsByOwner(ctx context.Context, owner string) ([]models.Watchlist, error) {
	out := []models.Watchlist{}
	err := s.DB.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("owner_id = ?", owner).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items == nil {
			out[i].Items = []models.WatchlistItem{}
		}
	}
	return out, nil
}

// GetOwnedWatchlist loads a watchlist with its items and enforces ownership:
// ErrNotFound when the id is absent, ErrNotOwner when it belongs to someone else.
func (s *Store) GetOwnedWatchlist(ctx context.Context, id, owner string) (*models.Watchlist, error) {
	var wl models.Watchlist
	if err := s.DB.WithContext(ctx).Preload("Items", itemOrder).First(&wl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if wl.OwnerID != owner {
		return nil, ErrNotOwner
	}
	if wl.Items == nil {
		wl.Items = []models.WatchlistItem{}
	}
	return &wl, nil
}

func (s *Store) DeleteWatchlist(ctx context.Context, id, owner string) error {
	wl, err := s.GetOwnedWatchlist(ctx, id, owner)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("watchlist_id = ?", wl.ID).Delete(&models.WatchlistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Watchlist{}, "id = ?", wl.ID).Error
	})
}

// Items

// AddItem inserts at the front of the list and returns the updated watchlist.
// The duplicate check is an array scan like the original behavior; the unique
// index on (watchlist_id, tmdb_id, media_type) backstops the race.
func (s *Store) AddItem(ctx context.Context, listID, owner string, it *models.WatchlistItem) (*models.Watchlist, error) {
	wl, err := s.GetOwnedWatchlist(ctx, listID, owner)
	if err != nil {
		return nil, err
	}
	for _, existing := range wl.Items {
		if existing.TMDBID == it.TMDBID && existing.MediaType == it.MediaType {
			return nil, ErrDuplicateItem
		}
	}
	it.WatchlistID = wl.ID
	var pos int
	if err := s.DB.WithContext(ctx).Model(&models.WatchlistItem{}).
		Where("watchlist_id = ?", wl.ID).
		Select("COALESCE(MIN(position), 1)-1").Scan(&pos).Error; err != nil {
		return nil, err
	}
	it.Position = pos
	if err := s.DB.WithContext(ctx).Create(it).Error; err != nil {
		// Two racing adds: the unique index rejects the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateItem
		}
		return nil, err
	}
	return s.GetOwnedWatchlist(ctx, listID, owner)
}

// RemoveItem deletes the item if present. An absent item id is a silent
// no-op, matching the original behavior.
func (s *Store) RemoveItem(ctx context.Context, listID, owner, itemID string) (*models.Watchlist, error) {
	if _, err := s.GetOwnedWatchlist(ctx, listID, owner); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).
		Where("id = ? AND watchlist_id = ?", itemID, listID).
		Delete(&models.WatchlistItem{}).Error; err != nil {
		return nil, err
	}
	return s.GetOwnedWatchlist(ctx, listID, owner)
}

// ItemPatch carries the mutable item fields; nil means leave unchanged.
type ItemPatch struct {
	Watched    *bool
	UserRating *float64
	UserReview *string
}

func (s *Store) UpdateItem(ctx context.Context, listID, owner, itemID string, patch ItemPatch) (*models.Watchlist, error) {
	if _, err := s.GetOwnedWatchlist(ctx, listID, owner); err != nil {
		return nil, err
	}
	var it models.WatchlistItem
	if err := s.DB.WithContext(ctx).First(&it, "id = ? AND watchlist_id = ?", itemID, listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	updates := map[string]any{}
	if patch.Watched != nil {
		updates["watched"] = *patch.Watched
	}
	if patch.UserRating != nil {
		updates["user_rating"] = *patch.UserRating
	}
	if patch.UserReview != nil {
		updates["user_review"] = *patch.UserReview
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&it).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetOwnedWatchlist(ctx, listID, owner)
}

func itemOrder(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }
