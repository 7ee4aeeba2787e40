package repository

import (
	"context"
	"errors"

	alerts "skillswap/internal/pkg/alerts/domain"
)

var ErrNotFound = errors.New("repository: not found")

// Store exposes the read models the notification dispatcher consumes. Both are
// owned by external CRUD; the core only reads.
type Store interface {
	// GetListing fetches the listing to evaluate, or ErrNotFound.
	GetListing(ctx context.Context, listingID string) (*alerts.Listing, error)

	// ListEnabledFilters enumerates every enabled saved filter across all
	// users, as immutable snapshots for one evaluation cycle.
	ListEnabledFilters(ctx context.Context) ([]alerts.SavedFilter, error)
}
