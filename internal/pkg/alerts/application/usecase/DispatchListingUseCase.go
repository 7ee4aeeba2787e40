package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cacheport "skillswap/internal/infrastructure/cache/port"
	alerts "skillswap/internal/pkg/alerts/domain"
	repository "skillswap/internal/pkg/alerts/persistence/repository/port"
)

// ErrPersistence indicates an infrastructure/repository failure inside a use case.
var ErrPersistence = fmt.Errorf("alerts use case persistence error")

// filterCacheKey holds the serialized enabled-filter snapshot shared by all
// evaluation cycles within the TTL window.
const filterCacheKey = "alerts:enabled_filters"

// UserPublisher multicasts a named event to every live stream of a user.
type UserPublisher interface {
	Publish(userID, event string, payload []byte) int
}

// DispatchListingInput names the freshly created listing to evaluate.
type DispatchListingInput struct {
	ListingID string
}

// listingMatchPayload is the notification body pushed to matching filter
// owners.
type listingMatchPayload struct {
	ListingID string `json:"listingId"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	FilterID  string `json:"filterId"`
}

// DispatchListingUseCase is the notification dispatcher: it evaluates a new
// listing against every enabled saved filter and alerts the owners of matching
// filters through the fan-out hub. Listing creation is its only trigger.
type DispatchListingUseCase struct {
	Store    repository.Store
	Cache    cacheport.Cache
	Hub      UserPublisher
	CacheTTL time.Duration
	Log      *slog.Logger
}

func NewDispatchListingUseCase(store repository.Store, cache cacheport.Cache, hub UserPublisher, cacheTTL time.Duration, log *slog.Logger) *DispatchListingUseCase {
	return &DispatchListingUseCase{Store: store, Cache: cache, Hub: hub, CacheTTL: cacheTTL, Log: log}
}

// Execute returns the number of users notified.
func (uc *DispatchListingUseCase) Execute(ctx context.Context, in DispatchListingInput) (int, error) {
	if in.ListingID == "" {
		return 0, fmt.Errorf("listingId is required")
	}

	listing, err := uc.Store.GetListing(ctx, in.ListingID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	filters, err := uc.loadFilters(ctx)
	if err != nil {
		return 0, err
	}

	notified := make(map[string]struct{}, len(filters))
	for _, f := range filters {
		// The listing owner never gets alerted about their own listing, and a
		// user with several matching filters gets a single notification.
		if f.OwnerID == listing.OwnerID {
			continue
		}
		if _, seen := notified[f.OwnerID]; seen {
			continue
		}
		if err := f.Validate(); err != nil {
			uc.Log.Warn("skipping malformed filter", "filter", f.ID, "error", err)
			continue
		}
		if !alerts.Matches(*listing, f) {
			continue
		}

		payload, err := json.Marshal(listingMatchPayload{
			ListingID: listing.ID,
			Title:     listing.Title,
			Category:  listing.Category,
			FilterID:  f.ID,
		})
		if err != nil {
			continue
		}
		uc.Hub.Publish(f.OwnerID, alerts.EventListingMatch, payload)
		notified[f.OwnerID] = struct{}{}
	}
	return len(notified), nil
}

// loadFilters reads the enabled-filter snapshot through the cache. Cache
// failures degrade to a direct store read; they never fail the dispatch.
func (uc *DispatchListingUseCase) loadFilters(ctx context.Context) ([]alerts.SavedFilter, error) {
	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, filterCacheKey); err == nil {
			var filters []alerts.SavedFilter
			if err := json.Unmarshal([]byte(raw), &filters); err == nil {
				return filters, nil
			}
		} else if !errors.Is(err, cacheport.ErrMiss) {
			uc.Log.Warn("filter cache read failed", "error", err)
		}
	}

	filters, err := uc.Store.ListEnabledFilters(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if raw, err := json.Marshal(filters); err == nil {
			if err := uc.Cache.Set(ctx, filterCacheKey, string(raw), uc.CacheTTL); err != nil {
				uc.Log.Warn("filter cache write failed", "error", err)
			}
		}
	}
	return filters, nil
}
