package alerts

import "errors"

// Validation errors for saved filters. A malformed filter is skipped for the
// evaluation cycle, never aborting evaluation of the other filters.
var (
	ErrInvalidBudgetRange = errors.New("alerts: filter min budget exceeds max budget")
	ErrInvalidGeoPoint    = errors.New("alerts: filter geo point out of range")
	ErrInvalidRadius      = errors.New("alerts: filter radius must be positive")
)

// SavedFilter is a user-owned predicate deciding which new listings should
// trigger a notification. The core reads it as an immutable snapshot; CRUD
// lives outside.
type SavedFilter struct {
	ID        string   `json:"id" db:"id"`
	OwnerID   string   `json:"ownerId" db:"owner_id"`
	Enabled   bool     `json:"enabled" db:"enabled"`
	Status    string   `json:"status" db:"status"`
	Category  string   `json:"category" db:"category"`
	Text      string   `json:"text" db:"text"`
	IsService *bool    `json:"isService" db:"is_service"`
	Tags      []string `json:"tags" db:"tags"`
	MinBudget *float64 `json:"minBudget" db:"min_budget"`
	MaxBudget *float64 `json:"maxBudget" db:"max_budget"`
	Point     *GeoPoint `json:"point"`
	RadiusKm  *float64  `json:"radiusKm" db:"radius_km"`
}

// Validate reports whether the filter is structurally sound enough to be
// evaluated.
func (f SavedFilter) Validate() error {
	if f.MinBudget != nil && f.MaxBudget != nil && *f.MinBudget > *f.MaxBudget {
		return ErrInvalidBudgetRange
	}
	if f.Point != nil {
		if f.Point.Lat < -90 || f.Point.Lat > 90 || f.Point.Lng < -180 || f.Point.Lng > 180 {
			return ErrInvalidGeoPoint
		}
	}
	if f.RadiusKm != nil && *f.RadiusKm <= 0 {
		return ErrInvalidRadius
	}
	return nil
}
