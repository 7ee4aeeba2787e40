package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	alerts "skillswap/internal/pkg/alerts/domain"
	repository "skillswap/internal/pkg/alerts/persistence/repository/port"
)

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

var _ repository.Store = (*PgStore)(nil)

func (r *PgStore) GetListing(ctx context.Context, listingID string) (*alerts.Listing, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgStore: nil pool")
	}
	var (
		l        alerts.Listing
		lng, lat *float64
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, owner_id::text, title, description, skill_offered, skill_wanted,
		       category, status, tags, is_service, budget_min, budget_max, location_lng, location_lat
		FROM listings
		WHERE id = $1::uuid
	`, listingID).Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.SkillOffered, &l.SkillWanted,
		&l.Category, &l.Status, &l.Tags, &l.IsService, &l.BudgetMin, &l.BudgetMax, &lng, &lat)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lng != nil && lat != nil {
		l.Location = &alerts.GeoPoint{Lng: *lng, Lat: *lat}
	}
	return &l, nil
}

func (r *PgStore) ListEnabledFilters(ctx context.Context) ([]alerts.SavedFilter, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgStore: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, owner_id::text, enabled, status, category, text, is_service,
		       tags, min_budget, max_budget, point_lng, point_lat, radius_km
		FROM saved_filters
		WHERE enabled = TRUE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filters []alerts.SavedFilter
	for rows.Next() {
		var (
			f        alerts.SavedFilter
			lng, lat *float64
		)
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Enabled, &f.Status, &f.Category, &f.Text, &f.IsService,
			&f.Tags, &f.MinBudget, &f.MaxBudget, &lng, &lat, &f.RadiusKm); err != nil {
			return nil, err
		}
		if lng != nil && lat != nil {
			f.Point = &alerts.GeoPoint{Lng: *lng, Lat: *lat}
		}
		filters = append(filters, f)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return filters, nil
}
