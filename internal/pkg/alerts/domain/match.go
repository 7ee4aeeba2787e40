package alerts

import (
	"math"
	"strings"

	"github.com/samber/lo"
)

// earthRadiusKm is the mean Earth radius used by the haversine distance.
const earthRadiusKm = 6371.0

// Matches evaluates a listing against a saved filter. It is a pure function,
// safe to call concurrently and repeatedly for the same inputs. Clauses form a
// short-circuiting conjunction: the first failing clause rejects.
func Matches(l Listing, f SavedFilter) bool {
	if !f.Enabled {
		return false
	}
	if f.Status != "" && l.Status != "" && f.Status != l.Status {
		return false
	}
	if f.Category != "" && f.Category != l.Category {
		return false
	}
	if f.IsService != nil && *f.IsService != l.IsService {
		return false
	}
	if !matchesText(l, f.Text) {
		return false
	}
	if !matchesTags(l.Tags, f.Tags) {
		return false
	}
	if !matchesBudget(l, f) {
		return false
	}
	return matchesGeo(l, f)
}

// matchesText does a case-insensitive substring search over everything textual
// the listing exposes. Empty filter text always passes.
func matchesText(l Listing, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join(append([]string{
		l.Title, l.Description, l.SkillOffered, l.SkillWanted,
	}, l.Tags...), " "))
	return strings.Contains(haystack, needle)
}

// matchesTags passes when the listing's tags intersect the filter's,
// case-insensitively. An empty filter tag set always passes.
func matchesTags(listingTags, filterTags []string) bool {
	if len(filterTags) == 0 {
		return true
	}
	lower := func(tag string, _ int) string { return strings.ToLower(strings.TrimSpace(tag)) }
	return len(lo.Intersect(lo.Map(filterTags, lower), lo.Map(listingTags, lower))) > 0
}

// matchesBudget passes when both bounds are unset; otherwise the listing's
// representative budget value must lie within [min, max], either bound open.
// A listing without any budget fails as soon as one bound is set.
func matchesBudget(l Listing, f SavedFilter) bool {
	if f.MinBudget == nil && f.MaxBudget == nil {
		return true
	}
	v := l.budgetValue()
	if v == nil {
		return false
	}
	if f.MinBudget != nil && *v < *f.MinBudget {
		return false
	}
	if f.MaxBudget != nil && *v > *f.MaxBudget {
		return false
	}
	return true
}

// matchesGeo passes when the filter has no point or no radius. Otherwise the
// listing must carry a coordinate within radiusKm of the filter point.
func matchesGeo(l Listing, f SavedFilter) bool {
	if f.Point == nil || f.RadiusKm == nil {
		return true
	}
	if l.Location == nil {
		return false
	}
	return Haversine(*f.Point, *l.Location) <= *f.RadiusKm
}

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b GeoPoint) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLng*sinLng
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
