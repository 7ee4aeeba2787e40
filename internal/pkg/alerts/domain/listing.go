package alerts

// GeoPoint is a WGS84 coordinate. The wire order everywhere in this service is
// [lng, lat].
type GeoPoint struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Listing is the read model the matching engine evaluates. It mirrors what the
// external CRUD persists; the core never mutates it.
type Listing struct {
	ID           string    `db:"id"`
	OwnerID      string    `db:"owner_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	SkillOffered string    `db:"skill_offered"`
	SkillWanted  string    `db:"skill_wanted"`
	Category     string    `db:"category"`
	Status       string    `db:"status"`
	Tags         []string  `db:"tags"`
	IsService    bool      `db:"is_service"`
	BudgetMin    *float64  `db:"budget_min"`
	BudgetMax    *float64  `db:"budget_max"`
	Location     *GeoPoint
}

// budgetValue picks the single representative budget of a listing: the minimum
// when present, otherwise the maximum. Nil means the listing carries no budget.
func (l Listing) budgetValue() *float64 {
	if l.BudgetMin != nil {
		return l.BudgetMin
	}
	return l.BudgetMax
}

// Event name produced by the notification dispatcher.
const EventListingMatch = "listing_match"
