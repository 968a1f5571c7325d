package model

// TripRequest captures the traveller's preferences for one planning request.
type TripRequest struct {
	Source         string   `json:"source"`
	Destination    string   `json:"destination"`
	StartDate      string   `json:"start_date"`
	ReturnDate     string   `json:"return_date"`
	BudgetINR      int      `json:"budget"`
	Interests      []string `json:"interests"`
	TransportMode  string   `json:"transport_mode"`
	Language       string   `json:"language"`
	AdditionalReqs string   `json:"additional_reqs"`
}

// Itinerary is the structured document the model must produce. A new document
// replaces the old one entirely on regeneration; it is never mutated in place.
type Itinerary struct {
	Plan          []DayPlan     `json:"plan"`
	CostBreakdown CostBreakdown `json:"cost_breakdown"`
}

// DayPlan is one day of the itinerary.
type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

// Activity is a single scheduled entry with coordinates for map rendering.
type Activity struct {
	Time         string  `json:"time"`
	Description  string  `json:"description"`
	LocationName string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// CostBreakdown holds integer INR estimates per category plus the total.
type CostBreakdown struct {
	AccommodationINR int `json:"accommodation_estimate_inr"`
	TransportINR     int `json:"transport_estimate_inr"`
	ActivitiesINR    int `json:"activities_estimate_inr"`
	FoodINR          int `json:"food_estimate_inr"`
	TotalINR         int `json:"total_estimate_inr"`
}
