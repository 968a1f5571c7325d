package trip

import (
	"context"
	"time"

	"github.com/yatrika/server/internal/planner/model"
)

// Trip lifecycle states.
const (
	StatusPlanned = "planned"
	StatusBooked  = "booked"
)

// PlanDocument is the persisted shape of a planning result: the original
// request together with the generated itinerary.
type PlanDocument struct {
	Request   model.TripRequest `json:"request"`
	Itinerary model.Itinerary   `json:"itinerary"`
}

// Record is a stored trip owned by a user.
type Record struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Status    string       `json:"status"`
	BookingID string       `json:"booking_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Content   PlanDocument `json:"itinerary_content"`
}

// Share is a public link to a trip. View counts live in a separate counter
// so concurrent viewers never race on the document itself.
type Share struct {
	ID        string    `json:"share_id"`
	TripID    string    `json:"original_trip_id"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	IsPublic  bool      `json:"is_public"`
	ViewCount int64     `json:"view_count"`
}

// Booking is the confirmation produced when a trip is booked.
type Booking struct {
	BookingID     string `json:"booking_id"`
	Status        string `json:"status"`
	TotalINR      int    `json:"total_amount"`
	PaymentMethod string `json:"payment_method"`
	BookingDate   string `json:"booking_date"`
}

// Repository persists trips and share links. Ownership checks belong to the
// handler layer; the repository only stores and retrieves.
type Repository interface {
	Save(ctx context.Context, userID string, doc PlanDocument) (*Record, error)
	Get(ctx context.Context, tripID string) (*Record, error)
	ListByUser(ctx context.Context, userID string) ([]*Record, error)
	Book(ctx context.Context, tripID string) (*Booking, error)

	CreateShare(ctx context.Context, tripID, userID string) (*Share, error)
	GetShare(ctx context.Context, shareID string) (*Share, error)
	// ViewShare increments the view counter and returns the share with the
	// fresh count.
	ViewShare(ctx context.Context, shareID string) (*Share, error)
	DeleteShare(ctx context.Context, shareID string) error
	ListShares(ctx context.Context, userID string) ([]*Share, error)
}
