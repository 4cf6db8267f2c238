package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

type TravelBookingCreated_v1 struct {
	Header EventHeader `json:"header"`

	TravelBookingID int64     `json:"travel_booking_id"`
	CustomerID      int64     `json:"customer_id"`
	TaxiBookingID   int64     `json:"taxi_booking_id"`
	HotelBookingID  int64     `json:"hotel_booking_id"`
	FlightBookingID int64     `json:"flight_booking_id"`
	Date            time.Time `json:"date"`
}

type TravelBookingCancelled_v1 struct {
	Header EventHeader `json:"header"`

	TravelBookingID int64 `json:"travel_booking_id"`
	// Complete is false when at least one leg could not be deleted.
	Complete bool `json:"complete"`
}

// CompensationFailed_v1 is published when undoing a leg failed, either while
// rolling back a failed booking attempt or while cancelling a stored booking.
type CompensationFailed_v1 struct {
	Header EventHeader `json:"header"`

	TravelBookingID int64    `json:"travel_booking_id,omitempty"`
	FailedLeg       LegKind  `json:"failed_leg,omitempty"`
	Reason          string   `json:"reason"`
	Failures        []LegRef `json:"failures"`
}

// OrphanedLegsDetected_v1 is published when all legs were booked but the
// travel booking could not be stored.
type OrphanedLegsDetected_v1 struct {
	Header EventHeader `json:"header"`

	CustomerID int64    `json:"customer_id"`
	Legs       []LegRef `json:"legs"`
	Reason     string   `json:"reason"`
}
