package entity

import "time"

type IncidentKind string

const (
	IncidentCompensationFailed IncidentKind = "compensation_failed"
	IncidentOrphanedLegs       IncidentKind = "orphaned_legs"
)

// Incident is a travel booking inconsistency that needs manual reconciliation.
type Incident struct {
	IncidentID      string       `json:"incident_id" db:"incident_id"`
	Kind            IncidentKind `json:"kind" db:"kind"`
	TravelBookingID int64        `json:"travel_booking_id,omitempty" db:"travel_booking_id"`
	Legs            []LegRef     `json:"legs" db:"-"`
	Reason          string       `json:"reason" db:"reason"`
	OccurredAt      time.Time    `json:"occurred_at" db:"occurred_at"`
}

type LegRef struct {
	Leg       LegKind `json:"leg"`
	BookingID int64   `json:"booking_id"`
	Error     string  `json:"error,omitempty"`
}
