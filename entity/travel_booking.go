package entity

import (
	"fmt"
	"time"
)

type LegKind string

const (
	LegTaxi   LegKind = "taxi"
	LegHotel  LegKind = "hotel"
	LegFlight LegKind = "flight"
)

type TravelBookingRequest struct {
	CustomerID int64     `json:"customer_id"`
	TaxiID     int64     `json:"taxi_id"`
	HotelID    int64     `json:"hotel_id"`
	FlightID   int64     `json:"flight_id"`
	Date       time.Time `json:"date"`
}

func (r TravelBookingRequest) Validate() error {
	switch {
	case r.CustomerID <= 0:
		return fmt.Errorf("%w: customer_id is required", ErrInvalidRequest)
	case r.TaxiID <= 0:
		return fmt.Errorf("%w: taxi_id is required", ErrInvalidRequest)
	case r.HotelID <= 0:
		return fmt.Errorf("%w: hotel_id is required", ErrInvalidRequest)
	case r.FlightID <= 0:
		return fmt.Errorf("%w: flight_id is required", ErrInvalidRequest)
	case r.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}

	return nil
}

// TravelBooking exists only when all three of its legs were confirmed.
type TravelBooking struct {
	ID              int64     `json:"id" db:"id"`
	CustomerID      int64     `json:"customer_id" db:"customer_id"`
	TaxiBookingID   int64     `json:"taxi_booking_id" db:"taxi_booking_id"`
	HotelBookingID  int64     `json:"hotel_booking_id" db:"hotel_booking_id"`
	FlightBookingID int64     `json:"flight_booking_id" db:"flight_booking_id"`
	Date            time.Time `json:"date" db:"booking_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

func (b TravelBooking) LegBookingID(kind LegKind) int64 {
	switch kind {
	case LegTaxi:
		return b.TaxiBookingID
	case LegHotel:
		return b.HotelBookingID
	case LegFlight:
		return b.FlightBookingID
	default:
		return 0
	}
}
