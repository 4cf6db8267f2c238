package travel

import (
	"context"
	"time"

	"travelagent/entity"
)

// LegService books and cancels one kind of resource. Both the local taxi
// service and the remote hotel and flight clients implement it.
type LegService interface {
	Create(ctx context.Context, customerID, resourceID int64, date time.Time) (int64, error)
	Delete(ctx context.Context, bookingID int64) error
}

type LegDefinition struct {
	Kind    entity.LegKind
	Service LegService
	// Resource picks the resource to book from the request.
	Resource func(req entity.TravelBookingRequest) int64
}

// Legs returns the leg definitions in booking order: taxi, hotel, flight.
func Legs(taxi, hotel, flight LegService) []LegDefinition {
	return []LegDefinition{
		{
			Kind:     entity.LegTaxi,
			Service:  taxi,
			Resource: func(req entity.TravelBookingRequest) int64 { return req.TaxiID },
		},
		{
			Kind:     entity.LegHotel,
			Service:  hotel,
			Resource: func(req entity.TravelBookingRequest) int64 { return req.HotelID },
		},
		{
			Kind:     entity.LegFlight,
			Service:  flight,
			Resource: func(req entity.TravelBookingRequest) int64 { return req.FlightID },
		},
	}
}
