package taxi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"travelagent/entity"
)

type CustomersRepository interface {
	Get(ctx context.Context, id int64) (entity.Customer, error)
}

type TaxisRepository interface {
	Get(ctx context.Context, id int64) (entity.Taxi, error)
}

type BookingsRepository interface {
	// Add returns entity.ErrConflict when the taxi is already booked on that date.
	Add(ctx context.Context, booking entity.TaxiBooking) (entity.TaxiBooking, error)
	Get(ctx context.Context, id int64) (entity.TaxiBooking, error)
	FindAll(ctx context.Context) ([]entity.TaxiBooking, error)
	Delete(ctx context.Context, id int64) error
}

type TravelBookingsRepository interface {
	ReferencesTaxiBooking(ctx context.Context, taxiBookingID int64) (bool, error)
}

// Service books taxis locally. It is the first leg of every travel booking.
type Service struct {
	customers CustomersRepository
	taxis     TaxisRepository
	bookings  BookingsRepository
	travels   TravelBookingsRepository
	now       func() time.Time
}

func NewService(
	customers CustomersRepository,
	taxis TaxisRepository,
	bookings BookingsRepository,
	travels TravelBookingsRepository,
) Service {
	if customers == nil {
		panic("customers repository is nil")
	}
	if taxis == nil {
		panic("taxis repository is nil")
	}
	if bookings == nil {
		panic("bookings repository is nil")
	}
	if travels == nil {
		panic("travel bookings repository is nil")
	}

	return Service{
		customers: customers,
		taxis:     taxis,
		bookings:  bookings,
		travels:   travels,
		now:       time.Now,
	}
}

func (s Service) Create(ctx context.Context, customerID, taxiID int64, date time.Time) (int64, error) {
	booking, err := s.Book(ctx, entity.TaxiBooking{
		CustomerID: customerID,
		TaxiID:     taxiID,
		Date:       date,
	})
	if err != nil {
		return 0, err
	}

	return booking.ID, nil
}

// Book validates and stores a taxi booking. Errors wrap entity.ErrInvalidRequest,
// entity.ErrConflict or entity.ErrInternal.
func (s Service) Book(ctx context.Context, booking entity.TaxiBooking) (entity.TaxiBooking, error) {
	booking.ID = 0
	booking.Date = day(booking.Date)

	if !booking.Date.After(day(s.now().UTC())) {
		return entity.TaxiBooking{}, fmt.Errorf("%w: booking date %s must be in the future", entity.ErrInvalidRequest, booking.Date.Format(time.DateOnly))
	}

	if _, err := s.customers.Get(ctx, booking.CustomerID); err != nil {
		return entity.TaxiBooking{}, referenceError("customer", booking.CustomerID, err)
	}
	if _, err := s.taxis.Get(ctx, booking.TaxiID); err != nil {
		return entity.TaxiBooking{}, referenceError("taxi", booking.TaxiID, err)
	}

	stored, err := s.bookings.Add(ctx, booking)
	if errors.Is(err, entity.ErrConflict) {
		return entity.TaxiBooking{}, fmt.Errorf("taxi %d is already booked on %s: %w", booking.TaxiID, booking.Date.Format(time.DateOnly), err)
	}
	if err != nil {
		return entity.TaxiBooking{}, fmt.Errorf("%w: could not store taxi booking: %s", entity.ErrInternal, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"leg":        entity.LegTaxi,
		"booking_id": stored.ID,
		"taxi_id":    stored.TaxiID,
	}).Info("Taxi booked")

	return stored, nil
}

// Cancel deletes a taxi booking on behalf of a customer. Bookings that are
// part of a travel booking are cancelled with the travel booking only.
func (s Service) Cancel(ctx context.Context, bookingID int64) error {
	referenced, err := s.travels.ReferencesTaxiBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("%w: %s", entity.ErrInternal, err)
	}
	if referenced {
		return fmt.Errorf("%w: taxi booking %d is part of a travel booking", entity.ErrConflict, bookingID)
	}

	return s.Delete(ctx, bookingID)
}

// Delete is the compensation of the taxi leg.
func (s Service) Delete(ctx context.Context, bookingID int64) error {
	err := s.bookings.Delete(ctx, bookingID)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("%w: taxi booking %d: %w", entity.ErrInvalidRequest, bookingID, err)
	}
	if err != nil {
		return fmt.Errorf("%w: could not delete taxi booking %d: %s", entity.ErrInternal, bookingID, err)
	}

	return nil
}

func (s Service) Get(ctx context.Context, bookingID int64) (entity.TaxiBooking, error) {
	return s.bookings.Get(ctx, bookingID)
}

func (s Service) FindAll(ctx context.Context) ([]entity.TaxiBooking, error) {
	return s.bookings.FindAll(ctx)
}

func referenceError(name string, id int64, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("%w: %s %d does not exist", entity.ErrInvalidRequest, name, id)
	}

	return fmt.Errorf("%w: could not get %s %d: %s", entity.ErrInternal, name, id, err)
}

// day drops the time of day, taxis are booked per calendar day. The day is
// the one in the offset the date was given in.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
