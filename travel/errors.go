package travel

import (
	"errors"
	"fmt"
	"strings"

	"travelagent/entity"
)

// LegFailure means a leg could not be booked and every leg booked before
// it was undone.
type LegFailure struct {
	Leg     entity.LegKind
	Outcome LegOutcome
	Err     error
}

func (f *LegFailure) Error() string {
	return fmt.Sprintf("%s leg failed: %s", f.Leg, f.Err)
}

func (f *LegFailure) Unwrap() error {
	return f.Err
}

type CompensationError struct {
	Leg       entity.LegKind
	BookingID int64
	Err       error
}

func (e CompensationError) Error() string {
	return fmt.Sprintf("could not cancel %s booking %d: %s", e.Leg, e.BookingID, e.Err)
}

func (e CompensationError) Unwrap() error {
	return e.Err
}

// CompensationFailure means a leg failed and at least one of the already
// booked legs could not be undone. Those bookings are left behind.
type CompensationFailure struct {
	Cause    *LegFailure
	Failures []CompensationError
}

func (f *CompensationFailure) Error() string {
	return fmt.Sprintf("%s, and rollback failed: %s", f.Cause, joinCompensationErrors(f.Failures))
}

func (f *CompensationFailure) Unwrap() []error {
	errs := []error{f.Cause}
	for _, failure := range f.Failures {
		errs = append(errs, failure)
	}

	return errs
}

// PersistenceFailure means every leg was booked but the travel booking
// itself could not be stored. The legs are not undone.
type PersistenceFailure struct {
	Booking entity.TravelBooking
	Err     error
}

func (f *PersistenceFailure) Error() string {
	return fmt.Sprintf(
		"travel booking could not be stored, taxi booking %d, hotel booking %d and flight booking %d need manual reconciliation: %s",
		f.Booking.TaxiBookingID,
		f.Booking.HotelBookingID,
		f.Booking.FlightBookingID,
		f.Err,
	)
}

func (f *PersistenceFailure) Unwrap() error {
	return f.Err
}

// CancellationFailure means a stored travel booking was cancelled only
// partially: some legs could not be deleted, or the record itself could not
// be removed.
type CancellationFailure struct {
	TravelBookingID int64
	Failures        []CompensationError
	StoreErr        error
}

func (f *CancellationFailure) Error() string {
	var reasons []string
	if len(f.Failures) > 0 {
		reasons = append(reasons, joinCompensationErrors(f.Failures))
	}
	if f.StoreErr != nil {
		reasons = append(reasons, fmt.Sprintf("could not remove travel booking record: %s", f.StoreErr))
	}

	return fmt.Sprintf("travel booking %d cancelled with errors: %s", f.TravelBookingID, strings.Join(reasons, "; "))
}

func (f *CancellationFailure) Unwrap() []error {
	var errs []error
	for _, failure := range f.Failures {
		errs = append(errs, failure)
	}
	if f.StoreErr != nil {
		errs = append(errs, f.StoreErr)
	}

	return errs
}

func joinCompensationErrors(failures []CompensationError) string {
	errs := make([]error, 0, len(failures))
	for _, failure := range failures {
		errs = append(errs, failure)
	}

	return strings.ReplaceAll(errors.Join(errs...).Error(), "\n", "; ")
}

func outcomeOf(err error) LegOutcome {
	switch {
	case err == nil:
		return LegSucceeded
	case errors.Is(err, entity.ErrInvalidRequest), errors.Is(err, entity.ErrConflict):
		return LegRejected
	default:
		return LegRemoteError
	}
}

func legRefs(failures []CompensationError) []entity.LegRef {
	refs := make([]entity.LegRef, 0, len(failures))
	for _, failure := range failures {
		refs = append(refs, entity.LegRef{
			Leg:       failure.Leg,
			BookingID: failure.BookingID,
			Error:     failure.Err.Error(),
		})
	}

	return refs
}
