package travel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"travelagent/entity"
	"travelagent/metrics"
)

type Store interface {
	Add(ctx context.Context, booking entity.TravelBooking) (entity.TravelBooking, error)
	Get(ctx context.Context, id int64) (entity.TravelBooking, error)
	Delete(ctx context.Context, id int64) error
}

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

type State string

const (
	StateStart        State = "start"
	StateStored       State = "stored"
	StateCompensating State = "compensating"
	StateFailed       State = "failed"
)

func bookedState(kind entity.LegKind) State {
	return State(string(kind) + "_booked")
}

// Orchestrator books a travel package leg by leg. When a leg fails, the legs
// booked before it are cancelled in reverse order.
type Orchestrator struct {
	legs       []LegDefinition
	legsByKind map[entity.LegKind]LegDefinition
	store      Store
	eventBus   EventBus
	tracer     trace.Tracer
}

func NewOrchestrator(legs []LegDefinition, store Store, eventBus EventBus) *Orchestrator {
	if store == nil {
		panic("store is nil")
	}
	if eventBus == nil {
		panic("eventBus is nil")
	}

	legsByKind := make(map[entity.LegKind]LegDefinition, len(legs))
	for _, leg := range legs {
		if leg.Service == nil || leg.Resource == nil {
			panic(fmt.Sprintf("%s leg is not fully defined", leg.Kind))
		}
		if _, ok := legsByKind[leg.Kind]; ok {
			panic(fmt.Sprintf("%s leg defined twice", leg.Kind))
		}
		legsByKind[leg.Kind] = leg
	}
	for _, kind := range []entity.LegKind{entity.LegTaxi, entity.LegHotel, entity.LegFlight} {
		if _, ok := legsByKind[kind]; !ok {
			panic(fmt.Sprintf("%s leg is missing", kind))
		}
	}

	return &Orchestrator{
		legs:       legs,
		legsByKind: legsByKind,
		store:      store,
		eventBus:   eventBus,
		tracer:     otel.Tracer("travelagent/travel"),
	}
}

// Book books every leg and stores the travel booking. It returns
// *LegFailure, *CompensationFailure or *PersistenceFailure when a booking
// could not be made.
func (o *Orchestrator) Book(ctx context.Context, req entity.TravelBookingRequest) (entity.TravelBooking, error) {
	if err := req.Validate(); err != nil {
		metrics.TravelBookings.WithLabelValues("book", "invalid").Inc()
		return entity.TravelBooking{}, err
	}

	ctx, span := o.tracer.Start(ctx, "travel.Book", trace.WithAttributes(
		attribute.Int64("customer_id", req.CustomerID),
	))
	defer span.End()

	logger := log.FromContext(ctx).WithField("customer_id", req.CustomerID)
	logger.WithField("state", StateStart).Info("Booking travel")

	ledger := &Ledger{}
	for _, leg := range o.legs {
		bookingID, err := o.bookLeg(ctx, leg, req)
		if err != nil {
			failure := &LegFailure{Leg: leg.Kind, Outcome: outcomeOf(err), Err: err}
			err := o.rollback(ctx, ledger, failure)
			recordError(span, err)
			return entity.TravelBooking{}, err
		}

		ledger.Record(LegResult{Kind: leg.Kind, BookingID: bookingID, Outcome: LegSucceeded})
		logger.WithFields(logrus.Fields{
			"leg":        leg.Kind,
			"booking_id": bookingID,
			"state":      bookedState(leg.Kind),
		}).Info("Leg booked")
	}

	booking := o.travelBooking(req, ledger)

	// every leg is booked, storing must not depend on the caller anymore
	ctx = context.WithoutCancel(ctx)

	stored, err := o.store.Add(ctx, booking)
	if err != nil {
		failure := &PersistenceFailure{Booking: booking, Err: err}
		o.reportOrphanedLegs(ctx, req, ledger, failure)
		recordError(span, failure)
		return entity.TravelBooking{}, failure
	}

	metrics.TravelBookings.WithLabelValues("book", "created").Inc()
	span.SetAttributes(attribute.Int64("travel_booking_id", stored.ID))
	logger.WithFields(logrus.Fields{
		"travel_booking_id": stored.ID,
		"state":             StateStored,
	}).Info("Travel booked")

	return stored, nil
}

// Cancel deletes the legs of a stored travel booking, flight first, and then
// removes the booking. A failed leg deletion does not stop the others and the
// booking record is removed regardless.
func (o *Orchestrator) Cancel(ctx context.Context, id int64) error {
	ctx, span := o.tracer.Start(ctx, "travel.Cancel", trace.WithAttributes(
		attribute.Int64("travel_booking_id", id),
	))
	defer span.End()

	booking, err := o.store.Get(ctx, id)
	if err != nil {
		recordError(span, err)
		return fmt.Errorf("could not get travel booking %d: %w", id, err)
	}

	ctx = context.WithoutCancel(ctx)
	logger := log.FromContext(ctx).WithField("travel_booking_id", id)

	failures := o.undo(ctx, ledgerFor(booking, o.legs))

	var storeErr error
	if err := o.store.Delete(ctx, id); err != nil && !errors.Is(err, entity.ErrNotFound) {
		storeErr = err
	}

	o.publish(ctx, entity.TravelBookingCancelled_v1{
		Header:          entity.NewEventHeader(),
		TravelBookingID: id,
		Complete:        len(failures) == 0 && storeErr == nil,
	})

	if len(failures) > 0 {
		o.publish(ctx, entity.CompensationFailed_v1{
			Header:          entity.NewEventHeader(),
			TravelBookingID: id,
			Reason:          "travel booking cancelled",
			Failures:        legRefs(failures),
		})
	}

	if len(failures) > 0 || storeErr != nil {
		failure := &CancellationFailure{TravelBookingID: id, Failures: failures, StoreErr: storeErr}
		metrics.TravelBookings.WithLabelValues("cancel", "partial").Inc()
		logger.WithError(failure).Error("Travel booking cancelled with errors")
		recordError(span, failure)
		return failure
	}

	metrics.TravelBookings.WithLabelValues("cancel", "cancelled").Inc()
	logger.Info("Travel booking cancelled")

	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, ledger *Ledger, failure *LegFailure) error {
	logger := log.FromContext(ctx).WithField("leg", failure.Leg)

	if ledger.Len() == 0 {
		metrics.TravelBookings.WithLabelValues("book", string(failure.Outcome)).Inc()
		logger.WithError(failure.Err).WithField("state", StateFailed).Warn("Leg failed, nothing to compensate")
		return failure
	}

	logger.WithError(failure.Err).WithField("state", StateCompensating).Warn("Leg failed, compensating booked legs")

	// compensation runs to the end even if the caller is gone
	ctx = context.WithoutCancel(ctx)

	failures := o.undo(ctx, ledger)
	if len(failures) == 0 {
		metrics.TravelBookings.WithLabelValues("book", string(failure.Outcome)).Inc()
		logger.WithField("state", StateFailed).Info("Booked legs compensated")
		return failure
	}

	compensationFailure := &CompensationFailure{Cause: failure, Failures: failures}
	metrics.TravelBookings.WithLabelValues("book", "compensation_failed").Inc()
	logger.WithError(compensationFailure).WithField("state", StateFailed).Error("Compensation failed, bookings were left behind")

	o.publish(ctx, entity.CompensationFailed_v1{
		Header:    entity.NewEventHeader(),
		FailedLeg: failure.Leg,
		Reason:    failure.Err.Error(),
		Failures:  legRefs(failures),
	})

	return compensationFailure
}

// undo cancels every leg in the ledger, most recent first, and collects the
// cancellations that failed.
func (o *Orchestrator) undo(ctx context.Context, ledger *Ledger) []CompensationError {
	var failures []CompensationError
	for _, result := range ledger.Unwind() {
		err := o.cancelLeg(ctx, o.legsByKind[result.Kind], result.BookingID)
		if err != nil {
			failures = append(failures, CompensationError{
				Leg:       result.Kind,
				BookingID: result.BookingID,
				Err:       err,
			})
		}
	}

	return failures
}

func (o *Orchestrator) bookLeg(ctx context.Context, leg LegDefinition, req entity.TravelBookingRequest) (int64, error) {
	ctx, span := o.tracer.Start(ctx, "travel.book_leg", trace.WithAttributes(
		attribute.String("leg", string(leg.Kind)),
	))
	defer span.End()

	start := time.Now()
	bookingID, err := leg.Service.Create(ctx, req.CustomerID, leg.Resource(req), req.Date)
	metrics.LegDuration.WithLabelValues(string(leg.Kind), "book").Observe(time.Since(start).Seconds())
	metrics.LegRequests.WithLabelValues(string(leg.Kind), string(outcomeOf(err))).Inc()

	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("booking_id", bookingID))

	return bookingID, nil
}

func (o *Orchestrator) cancelLeg(ctx context.Context, leg LegDefinition, bookingID int64) error {
	ctx, span := o.tracer.Start(ctx, "travel.cancel_leg", trace.WithAttributes(
		attribute.String("leg", string(leg.Kind)),
		attribute.Int64("booking_id", bookingID),
	))
	defer span.End()

	logger := log.FromContext(ctx).WithFields(logrus.Fields{
		"leg":        leg.Kind,
		"booking_id": bookingID,
	})

	start := time.Now()
	err := leg.Service.Delete(ctx, bookingID)
	metrics.LegDuration.WithLabelValues(string(leg.Kind), "cancel").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Compensations.WithLabelValues(string(leg.Kind), "failed").Inc()
		logger.WithError(err).Error("Could not cancel leg")
		recordError(span, err)
		return err
	}

	metrics.Compensations.WithLabelValues(string(leg.Kind), "ok").Inc()
	logger.Info("Leg cancelled")

	return nil
}

func (o *Orchestrator) travelBooking(req entity.TravelBookingRequest, ledger *Ledger) entity.TravelBooking {
	bookingID := func(kind entity.LegKind) int64 {
		id, _ := ledger.BookingID(kind)
		return id
	}

	return entity.TravelBooking{
		CustomerID:      req.CustomerID,
		TaxiBookingID:   bookingID(entity.LegTaxi),
		HotelBookingID:  bookingID(entity.LegHotel),
		FlightBookingID: bookingID(entity.LegFlight),
		Date:            req.Date,
	}
}

func (o *Orchestrator) reportOrphanedLegs(ctx context.Context, req entity.TravelBookingRequest, ledger *Ledger, failure *PersistenceFailure) {
	metrics.TravelBookings.WithLabelValues("book", "persistence_failed").Inc()
	log.FromContext(ctx).WithError(failure).WithFields(logrus.Fields{
		"customer_id":       req.CustomerID,
		"taxi_booking_id":   failure.Booking.TaxiBookingID,
		"hotel_booking_id":  failure.Booking.HotelBookingID,
		"flight_booking_id": failure.Booking.FlightBookingID,
	}).Error("All legs booked but travel booking was not stored")

	o.publish(ctx, entity.OrphanedLegsDetected_v1{
		Header:     entity.NewEventHeader(),
		CustomerID: req.CustomerID,
		Legs: lo.Map(ledger.Completed(), func(r LegResult, _ int) entity.LegRef {
			return entity.LegRef{Leg: r.Kind, BookingID: r.BookingID}
		}),
		Reason: failure.Err.Error(),
	})
}

// publish never fails the operation, the outcome of the booking is already
// decided when these events are sent.
func (o *Orchestrator) publish(ctx context.Context, event any) {
	if err := o.eventBus.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WithError(err).Errorf("Could not publish %T", event)
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
