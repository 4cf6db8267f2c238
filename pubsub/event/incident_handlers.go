package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"travelagent/entity"
)

type IncidentsReadModel interface {
	Add(ctx context.Context, incident entity.Incident) error
}

// IncidentHandlers turn compensation failures and orphaned legs into
// incidents for operators.
type IncidentHandlers struct {
	readModel IncidentsReadModel
}

func NewIncidentHandlers(readModel IncidentsReadModel) IncidentHandlers {
	if readModel == nil {
		panic("readModel is nil")
	}

	return IncidentHandlers{readModel: readModel}
}

func (h IncidentHandlers) Handlers() []cqrs.EventHandler {
	return []cqrs.EventHandler{
		cqrs.NewEventHandler("incidents.OnCompensationFailed", h.OnCompensationFailed),
		cqrs.NewEventHandler("incidents.OnOrphanedLegsDetected", h.OnOrphanedLegsDetected),
	}
}

func (h IncidentHandlers) OnCompensationFailed(ctx context.Context, event *entity.CompensationFailed_v1) error {
	log.FromContext(ctx).WithField("travel_booking_id", event.TravelBookingID).Info("Recording compensation failure")

	err := h.readModel.Add(ctx, entity.Incident{
		IncidentID:      event.Header.ID,
		Kind:            entity.IncidentCompensationFailed,
		TravelBookingID: event.TravelBookingID,
		Legs:            event.Failures,
		Reason:          event.Reason,
		OccurredAt:      event.Header.PublishedAt,
	})
	if err != nil {
		return fmt.Errorf("could not record compensation failure: %w", err)
	}

	return nil
}

func (h IncidentHandlers) OnOrphanedLegsDetected(ctx context.Context, event *entity.OrphanedLegsDetected_v1) error {
	log.FromContext(ctx).WithField("customer_id", event.CustomerID).Info("Recording orphaned legs")

	err := h.readModel.Add(ctx, entity.Incident{
		IncidentID: event.Header.ID,
		Kind:       entity.IncidentOrphanedLegs,
		Legs:       event.Legs,
		Reason:     event.Reason,
		OccurredAt: event.Header.PublishedAt,
	})
	if err != nil {
		return fmt.Errorf("could not record orphaned legs: %w", err)
	}

	return nil
}
