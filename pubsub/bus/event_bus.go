package bus

import (
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventsTopic receives every event. From there events are archived in the
// data lake and split into per-event topics.
const EventsTopic = "events"

const CorrelationIDMetadataKey = "correlation_id"

func NewEventBus(pub message.Publisher) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(pub, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return EventsTopic, nil
		},
		// set here, so it survives the outbox
		OnPublish: func(params cqrs.OnEventSendParams) error {
			params.Message.Metadata.Set(CorrelationIDMetadataKey, log.CorrelationIDFromContext(params.Message.Context()))
			return nil
		},
		Marshaler: Marshaler,
	})
}

var Marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

func EventTopic(eventName string) string {
	return EventsTopic + "." + eventName
}
