package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TravelBookings counts booking attempts and cancellations by their outcome
	TravelBookings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelagent",
			Name:      "travel_bookings_total",
			Help:      "The total number of travel booking attempts and cancellations, by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// LegRequests counts forward calls per leg
	LegRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelagent",
			Name:      "leg_requests_total",
			Help:      "The total number of leg booking requests, by leg and outcome",
		},
		[]string{"leg", "outcome"},
	)

	// LegDuration the time spent waiting for a leg to be booked or cancelled
	LegDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travelagent",
			Name:      "leg_duration_seconds",
			Help:      "Time spent booking or cancelling a leg",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"leg", "action"},
	)

	// Compensations counts undo calls per leg
	Compensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelagent",
			Name:      "compensations_total",
			Help:      "The total number of leg compensations, by leg and result",
		},
		[]string{"leg", "result"},
	)

	// MessagesProcessed The total number of processed messages (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingFailed total number of message processing failures (counter)
	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingDuration The total time spent processing messages (summary with quantiles 0.5, 0.9, and 0.99)
	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)
)
