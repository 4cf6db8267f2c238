package incidents_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagent/db"
	"travelagent/db/incidents"
	"travelagent/entity"
)

func TestMain(m *testing.M) {
	os.Exit(db.RunWithPostgres(m))
}

func TestPostgresReadModel(t *testing.T) {
	if testing.Short() {
		t.Skip("requires postgres")
	}

	ctx := context.Background()
	readModel := incidents.NewPostgresReadModel(db.GetDb(t))

	incident := entity.Incident{
		IncidentID: uuid.NewString(),
		Kind:       entity.IncidentCompensationFailed,
		Legs: []entity.LegRef{
			{Leg: entity.LegHotel, BookingID: 2, Error: "unexpected status code 500"},
		},
		Reason:     "flight service rejected booking",
		OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	require.NoError(t, readModel.Add(ctx, incident))
	// redelivery
	require.NoError(t, readModel.Add(ctx, incident))

	orphaned := entity.Incident{
		IncidentID: uuid.NewString(),
		Kind:       entity.IncidentOrphanedLegs,
		Legs: []entity.LegRef{
			{Leg: entity.LegTaxi, BookingID: 1},
			{Leg: entity.LegHotel, BookingID: 2},
			{Leg: entity.LegFlight, BookingID: 3},
		},
		Reason:     "connection reset by peer",
		OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, readModel.Add(ctx, orphaned))

	all, err := readModel.FindAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, lo.Filter(all, func(i entity.Incident, _ int) bool { return i.IncidentID == incident.IncidentID }), 1)

	compensationFailures, err := readModel.FindAll(ctx, entity.IncidentCompensationFailed)
	require.NoError(t, err)

	found, ok := lo.Find(compensationFailures, func(i entity.Incident) bool { return i.IncidentID == incident.IncidentID })
	require.True(t, ok)
	assert.Equal(t, incident.Legs, found.Legs)
	assert.Equal(t, incident.Reason, found.Reason)
	assert.True(t, incident.OccurredAt.Equal(found.OccurredAt))

	assert.False(t, lo.ContainsBy(compensationFailures, func(i entity.Incident) bool { return i.IncidentID == orphaned.IncidentID }))
}
