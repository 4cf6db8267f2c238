package incidents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	dbLib "travelagent/db"
	"travelagent/entity"
)

// PostgresReadModel keeps travel booking inconsistencies that operators have
// to reconcile by hand.
type PostgresReadModel struct {
	db *sqlx.DB
}

func NewPostgresReadModel(db *sqlx.DB) PostgresReadModel {
	if db == nil {
		panic("db is nil")
	}

	return PostgresReadModel{db: db}
}

type incidentRow struct {
	IncidentID      string              `db:"incident_id"`
	Kind            entity.IncidentKind `db:"kind"`
	TravelBookingID int64               `db:"travel_booking_id"`
	Legs            []byte              `db:"legs"`
	Reason          string              `db:"reason"`
	OccurredAt      time.Time           `db:"occurred_at"`
}

// Add is idempotent, a redelivered incident is stored once.
func (r PostgresReadModel) Add(ctx context.Context, incident entity.Incident) error {
	legs, err := json.Marshal(incident.Legs)
	if err != nil {
		return fmt.Errorf("could not marshal incident legs: %w", err)
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO ops_incidents (incident_id, kind, travel_booking_id, legs, reason, occurred_at)
		VALUES (:incident_id, :kind, :travel_booking_id, :legs, :reason, :occurred_at)
	`, incidentRow{
		IncidentID:      incident.IncidentID,
		Kind:            incident.Kind,
		TravelBookingID: incident.TravelBookingID,
		Legs:            legs,
		Reason:          incident.Reason,
		OccurredAt:      incident.OccurredAt,
	})
	if dbLib.IsErrorUniqueViolation(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not store incident %s: %w", incident.IncidentID, err)
	}

	return nil
}

func (r PostgresReadModel) FindAll(ctx context.Context, kind entity.IncidentKind) ([]entity.Incident, error) {
	var rows []incidentRow

	query := `SELECT * FROM ops_incidents`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY occurred_at ASC`

	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("could not get incidents: %w", err)
	}

	incidents := make([]entity.Incident, 0, len(rows))
	for _, row := range rows {
		incident := entity.Incident{
			IncidentID:      row.IncidentID,
			Kind:            row.Kind,
			TravelBookingID: row.TravelBookingID,
			Reason:          row.Reason,
			OccurredAt:      row.OccurredAt,
		}
		if err := json.Unmarshal(row.Legs, &incident.Legs); err != nil {
			return nil, fmt.Errorf("could not unmarshal legs of incident %s: %w", row.IncidentID, err)
		}

		incidents = append(incidents, incident)
	}

	return incidents, nil
}
