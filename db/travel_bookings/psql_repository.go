package travel_bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	dbLib "travelagent/db"
	"travelagent/entity"
	"travelagent/pubsub/bus"
	"travelagent/pubsub/outbox"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) PostgresRepository {
	if db == nil {
		panic("db is nil")
	}

	return PostgresRepository{db: db}
}

// Add stores the travel booking and publishes TravelBookingCreated_v1 in the
// same transaction.
func (r PostgresRepository) Add(ctx context.Context, booking entity.TravelBooking) (entity.TravelBooking, error) {
	err := dbLib.UpdateInTx(
		ctx,
		r.db,
		sql.LevelReadCommitted,
		func(ctx context.Context, tx *sqlx.Tx) error {
			err := tx.QueryRowxContext(ctx, `
				INSERT INTO travel_bookings (customer_id, taxi_booking_id, hotel_booking_id, flight_booking_id, booking_date)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, created_at
			`,
				booking.CustomerID,
				booking.TaxiBookingID,
				booking.HotelBookingID,
				booking.FlightBookingID,
				booking.Date,
			).Scan(&booking.ID, &booking.CreatedAt)
			if err != nil {
				return fmt.Errorf("could not insert travel booking: %w", err)
			}

			outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
			if err != nil {
				return err
			}

			eventBus, err := bus.NewEventBus(outboxPublisher)
			if err != nil {
				return fmt.Errorf("could not create event bus: %w", err)
			}

			err = eventBus.Publish(ctx, entity.TravelBookingCreated_v1{
				Header:          entity.NewEventHeader(),
				TravelBookingID: booking.ID,
				CustomerID:      booking.CustomerID,
				TaxiBookingID:   booking.TaxiBookingID,
				HotelBookingID:  booking.HotelBookingID,
				FlightBookingID: booking.FlightBookingID,
				Date:            booking.Date,
			})
			if err != nil {
				return fmt.Errorf("could not publish event: %w", err)
			}

			return nil
		},
	)
	if err != nil {
		return entity.TravelBooking{}, err
	}

	return booking, nil
}

func (r PostgresRepository) Get(ctx context.Context, id int64) (entity.TravelBooking, error) {
	var booking entity.TravelBooking
	err := r.db.GetContext(ctx, &booking, `SELECT * FROM travel_bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.TravelBooking{}, fmt.Errorf("travel booking %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return entity.TravelBooking{}, fmt.Errorf("could not get travel booking %d: %w", id, err)
	}

	return booking, nil
}

func (r PostgresRepository) FindAll(ctx context.Context) ([]entity.TravelBooking, error) {
	bookings := []entity.TravelBooking{}
	err := r.db.SelectContext(ctx, &bookings, `SELECT * FROM travel_bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not get travel bookings: %w", err)
	}

	return bookings, nil
}

// ReferencesTaxiBooking reports whether a stored travel booking includes the
// taxi booking.
func (r PostgresRepository) ReferencesTaxiBooking(ctx context.Context, taxiBookingID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM travel_bookings WHERE taxi_booking_id = $1)`, taxiBookingID)
	if err != nil {
		return false, fmt.Errorf("could not check travel bookings of taxi booking %d: %w", taxiBookingID, err)
	}

	return exists, nil
}

func (r PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM travel_bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("could not delete travel booking %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("travel booking %d: %w", id, entity.ErrNotFound)
	}

	return nil
}
