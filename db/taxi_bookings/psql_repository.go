package taxi_bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	dbLib "travelagent/db"
	"travelagent/entity"
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

// Add relies on the (taxi_id, booking_date) unique constraint, so two
// concurrent bookings of the same taxi on the same day cannot both succeed.
func (r PostgresRepository) Add(ctx context.Context, booking entity.TaxiBooking) (entity.TaxiBooking, error) {
	err := r.db.GetContext(ctx, &booking.ID, `
		INSERT INTO taxi_bookings (customer_id, taxi_id, booking_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`, booking.CustomerID, booking.TaxiID, booking.Date)
	if dbLib.IsErrorUniqueViolation(err) {
		return entity.TaxiBooking{}, entity.ErrConflict
	}
	if err != nil {
		return entity.TaxiBooking{}, fmt.Errorf("could not add taxi booking: %w", err)
	}

	return booking, nil
}

func (r PostgresRepository) Get(ctx context.Context, id int64) (entity.TaxiBooking, error) {
	var booking entity.TaxiBooking
	err := r.db.GetContext(ctx, &booking, `SELECT * FROM taxi_bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.TaxiBooking{}, fmt.Errorf("taxi booking %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return entity.TaxiBooking{}, fmt.Errorf("could not get taxi booking %d: %w", id, err)
	}

	return booking, nil
}

func (r PostgresRepository) FindAll(ctx context.Context) ([]entity.TaxiBooking, error) {
	bookings := []entity.TaxiBooking{}
	err := r.db.SelectContext(ctx, &bookings, `SELECT * FROM taxi_bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not get taxi bookings: %w", err)
	}

	return bookings, nil
}

func (r PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM taxi_bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("could not delete taxi booking %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("taxi booking %d: %w", id, entity.ErrNotFound)
	}

	return nil
}
