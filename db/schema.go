package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

func InitializeDatabaseSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS customers (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(50) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			phone_number VARCHAR(15) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS taxis (
			id BIGSERIAL PRIMARY KEY,
			registration VARCHAR(7) NOT NULL UNIQUE,
			seats INT NOT NULL CHECK (seats >= 2 AND seats <= 20)
		);

		CREATE TABLE IF NOT EXISTS taxi_bookings (
			id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL REFERENCES customers (id),
			taxi_id BIGINT NOT NULL REFERENCES taxis (id),
			booking_date DATE NOT NULL,
			UNIQUE (taxi_id, booking_date)
		);

		CREATE TABLE IF NOT EXISTS travel_bookings (
			id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			taxi_booking_id BIGINT NOT NULL,
			hotel_booking_id BIGINT NOT NULL,
			flight_booking_id BIGINT NOT NULL,
			booking_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS events (
			event_id UUID PRIMARY KEY,
			published_at TIMESTAMPTZ NOT NULL,
			event_name VARCHAR(255) NOT NULL,
			event_payload JSONB NOT NULL
		);

		CREATE TABLE IF NOT EXISTS ops_incidents (
			incident_id UUID PRIMARY KEY,
			kind VARCHAR(50) NOT NULL,
			travel_booking_id BIGINT NOT NULL DEFAULT 0,
			legs JSONB NOT NULL,
			reason TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}

	return nil
}
