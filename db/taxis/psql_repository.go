package taxis

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

func (r PostgresRepository) Add(ctx context.Context, taxi entity.Taxi) (entity.Taxi, error) {
	err := r.db.GetContext(ctx, &taxi.ID, `
		INSERT INTO taxis (registration, seats)
		VALUES ($1, $2)
		RETURNING id
	`, taxi.Registration, taxi.Seats)
	if dbLib.IsErrorUniqueViolation(err) {
		return entity.Taxi{}, fmt.Errorf("taxi %s already exists: %w", taxi.Registration, entity.ErrConflict)
	}
	if err != nil {
		return entity.Taxi{}, fmt.Errorf("could not add taxi: %w", err)
	}

	return taxi, nil
}

func (r PostgresRepository) Get(ctx context.Context, id int64) (entity.Taxi, error) {
	var taxi entity.Taxi
	err := r.db.GetContext(ctx, &taxi, `SELECT * FROM taxis WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Taxi{}, fmt.Errorf("taxi %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return entity.Taxi{}, fmt.Errorf("could not get taxi %d: %w", id, err)
	}

	return taxi, nil
}

func (r PostgresRepository) FindAll(ctx context.Context) ([]entity.Taxi, error) {
	taxis := []entity.Taxi{}
	err := r.db.SelectContext(ctx, &taxis, `SELECT * FROM taxis ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not get taxis: %w", err)
	}

	return taxis, nil
}
