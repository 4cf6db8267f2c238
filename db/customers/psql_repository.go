package customers

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

func (r PostgresRepository) Add(ctx context.Context, customer entity.Customer) (entity.Customer, error) {
	err := r.db.GetContext(ctx, &customer.ID, `
		INSERT INTO customers (name, email, phone_number)
		VALUES ($1, $2, $3)
		RETURNING id
	`, customer.Name, customer.Email, customer.PhoneNumber)
	if dbLib.IsErrorUniqueViolation(err) {
		return entity.Customer{}, fmt.Errorf("customer with email %s already exists: %w", customer.Email, entity.ErrConflict)
	}
	if err != nil {
		return entity.Customer{}, fmt.Errorf("could not add customer: %w", err)
	}

	return customer, nil
}

func (r PostgresRepository) Get(ctx context.Context, id int64) (entity.Customer, error) {
	var customer entity.Customer
	err := r.db.GetContext(ctx, &customer, `SELECT * FROM customers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Customer{}, fmt.Errorf("customer %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return entity.Customer{}, fmt.Errorf("could not get customer %d: %w", id, err)
	}

	return customer, nil
}

func (r PostgresRepository) FindAll(ctx context.Context) ([]entity.Customer, error) {
	customers := []entity.Customer{}
	err := r.db.SelectContext(ctx, &customers, `SELECT * FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not get customers: %w", err)
	}

	return customers, nil
}
