package customers_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagent/db"
	"travelagent/db/customers"
	"travelagent/entity"
)

func TestMain(m *testing.M) {
	os.Exit(db.RunWithPostgres(m))
}

func TestPostgresRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("requires postgres")
	}

	ctx := context.Background()
	repo := customers.NewPostgresRepository(db.GetDb(t))

	customer := entity.Customer{
		Name:        "Jane Doe",
		Email:       uuid.NewString() + "@example.com",
		PhoneNumber: "01234567890",
	}

	added, err := repo.Add(ctx, customer)
	require.NoError(t, err)
	assert.NotZero(t, added.ID)

	got, err := repo.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	_, err = repo.Add(ctx, customer)
	assert.ErrorIs(t, err, entity.ErrConflict)

	_, err = repo.Get(ctx, added.ID+1000)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, added)
}
