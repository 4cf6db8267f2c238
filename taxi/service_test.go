package taxi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagent/entity"
)

var today = time.Date(2030, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestService() (Service, *bookingsMock) {
	customers := customersMock{1: {ID: 1, Name: "Jane Doe"}}
	taxis := taxisMock{5: {ID: 5, Registration: "AB12CDE", Seats: 4}}
	bookings := &bookingsMock{}
	travels := travelBookingsMock{}

	s := NewService(customers, taxis, bookings, travels)
	s.now = func() time.Time { return today }

	return s, bookings
}

func TestService_Create(t *testing.T) {
	s, bookings := newTestService()

	id, err := s.Create(context.Background(), 1, 5, today.Add(24*time.Hour))
	require.NoError(t, err)

	booking, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), booking.CustomerID)
	assert.Equal(t, int64(5), booking.TaxiID)
	assert.Equal(t, time.Date(2030, 3, 11, 0, 0, 0, 0, time.UTC), booking.Date)
	assert.Len(t, bookings.bookings, 1)
}

func TestService_Create_invalid(t *testing.T) {
	testCases := []struct {
		name       string
		customerID int64
		taxiID     int64
		date       time.Time
	}{
		{name: "today", customerID: 1, taxiID: 5, date: today.Add(time.Hour)},
		{name: "past", customerID: 1, taxiID: 5, date: today.Add(-48 * time.Hour)},
		{name: "unknown customer", customerID: 2, taxiID: 5, date: today.Add(24 * time.Hour)},
		{name: "unknown taxi", customerID: 1, taxiID: 6, date: today.Add(24 * time.Hour)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, bookings := newTestService()

			_, err := s.Create(context.Background(), tc.customerID, tc.taxiID, tc.date)
			assert.ErrorIs(t, err, entity.ErrInvalidRequest)
			assert.Empty(t, bookings.bookings)
		})
	}
}

func TestService_Create_taxi_already_booked(t *testing.T) {
	s, _ := newTestService()
	date := today.Add(72 * time.Hour)

	_, err := s.Create(context.Background(), 1, 5, date)
	require.NoError(t, err)

	_, err = s.Create(context.Background(), 1, 5, date.Add(2*time.Hour))
	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestService_Create_repository_error(t *testing.T) {
	s, bookings := newTestService()
	bookings.addErr = errors.New("connection refused")

	_, err := s.Create(context.Background(), 1, 5, today.Add(24*time.Hour))
	assert.ErrorIs(t, err, entity.ErrInternal)
	assert.False(t, errors.Is(err, entity.ErrInvalidRequest))
}

func TestService_Delete(t *testing.T) {
	s, bookings := newTestService()

	id, err := s.Create(context.Background(), 1, 5, today.Add(24*time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), id))
	assert.Empty(t, bookings.bookings)

	err = s.Delete(context.Background(), id)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestService_Create_keeps_requested_calendar_day(t *testing.T) {
	s, bookings := newTestService()

	// 01:00 at +05:00 is still the previous day in UTC
	date := time.Date(2030, 3, 16, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60))

	id, err := s.Create(context.Background(), 1, 5, date)
	require.NoError(t, err)

	booking, err := bookings.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 3, 16, 0, 0, 0, 0, time.UTC), booking.Date)
}

func TestService_Cancel(t *testing.T) {
	s, bookings := newTestService()

	id, err := s.Create(context.Background(), 1, 5, today.Add(24*time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Cancel(context.Background(), id))
	assert.Empty(t, bookings.bookings)

	err = s.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestService_Cancel_part_of_travel_booking(t *testing.T) {
	s, bookings := newTestService()

	id, err := s.Create(context.Background(), 1, 5, today.Add(24*time.Hour))
	require.NoError(t, err)
	s.travels = travelBookingsMock{id: true}

	err = s.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, entity.ErrConflict)
	assert.Len(t, bookings.bookings, 1)

	// compensation of the leg is not guarded
	require.NoError(t, s.Delete(context.Background(), id))
	assert.Empty(t, bookings.bookings)
}

type travelBookingsMock map[int64]bool

func (m travelBookingsMock) ReferencesTaxiBooking(ctx context.Context, taxiBookingID int64) (bool, error) {
	return m[taxiBookingID], nil
}

type customersMock map[int64]entity.Customer

func (m customersMock) Get(ctx context.Context, id int64) (entity.Customer, error) {
	c, ok := m[id]
	if !ok {
		return entity.Customer{}, entity.ErrNotFound
	}
	return c, nil
}

type taxisMock map[int64]entity.Taxi

func (m taxisMock) Get(ctx context.Context, id int64) (entity.Taxi, error) {
	t, ok := m[id]
	if !ok {
		return entity.Taxi{}, entity.ErrNotFound
	}
	return t, nil
}

type bookingsMock struct {
	lock     sync.Mutex
	lastID   int64
	bookings map[int64]entity.TaxiBooking
	addErr   error
}

func (m *bookingsMock) Add(ctx context.Context, booking entity.TaxiBooking) (entity.TaxiBooking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.addErr != nil {
		return entity.TaxiBooking{}, m.addErr
	}
	if m.bookings == nil {
		m.bookings = make(map[int64]entity.TaxiBooking)
	}
	for _, b := range m.bookings {
		if b.TaxiID == booking.TaxiID && b.Date.Equal(booking.Date) {
			return entity.TaxiBooking{}, entity.ErrConflict
		}
	}

	m.lastID++
	booking.ID = m.lastID
	m.bookings[booking.ID] = booking

	return booking, nil
}

func (m *bookingsMock) Get(ctx context.Context, id int64) (entity.TaxiBooking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return entity.TaxiBooking{}, fmt.Errorf("taxi booking %d: %w", id, entity.ErrNotFound)
	}
	return b, nil
}

func (m *bookingsMock) FindAll(ctx context.Context) ([]entity.TaxiBooking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	var all []entity.TaxiBooking
	for _, b := range m.bookings {
		all = append(all, b)
	}
	return all, nil
}

func (m *bookingsMock) Delete(ctx context.Context, id int64) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.bookings[id]; !ok {
		return entity.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}
