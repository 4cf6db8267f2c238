package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagent/entity"
	"travelagent/gateway"
	travelHTTP "travelagent/http"
	"travelagent/travel"
)

type fixture struct {
	journal *gateway.CallJournal
	taxi    *gateway.RemoteBookingMock
	hotel   *gateway.RemoteBookingMock
	flight  *gateway.RemoteBookingMock
	store   *travelBookingsMock
	server  *travelHTTP.Server
}

func newFixture() *fixture {
	journal := &gateway.CallJournal{}
	f := &fixture{
		journal: journal,
		taxi:    &gateway.RemoteBookingMock{Name: "taxi", Journal: journal, NextID: 1},
		hotel:   &gateway.RemoteBookingMock{Name: "hotel", Journal: journal, NextID: 2},
		flight:  &gateway.RemoteBookingMock{Name: "flight", Journal: journal, NextID: 3},
		store:   &travelBookingsMock{},
	}

	orchestrator := travel.NewOrchestrator(travel.Legs(f.taxi, f.hotel, f.flight), f.store, noopEventBus{})
	f.server = travelHTTP.NewServer(":0", orchestrator, f.store, nil, nil, nil, nil)

	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(f.server, method, path, body)
}

const bookingRequest = `{"customer_id": 7, "taxi_id": 11, "hotel_id": 12, "flight_id": 13, "date": "2031-05-01T10:00:00Z"}`

func TestPostTravelBooking(t *testing.T) {
	testCases := []struct {
		name           string
		setup          func(f *fixture)
		expectedStatus int
		expectedCalls  []string
	}{
		{
			name:           "created",
			setup:          func(f *fixture) {},
			expectedStatus: http.StatusCreated,
			expectedCalls:  []string{"taxi.create", "hotel.create", "flight.create"},
		},
		{
			name: "flight rejected",
			setup: func(f *fixture) {
				f.flight.CreateErr = fmt.Errorf("%w: no seats", entity.ErrInvalidRequest)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCalls:  []string{"taxi.create", "hotel.create", "flight.create", "hotel.delete(2)", "taxi.delete(1)"},
		},
		{
			name: "taxi conflict",
			setup: func(f *fixture) {
				f.taxi.CreateErr = entity.ErrConflict
			},
			expectedStatus: http.StatusBadRequest,
			expectedCalls:  []string{"taxi.create"},
		},
		{
			name: "taxi internal error",
			setup: func(f *fixture) {
				f.taxi.CreateErr = entity.ErrInternal
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCalls:  []string{"taxi.create"},
		},
		{
			name: "hotel unavailable",
			setup: func(f *fixture) {
				f.hotel.CreateErr = entity.ErrRemoteUnavailable
			},
			expectedStatus: http.StatusBadGateway,
			expectedCalls:  []string{"taxi.create", "hotel.create", "taxi.delete(1)"},
		},
		{
			name: "flight rejected and hotel rollback failed",
			setup: func(f *fixture) {
				f.flight.CreateErr = entity.ErrInvalidRequest
				f.hotel.DeleteErr = entity.ErrProtocol
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCalls:  []string{"taxi.create", "hotel.create", "flight.create", "hotel.delete(2)", "taxi.delete(1)"},
		},
		{
			name: "store failed",
			setup: func(f *fixture) {
				f.store.addErr = fmt.Errorf("database is down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCalls:  []string{"taxi.create", "hotel.create", "flight.create"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			tc.setup(f)

			rec := f.do(t, http.MethodPost, "/travelagent", bookingRequest)

			assert.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tc.expectedCalls, f.journal.Calls())

			if tc.expectedStatus == http.StatusCreated {
				var booking entity.TravelBooking
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
				assert.Equal(t, int64(1), booking.TaxiBookingID)
				assert.Equal(t, int64(2), booking.HotelBookingID)
				assert.Equal(t, int64(3), booking.FlightBookingID)
				assert.Len(t, f.store.bookings, 1)
			} else {
				assert.Empty(t, f.store.bookings)
			}
		})
	}
}

func TestPostTravelBooking_invalid_body(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/travelagent", `{"customer_id": 7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.journal.Calls())
}

func TestGetTravelBooking(t *testing.T) {
	f := newFixture()
	booking := f.store.put(entity.TravelBooking{CustomerID: 7, TaxiBookingID: 1, HotelBookingID: 2, FlightBookingID: 3})

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/travelagent/%d", booking.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/travelagent/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/travelagent/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/travelagent", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var all []entity.TravelBooking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestDeleteTravelBooking(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		f := newFixture()
		booking := f.store.put(entity.TravelBooking{TaxiBookingID: 1, HotelBookingID: 2, FlightBookingID: 3})

		rec := f.do(t, http.MethodDelete, "/travelagent", fmt.Sprintf(`{"id": %d}`, booking.ID))

		assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		assert.Equal(t, []string{"flight.delete(3)", "hotel.delete(2)", "taxi.delete(1)"}, f.journal.Calls())
		assert.Empty(t, f.store.bookings)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodDelete, "/travelagent", `{"id": 999}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("leg deletion failed", func(t *testing.T) {
		f := newFixture()
		f.hotel.DeleteErr = entity.ErrProtocol
		booking := f.store.put(entity.TravelBooking{TaxiBookingID: 1, HotelBookingID: 2, FlightBookingID: 3})

		rec := f.do(t, http.MethodDelete, "/travelagent", fmt.Sprintf(`{"id": %d}`, booking.ID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"flight.delete(3)", "hotel.delete(2)", "taxi.delete(1)"}, f.journal.Calls())
		assert.Empty(t, f.store.bookings)
	})

	t.Run("missing id", func(t *testing.T) {
		f := newFixture()

		rec := f.do(t, http.MethodDelete, "/travelagent", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

type travelBookingsMock struct {
	lock     sync.Mutex
	lastID   int64
	bookings map[int64]entity.TravelBooking
	addErr   error
}

func (m *travelBookingsMock) put(booking entity.TravelBooking) entity.TravelBooking {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.bookings == nil {
		m.bookings = make(map[int64]entity.TravelBooking)
	}
	m.lastID++
	booking.ID = m.lastID
	booking.CreatedAt = time.Now()
	m.bookings[booking.ID] = booking

	return booking
}

func (m *travelBookingsMock) Add(ctx context.Context, booking entity.TravelBooking) (entity.TravelBooking, error) {
	if m.addErr != nil {
		return entity.TravelBooking{}, m.addErr
	}
	return m.put(booking), nil
}

func (m *travelBookingsMock) Get(ctx context.Context, id int64) (entity.TravelBooking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return entity.TravelBooking{}, fmt.Errorf("travel booking %d: %w", id, entity.ErrNotFound)
	}
	return b, nil
}

func (m *travelBookingsMock) FindAll(ctx context.Context) ([]entity.TravelBooking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	all := []entity.TravelBooking{}
	for _, b := range m.bookings {
		all = append(all, b)
	}
	return all, nil
}

func (m *travelBookingsMock) Delete(ctx context.Context, id int64) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, ok := m.bookings[id]; !ok {
		return entity.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

type noopEventBus struct{}

func (noopEventBus) Publish(ctx context.Context, event any) error {
	return nil
}
