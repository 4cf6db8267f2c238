package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"travelagent/entity"
	travelHTTP "travelagent/http"
)

func TestPostCustomer(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid",
			body:           `{"name": "Ann", "email": "ann@example.com", "phone_number": "+48123"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing name",
			body:           `{"email": "ann@example.com", "phone_number": "+48123"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email",
			body:           `{"name": "Ann", "email": "ann", "phone_number": "+48123"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "taken email",
			body:           `{"name": "Ann", "email": "taken@example.com", "phone_number": "+48123"}`,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := travelHTTP.NewServer(":0", nil, nil, nil, customersMock{}, nil, nil)

			rec := serve(server, http.MethodPost, "/customers", tc.body)
			assert.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestPostTaxi(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "valid",
			body:           `{"registration": "WX12345", "seats": 4}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "short registration",
			body:           `{"registration": "WX1", "seats": 4}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "too many seats",
			body:           `{"registration": "WX12345", "seats": 21}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := travelHTTP.NewServer(":0", nil, nil, nil, nil, taxisMock{}, nil)

			rec := serve(server, http.MethodPost, "/taxis", tc.body)
			assert.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestGetOpsIncidents(t *testing.T) {
	incidents := &incidentsMock{}
	server := travelHTTP.NewServer(":0", nil, nil, nil, nil, nil, incidents)

	rec := serve(server, http.MethodGet, "/ops/incidents?kind=orphaned_legs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.IncidentOrphanedLegs, incidents.lastKind)

	rec = serve(server, http.MethodGet, "/ops/incidents", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.IncidentKind(""), incidents.lastKind)

	rec = serve(server, http.MethodGet, "/ops/incidents?kind=unknown", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	server := travelHTTP.NewServer(":0", nil, nil, nil, nil, nil, nil)

	assert.Equal(t, http.StatusOK, serve(server, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(server, http.MethodGet, "/metrics", "").Code)
}

func serve(server *travelHTTP.Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	return rec
}

type customersMock struct{}

func (customersMock) Add(ctx context.Context, customer entity.Customer) (entity.Customer, error) {
	if customer.Email == "taken@example.com" {
		return entity.Customer{}, entity.ErrConflict
	}
	customer.ID = 1
	return customer, nil
}

func (customersMock) Get(ctx context.Context, id int64) (entity.Customer, error) {
	return entity.Customer{}, entity.ErrNotFound
}

func (customersMock) FindAll(ctx context.Context) ([]entity.Customer, error) {
	return []entity.Customer{}, nil
}

type taxisMock struct{}

func (taxisMock) Add(ctx context.Context, taxi entity.Taxi) (entity.Taxi, error) {
	taxi.ID = 1
	return taxi, nil
}

func (taxisMock) Get(ctx context.Context, id int64) (entity.Taxi, error) {
	return entity.Taxi{}, entity.ErrNotFound
}

func (taxisMock) FindAll(ctx context.Context) ([]entity.Taxi, error) {
	return []entity.Taxi{}, nil
}

type incidentsMock struct {
	lastKind entity.IncidentKind
}

func (m *incidentsMock) FindAll(ctx context.Context, kind entity.IncidentKind) ([]entity.Incident, error) {
	m.lastKind = kind
	return []entity.Incident{}, nil
}
