package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/lithammer/shortuuid/v3"

	"travelagent/entity"
)

const defaultRemoteTimeout = 10 * time.Second

type RemoteBookingConfig struct {
	// Name is used in errors and logs, e.g. "hotel".
	Name    string
	BaseURL string
	Timeout time.Duration
	// AgentCustomerID, when set, is sent instead of the customer id: the
	// travel agency books on its own account at the remote service.
	AgentCustomerID int64
}

type RemoteBooking struct {
	ID         int64     `json:"id,omitempty"`
	CustomerID int64     `json:"customer_id"`
	ResourceID int64     `json:"resource_id"`
	Date       time.Time `json:"date"`
}

// RemoteBookingClient books a single resource (hotel room, flight seat) at a
// remote booking service. Each call issues exactly one request.
type RemoteBookingClient struct {
	name            string
	baseURL         string
	timeout         time.Duration
	agentCustomerID int64
	httpClient      *http.Client
}

func NewRemoteBookingClient(httpClient *http.Client, config RemoteBookingConfig) (RemoteBookingClient, error) {
	if httpClient == nil {
		panic("httpClient is nil")
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return RemoteBookingClient{}, fmt.Errorf("invalid %s base url %q: %w", config.Name, config.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return RemoteBookingClient{}, fmt.Errorf("invalid %s base url %q: scheme must be http or https", config.Name, config.BaseURL)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}

	return RemoteBookingClient{
		name:            config.Name,
		baseURL:         strings.TrimSuffix(config.BaseURL, "/"),
		timeout:         timeout,
		agentCustomerID: config.AgentCustomerID,
		httpClient:      httpClient,
	}, nil
}

func (c RemoteBookingClient) Create(ctx context.Context, customerID, resourceID int64, date time.Time) (int64, error) {
	if c.agentCustomerID != 0 {
		customerID = c.agentCustomerID
	}

	body, err := json.Marshal(RemoteBooking{
		CustomerID: customerID,
		ResourceID: resourceID,
		Date:       date,
	})
	if err != nil {
		return 0, fmt.Errorf("could not marshal %s booking: %w", c.name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bookings", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("could not create %s booking request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusCreated:
	case http.StatusBadRequest:
		return 0, fmt.Errorf("%w: %s service rejected booking: %s", entity.ErrInvalidRequest, c.name, readReason(resp))
	case http.StatusConflict:
		return 0, fmt.Errorf("%w: %s service already has this booking: %s", entity.ErrConflict, c.name, readReason(resp))
	default:
		return 0, fmt.Errorf("%w: unexpected status code while %s booking: %d", entity.ErrProtocol, c.name, resp.StatusCode)
	}

	var booking RemoteBooking
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		return 0, fmt.Errorf("%w: could not decode %s booking: %s", entity.ErrProtocol, c.name, err)
	}
	if booking.ID <= 0 {
		return 0, fmt.Errorf("%w: %s booking response has no id", entity.ErrProtocol, c.name)
	}

	return booking.ID, nil
}

func (c RemoteBookingClient) Delete(ctx context.Context, bookingID int64) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		c.baseURL+"/bookings/"+strconv.FormatInt(bookingID, 10),
		nil,
	)
	if err != nil {
		return fmt.Errorf("could not create %s booking cancellation request: %w", c.name, err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s service rejected cancellation of booking %d: %s", entity.ErrInvalidRequest, c.name, bookingID, readReason(resp))
	case http.StatusConflict:
		return fmt.Errorf("%w: %s service could not cancel booking %d: %s", entity.ErrConflict, c.name, bookingID, readReason(resp))
	default:
		return fmt.Errorf("%w: unexpected status code while cancelling %s booking %d: %d", entity.ErrProtocol, c.name, bookingID, resp.StatusCode)
	}
}

func (c RemoteBookingClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	correlationID := log.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = shortuuid.New()
	}
	req.Header.Set("Correlation-ID", correlationID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s %s: %s", entity.ErrRemoteUnavailable, c.name, req.Method, req.URL.Path, err)
	}

	return resp, nil
}

func readReason(resp *http.Response) string {
	reason, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil || len(bytes.TrimSpace(reason)) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	return string(bytes.TrimSpace(reason))
}

// closeBody drains the body so the connection can be reused.
func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
