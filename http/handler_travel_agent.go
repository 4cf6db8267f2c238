package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"travelagent/entity"
	"travelagent/travel"
)

func (s Server) PostTravelBooking(c echo.Context) error {
	var request entity.TravelBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	booking, err := s.travelAgent.Book(c.Request().Context(), request)
	if err != nil {
		return echo.NewHTTPError(travelBookingErrorStatus(err), err.Error())
	}

	return c.JSON(http.StatusCreated, booking)
}

func (s Server) GetTravelBookings(c echo.Context) error {
	bookings, err := s.travelBookingsRepo.FindAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed to get travel bookings: %w", err)
	}

	return c.JSON(http.StatusOK, bookings)
}

func (s Server) GetTravelBooking(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	booking, err := s.travelBookingsRepo.Get(c.Request().Context(), id)
	if errors.Is(err, entity.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to get travel booking: %w", err)
	}

	return c.JSON(http.StatusOK, booking)
}

// DeleteTravelBooking takes the travel booking to cancel in the body.
func (s Server) DeleteTravelBooking(c echo.Context) error {
	var booking entity.TravelBooking
	if err := c.Bind(&booking); err != nil {
		return err
	}
	if booking.ID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "travel booking id is required")
	}

	err := s.travelAgent.Cancel(c.Request().Context(), booking.ID)
	if err != nil {
		return echo.NewHTTPError(cancellationErrorStatus(err), err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// travelBookingErrorStatus checks the rollback outcome before the leg error:
// a failed compensation is a server error whatever the leg error was.
func travelBookingErrorStatus(err error) int {
	var compensationFailure *travel.CompensationFailure
	var persistenceFailure *travel.PersistenceFailure

	switch {
	case errors.As(err, &compensationFailure), errors.As(err, &persistenceFailure):
		return http.StatusInternalServerError
	case errors.Is(err, entity.ErrInvalidRequest), errors.Is(err, entity.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrRemoteUnavailable), errors.Is(err, entity.ErrProtocol):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func cancellationErrorStatus(err error) int {
	var cancellationFailure *travel.CancellationFailure

	switch {
	case errors.Is(err, entity.ErrNotFound) && !errors.As(err, &cancellationFailure):
		return http.StatusNotFound
	case errors.As(err, &cancellationFailure) && cancellationFailure.StoreErr == nil:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid id %q", c.Param("id")))
	}

	return id, nil
}
