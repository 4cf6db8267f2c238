package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"travelagent/entity"
)

func (s Server) PostTaxiBooking(c echo.Context) error {
	var booking entity.TaxiBooking
	if err := c.Bind(&booking); err != nil {
		return err
	}

	booking, err := s.taxiBookings.Book(c.Request().Context(), booking)
	switch {
	case errors.Is(err, entity.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return fmt.Errorf("failed to book taxi: %w", err)
	}

	return c.JSON(http.StatusCreated, booking)
}

func (s Server) GetTaxiBookings(c echo.Context) error {
	bookings, err := s.taxiBookings.FindAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed to get taxi bookings: %w", err)
	}

	return c.JSON(http.StatusOK, bookings)
}

func (s Server) GetTaxiBooking(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	booking, err := s.taxiBookings.Get(c.Request().Context(), id)
	if errors.Is(err, entity.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to get taxi booking: %w", err)
	}

	return c.JSON(http.StatusOK, booking)
}

func (s Server) DeleteTaxiBooking(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	err = s.taxiBookings.Cancel(c.Request().Context(), id)
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return fmt.Errorf("failed to delete taxi booking: %w", err)
	}

	return c.NoContent(http.StatusNoContent)
}
