package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"travelagent/entity"
)

func (s Server) PostCustomer(c echo.Context) error {
	var customer entity.Customer
	if err := c.Bind(&customer); err != nil {
		return err
	}

	if customer.Name == "" || len(customer.Name) > 50 {
		return echo.NewHTTPError(http.StatusBadRequest, "name must be between 1 and 50 characters")
	}
	if _, err := mail.ParseAddress(customer.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email: "+err.Error())
	}
	if customer.PhoneNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phone_number is required")
	}

	customer, err := s.customersRepo.Add(c.Request().Context(), customer)
	if errors.Is(err, entity.ErrConflict) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to add customer: %w", err)
	}

	return c.JSON(http.StatusCreated, customer)
}

func (s Server) GetCustomers(c echo.Context) error {
	customers, err := s.customersRepo.FindAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed to get customers: %w", err)
	}

	return c.JSON(http.StatusOK, customers)
}

func (s Server) GetCustomer(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	customer, err := s.customersRepo.Get(c.Request().Context(), id)
	if errors.Is(err, entity.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to get customer: %w", err)
	}

	return c.JSON(http.StatusOK, customer)
}

func (s Server) PostTaxi(c echo.Context) error {
	var taxi entity.Taxi
	if err := c.Bind(&taxi); err != nil {
		return err
	}

	if len(taxi.Registration) != 7 {
		return echo.NewHTTPError(http.StatusBadRequest, "registration must be 7 characters")
	}
	if taxi.Seats < 2 || taxi.Seats > 20 {
		return echo.NewHTTPError(http.StatusBadRequest, "seats must be between 2 and 20")
	}

	taxi, err := s.taxisRepo.Add(c.Request().Context(), taxi)
	if errors.Is(err, entity.ErrConflict) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to add taxi: %w", err)
	}

	return c.JSON(http.StatusCreated, taxi)
}

func (s Server) GetTaxis(c echo.Context) error {
	taxis, err := s.taxisRepo.FindAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed to get taxis: %w", err)
	}

	return c.JSON(http.StatusOK, taxis)
}

func (s Server) GetTaxi(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	taxi, err := s.taxisRepo.Get(c.Request().Context(), id)
	if errors.Is(err, entity.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to get taxi: %w", err)
	}

	return c.JSON(http.StatusOK, taxi)
}
