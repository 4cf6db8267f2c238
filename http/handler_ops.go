package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"travelagent/entity"
)

func (s Server) GetOpsIncidents(c echo.Context) error {
	kind := entity.IncidentKind(c.QueryParam("kind"))

	switch kind {
	case "", entity.IncidentCompensationFailed, entity.IncidentOrphanedLegs:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown incident kind %q", kind))
	}

	incidents, err := s.incidents.FindAll(c.Request().Context(), kind)
	if err != nil {
		return fmt.Errorf("failed to get incidents: %w", err)
	}

	return c.JSON(http.StatusOK, incidents)
}
