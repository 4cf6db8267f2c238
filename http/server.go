package http

import (
	"context"
	"errors"
	"net/http"

	echoHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"travelagent/entity"
)

type TravelAgent interface {
	Book(ctx context.Context, req entity.TravelBookingRequest) (entity.TravelBooking, error)
	Cancel(ctx context.Context, id int64) error
}

type TravelBookingsRepository interface {
	Get(ctx context.Context, id int64) (entity.TravelBooking, error)
	FindAll(ctx context.Context) ([]entity.TravelBooking, error)
}

type TaxiBookingService interface {
	Book(ctx context.Context, booking entity.TaxiBooking) (entity.TaxiBooking, error)
	Get(ctx context.Context, id int64) (entity.TaxiBooking, error)
	FindAll(ctx context.Context) ([]entity.TaxiBooking, error)
	Cancel(ctx context.Context, id int64) error
}

type CustomersRepository interface {
	Add(ctx context.Context, customer entity.Customer) (entity.Customer, error)
	Get(ctx context.Context, id int64) (entity.Customer, error)
	FindAll(ctx context.Context) ([]entity.Customer, error)
}

type TaxisRepository interface {
	Add(ctx context.Context, taxi entity.Taxi) (entity.Taxi, error)
	Get(ctx context.Context, id int64) (entity.Taxi, error)
	FindAll(ctx context.Context) ([]entity.Taxi, error)
}

type IncidentsReadModel interface {
	FindAll(ctx context.Context, kind entity.IncidentKind) ([]entity.Incident, error)
}

type Server struct {
	addr               string
	e                  *echo.Echo
	travelAgent        TravelAgent
	travelBookingsRepo TravelBookingsRepository
	taxiBookings       TaxiBookingService
	customersRepo      CustomersRepository
	taxisRepo          TaxisRepository
	incidents          IncidentsReadModel
}

func NewServer(
	addr string,
	travelAgent TravelAgent,
	travelBookingsRepo TravelBookingsRepository,
	taxiBookings TaxiBookingService,
	customersRepo CustomersRepository,
	taxisRepo TaxisRepository,
	incidents IncidentsReadModel,
) *Server {
	e := echoHTTP.NewEcho()
	e.Use(otelecho.Middleware("travelagent"))

	server := &Server{
		addr:               addr,
		e:                  e,
		travelAgent:        travelAgent,
		travelBookingsRepo: travelBookingsRepo,
		taxiBookings:       taxiBookings,
		customersRepo:      customersRepo,
		taxisRepo:          taxisRepo,
		incidents:          incidents,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/travelagent", server.PostTravelBooking)
	e.GET("/travelagent", server.GetTravelBookings)
	e.GET("/travelagent/:id", server.GetTravelBooking)
	e.DELETE("/travelagent", server.DeleteTravelBooking)

	e.POST("/bookings", server.PostTaxiBooking)
	e.GET("/bookings", server.GetTaxiBookings)
	e.GET("/bookings/:id", server.GetTaxiBooking)
	e.DELETE("/bookings/:id", server.DeleteTaxiBooking)

	e.POST("/customers", server.PostCustomer)
	e.GET("/customers", server.GetCustomers)
	e.GET("/customers/:id", server.GetCustomer)

	e.POST("/taxis", server.PostTaxi)
	e.GET("/taxis", server.GetTaxis)
	e.GET("/taxis/:id", server.GetTaxi)

	e.GET("/ops/incidents", server.GetOpsIncidents)

	return server
}

func (s Server) Handler() http.Handler {
	return s.e
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(context.Background())
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
