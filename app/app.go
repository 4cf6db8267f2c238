package app

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	dbLib "travelagent/db"
	"travelagent/db/customers"
	"travelagent/db/data_lake"
	"travelagent/db/incidents"
	"travelagent/db/taxi_bookings"
	"travelagent/db/taxis"
	"travelagent/db/travel_bookings"
	"travelagent/http"
	"travelagent/pubsub"
	"travelagent/pubsub/bus"
	"travelagent/pubsub/event"
	"travelagent/pubsub/outbox"
	"travelagent/taxi"
	"travelagent/travel"
)

type App struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	httpServer      *http.Server
	traceProvider   *tracesdk.TracerProvider
}

// New wires the travel agent. hotel and flight are the remote legs; the taxi
// leg is booked against the local database.
func New(
	addr string,
	db *sqlx.DB,
	redisClient *redis.Client,
	hotel travel.LegService,
	flight travel.LegService,
	traceProvider *tracesdk.TracerProvider,
) App {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))
	redisPublisher := pubsub.NewRedisPublisher(redisClient, watermillLogger)

	eventBus, err := bus.NewEventBus(redisPublisher)
	if err != nil {
		panic(fmt.Errorf("failed to create event bus: %w", err))
	}

	customersRepo := customers.NewPostgresRepository(db)
	taxisRepo := taxis.NewPostgresRepository(db)
	taxiBookingsRepo := taxi_bookings.NewPostgresRepository(db)
	travelBookingsRepo := travel_bookings.NewPostgresRepository(db)
	incidentsReadModel := incidents.NewPostgresReadModel(db)
	dataLake := data_lake.NewDataLake(db)

	taxiService := taxi.NewService(customersRepo, taxisRepo, taxiBookingsRepo, travelBookingsRepo)
	orchestrator := travel.NewOrchestrator(
		travel.Legs(taxiService, hotel, flight),
		travelBookingsRepo,
		eventBus,
	)

	watermillRouter, err := pubsub.NewWatermillRouter(
		outbox.NewPostgresSubscriber(db.DB, watermillLogger),
		redisPublisher,
		pubsub.NewRedisSubscriber(redisClient, "svc-travelagent.events_splitter", watermillLogger),
		pubsub.NewRedisSubscriber(redisClient, "svc-travelagent.store_to_data_lake", watermillLogger),
		event.NewProcessorConfig(redisClient, watermillLogger),
		event.NewIncidentHandlers(incidentsReadModel),
		dataLake,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	httpServer := http.NewServer(
		addr,
		orchestrator,
		travelBookingsRepo,
		taxiService,
		customersRepo,
		taxisRepo,
		incidentsReadModel,
	)

	return App{
		db:              db,
		watermillRouter: watermillRouter,
		httpServer:      httpServer,
		traceProvider:   traceProvider,
	}
}

func (a App) Run(ctx context.Context) error {
	if err := dbLib.InitializeDatabaseSchema(a.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	watermillLogger := log.NewWatermill(log.FromContext(ctx))
	if err := outbox.InitializeSchema(a.db.DB, watermillLogger); err != nil {
		return fmt.Errorf("failed to initialize outbox schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		if a.traceProvider == nil {
			return nil
		}
		return a.traceProvider.Shutdown(context.Background())
	})

	g.Go(func() error {
		return a.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		// the HTTP server starts after the router, so the app is not healthy before
		// events can be handled
		<-a.watermillRouter.Running()

		return a.httpServer.Run(ctx)
	})

	return g.Wait()
}
