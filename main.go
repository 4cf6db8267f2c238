package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"travelagent/app"
	"travelagent/config"
	"travelagent/gateway"
	"travelagent/tracing"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	switch {
	case config.IsHelp(err):
		os.Exit(0)
	case config.Printed(err):
		os.Exit(2)
	case err != nil:
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	log.Init(cfg.Level())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider, err := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint, cfg.GatewayAddr)
	if err != nil {
		panic(err)
	}

	sqlDB, err := otelsql.Open("postgres", cfg.PostgresURL, otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		panic(err)
	}
	db := sqlx.NewDb(sqlDB, "postgres")
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisClient.Close()

	httpClient := gateway.NewHTTPClient()

	hotelClient, err := gateway.NewRemoteBookingClient(httpClient, cfg.Hotel.Gateway("hotel"))
	if err != nil {
		panic(err)
	}
	flightClient, err := gateway.NewRemoteBookingClient(httpClient, cfg.Flight.Gateway("flight"))
	if err != nil {
		panic(err)
	}

	err = app.New(
		cfg.HTTPAddr,
		db,
		redisClient,
		hotelClient,
		flightClient,
		traceProvider,
	).Run(ctx)
	if err != nil {
		panic(err)
	}
}
