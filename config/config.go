package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"travelagent/gateway"
)

type RemoteService struct {
	BaseURL         string        `long:"base-url" env:"BASE_URL" description:"base url of the booking API" required:"true"`
	Timeout         time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"timeout of a single call"`
	AgentCustomerID int64         `long:"agent-customer-id" env:"AGENT_CUSTOMER_ID" description:"agency account used instead of the customer id"`
}

func (r RemoteService) Gateway(name string) gateway.RemoteBookingConfig {
	return gateway.RemoteBookingConfig{
		Name:            name,
		BaseURL:         r.BaseURL,
		Timeout:         r.Timeout,
		AgentCustomerID: r.AgentCustomerID,
	}
}

type Config struct {
	HTTPAddr       string `long:"http-addr" env:"HTTP_ADDR" default:":8080" description:"address the HTTP server listens on"`
	PostgresURL    string `long:"postgres-url" env:"POSTGRES_URL" required:"true"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" required:"true"`
	LogLevel       string `long:"log-level" env:"LOG_LEVEL" default:"info"`
	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT"`
	GatewayAddr    string `long:"gateway-addr" env:"GATEWAY_ADDR"`

	Hotel  RemoteService `group:"hotel" namespace:"hotel" env-namespace:"HOTEL"`
	Flight RemoteService `group:"flight" namespace:"flight" env-namespace:"FLIGHT"`
}

func Parse(args []string) (Config, error) {
	var cfg Config

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return Config{}, err
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}

	return cfg, nil
}

// IsHelp reports whether Parse stopped because help was requested.
func IsHelp(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp
}

// Printed reports whether err was already written out by the flags parser.
func Printed(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr)
}

func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
