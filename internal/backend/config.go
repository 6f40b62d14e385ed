package backend

import (
	"errors"
	"fmt"

	"tracker/internal/config"
)

// Config selects and locates a store, plus the optional event broker.
type Config struct {
	Type BackendType

	ExpensesFile string // csv
	SQLiteDBPath string // sqlite

	// Change events are published only when AMQPURL is set.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// FromAppConfig maps the application configuration onto a backend Config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}
	bt, err := ParseBackendType(appConfig.DataBackend)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Type:           bt,
		ExpensesFile:   appConfig.ExpensesFile,
		SQLiteDBPath:   appConfig.SQLiteDBPath,
		AMQPURL:        appConfig.AMQPURL,
		AMQPExchange:   appConfig.AMQPExchange,
		AMQPRoutingKey: appConfig.AMQPRoutingKey,
	}, nil
}

// EventsEnabled reports whether a broker should be dialed.
func (c Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

// Validate checks that the selected store has the location it needs.
func (c Config) Validate() error {
	switch c.Type {
	case CSVBackend:
		if c.ExpensesFile == "" {
			return errors.New("csv backend needs an expenses file path")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("sqlite backend needs a database path")
		}
	case MemoryBackend:
	default:
		_, err := ParseBackendType(c.Type.String())
		return err
	}
	return nil
}

func (c Config) location() string {
	switch c.Type {
	case CSVBackend:
		return c.ExpensesFile
	case SQLiteBackend:
		return c.SQLiteDBPath
	default:
		return fmt.Sprintf("(%s)", c.Type)
	}
}
