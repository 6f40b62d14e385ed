package backend

import (
	"context"
	"fmt"

	"tracker/internal/amqp"
	applog "tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/store"
	"tracker/internal/store/csvfile"
	"tracker/internal/store/memory"
	"tracker/internal/store/sqlite"
)

// Dialer connects to the event broker. Replaced in tests.
type Dialer func(url, exchange, routingKey string) (services.EventPublisher, func() error, error)

var _ Factory = (*DefaultFactory)(nil)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
	dial   Dialer
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
		dial:   dialAMQP,
	}
}

// WithDialer overrides how the event broker is reached.
func (f *DefaultFactory) WithDialer(d Dialer) *DefaultFactory {
	f.dial = d
	return f
}

func dialAMQP(url, exchange, routingKey string) (services.EventPublisher, func() error, error) {
	client, err := amqp.NewClient(url, exchange, routingKey)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	st, closeStore, err := f.createStore(config)
	if err != nil {
		return nil, err
	}

	opts := []services.Option{
		services.WithLogger(f.logger),
		services.WithCloser(closeStore),
	}

	// AMQP is optional: a broker that is down must not block local use.
	if config.EventsEnabled() {
		publisher, closePublisher, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPRoutingKey)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			opts = append(opts, services.WithPublisher(publisher), services.WithCloser(closePublisher))
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"routing_key", config.AMQPRoutingKey)
		}
	}

	svc := services.NewExpenseService(st, opts...)
	if err := svc.Initialize(ctx); err != nil {
		svc.Close()
		return nil, err
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		applog.FieldBackend, config.Type.String(),
		applog.FieldPath, config.location())

	return &BackendResult{
		Service: svc,
		Cleanup: svc.Close,
	}, nil
}

func (f *DefaultFactory) createStore(config Config) (store.ExpenseStore, func() error, error) {
	switch config.Type {
	case CSVBackend:
		f.logger.Debug("Using CSV backend", applog.FieldPath, config.ExpensesFile)
		return csvfile.New(config.ExpensesFile), nil, nil
	case SQLiteBackend:
		st, err := sqlite.Open(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Debug("Using SQLite backend", applog.FieldPath, config.SQLiteDBPath)
		return st, st.Close, nil
	case MemoryBackend:
		return memory.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
