package services

import (
	"context"
	"errors"
	"fmt"

	"tracker/internal/amqp"
	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/store"
)

// EventPublisher receives change events after successful mutations.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, ev *amqp.ExpenseEvent) error
}

// ExpenseService orchestrates expense operations across a store and an
// optional event publisher. It satisfies store.ExpenseStore itself, so
// callers never need to know whether events are enabled.
type ExpenseService struct {
	store     store.ExpenseStore
	publisher EventPublisher
	logger    *applog.Logger
	closers   []func() error
}

var _ store.ExpenseStore = (*ExpenseService)(nil)

// Option configures an ExpenseService.
type Option func(*ExpenseService)

// WithPublisher enables change events.
func WithPublisher(p EventPublisher) Option {
	return func(s *ExpenseService) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l *applog.Logger) Option {
	return func(s *ExpenseService) { s.logger = l.WithComponent(applog.ComponentExpense) }
}

// WithCloser registers a cleanup function run by Close.
func WithCloser(fn func() error) Option {
	return func(s *ExpenseService) {
		if fn != nil {
			s.closers = append(s.closers, fn)
		}
	}
}

func NewExpenseService(st store.ExpenseStore, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		store:  st,
		logger: applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentExpense),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ExpenseService) Initialize(ctx context.Context) error {
	if err := s.store.Initialize(ctx); err != nil {
		s.logError(ctx, applog.OpInit, err)
		return fmt.Errorf("initialize store: %w", err)
	}
	return nil
}

// Add saves an expense and publishes a created event.
func (s *ExpenseService) Add(ctx context.Context, ne core.NewExpense) (core.Expense, error) {
	e, err := s.store.Add(ctx, ne)
	if err != nil {
		s.logError(ctx, applog.OpCreate, err)
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "Expense added",
		applog.NewFields().WithOperation(applog.OpCreate).WithExpense(e.ID, e.Category, e.Amount.String()).ToSlice()...)
	s.publish(ctx, amqp.NewExpenseEvent(amqp.ExpenseCreated, e.ID, &e))
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.List(ctx)
	if err != nil {
		s.logError(ctx, applog.OpList, err)
		return nil, err
	}
	return expenses, nil
}

// Update replaces the supplied fields and publishes an updated event.
func (s *ExpenseService) Update(ctx context.Context, id int64, u core.ExpenseUpdate) (core.Expense, error) {
	e, err := s.store.Update(ctx, id, u)
	if err != nil {
		s.logError(ctx, applog.OpUpdate, err, applog.FieldExpenseID, id)
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "Expense updated",
		applog.NewFields().WithOperation(applog.OpUpdate).WithExpense(e.ID, e.Category, e.Amount.String()).ToSlice()...)
	s.publish(ctx, amqp.NewExpenseEvent(amqp.ExpenseUpdated, e.ID, &e))
	return e, nil
}

// Delete removes an expense and publishes a deleted event carrying how many
// later expenses were renumbered.
func (s *ExpenseService) Delete(ctx context.Context, id int64) (int, error) {
	renumbered, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logError(ctx, applog.OpDelete, err, applog.FieldExpenseID, id)
		return 0, err
	}

	s.logger.InfoContext(ctx, "Expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id,
		applog.FieldCount, renumbered)

	ev := amqp.NewExpenseEvent(amqp.ExpenseDeleted, id, nil)
	ev.Renumbered = renumbered
	s.publish(ctx, ev)
	return renumbered, nil
}

func (s *ExpenseService) FindByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	expenses, err := s.store.FindByCategory(ctx, category)
	if err != nil {
		s.logError(ctx, applog.OpFind, err, applog.FieldCategory, category)
		return nil, err
	}
	return expenses, nil
}

func (s *ExpenseService) Summarize(ctx context.Context) (core.Summary, error) {
	summary, err := s.store.Summarize(ctx)
	if err != nil {
		s.logError(ctx, applog.OpSummarize, err)
		return core.Summary{}, err
	}
	return summary, nil
}

func (s *ExpenseService) publish(ctx context.Context, ev *amqp.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	// The store is the source of truth; a lost event never fails the call.
	if err := s.publisher.PublishExpenseEvent(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish expense event",
			applog.FieldEventID, ev.EventID,
			applog.FieldEventType, ev.Type,
			applog.FieldError, err)
	}
}

func (s *ExpenseService) logError(ctx context.Context, op string, err error, args ...any) {
	fields := applog.NewFields().WithOperation(op).WithError(err).WithErrorType(errorType(err))
	args = append(fields.ToSlice(), args...)
	switch {
	case errors.Is(err, core.ErrNotFound), core.IsValidation(err):
		s.logger.DebugContext(ctx, "Expense operation rejected", args...)
	default:
		s.logger.ErrorContext(ctx, "Expense operation failed", args...)
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return applog.ErrorTypeNotFound
	case core.IsValidation(err):
		return applog.ErrorTypeValidation
	case core.IsStorage(err):
		return applog.ErrorTypeStorage
	default:
		return applog.ErrorTypeInternal
	}
}

// Close runs the registered cleanup functions in reverse order.
func (s *ExpenseService) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}
	return nil
}
