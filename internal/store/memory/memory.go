package memory

import (
	"context"
	"fmt"
	"sync"

	"tracker/internal/core"
)

// Store keeps expenses in process memory. It follows the same id and
// renumbering rules as the file-backed stores and is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

func New() *Store {
	return &Store{items: make([]core.Expense, 0)}
}

// NewWith returns a store preloaded with the given expenses, renumbered
// in slice order.
func NewWith(expenses []core.Expense) *Store {
	items := append([]core.Expense(nil), expenses...)
	core.Renumber(items)
	return &Store{items: items}
}

// Initialize is a no-op; memory needs no preparation.
func (s *Store) Initialize(_ context.Context) error {
	return nil
}

// Add stores the expense with the next sequential id.
func (s *Store) Add(_ context.Context, ne core.NewExpense) (core.Expense, error) {
	if err := ne.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := ne.Build(int64(len(s.items) + 1))
	s.items = append(s.items, e)
	return e, nil
}

// List returns a copy of all expenses.
func (s *Store) List(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]core.Expense, 0, len(s.items)), s.items...), nil
}

func (s *Store) Update(_ context.Context, id int64, u core.ExpenseUpdate) (core.Expense, error) {
	if err := u.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := core.IndexOf(s.items, id)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, core.ErrNotFound)
	}
	s.items[i] = core.ApplyUpdate(s.items[i], u)
	return s.items[i], nil
}

func (s *Store) Delete(_ context.Context, id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := core.IndexOf(s.items, id)
	if i < 0 {
		return 0, fmt.Errorf("delete expense %d: %w", id, core.ErrNotFound)
	}
	renumbered := len(s.items) - 1 - i
	s.items = core.RemoveAt(s.items, i)
	return renumbered, nil
}

func (s *Store) FindByCategory(_ context.Context, category string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.FilterByCategory(s.items, category), nil
}

func (s *Store) Summarize(_ context.Context) (core.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.items), nil
}
