package store

import (
	"context"

	"tracker/internal/core"
)

// Ports for datastore adapters.
type (
	ExpenseWriter interface {
		// Initialize prepares the backing storage. Safe to call on every startup.
		Initialize(ctx context.Context) error
		// Add stores a new expense with the next sequential id.
		Add(ctx context.Context, e core.NewExpense) (core.Expense, error)
		// Update replaces the supplied fields. Returns core.ErrNotFound for
		// unknown ids.
		Update(ctx context.Context, id int64, u core.ExpenseUpdate) (core.Expense, error)
		// Delete removes the expense and renumbers the ones after it,
		// returning how many were renumbered. Returns core.ErrNotFound for
		// unknown ids.
		Delete(ctx context.Context, id int64) (int, error)
	}

	ExpenseReader interface {
		// List returns every expense in storage order.
		List(ctx context.Context) ([]core.Expense, error)
		// FindByCategory returns expenses whose category matches, ignoring case.
		FindByCategory(ctx context.Context, category string) ([]core.Expense, error)
	}

	// SummaryReader aggregates stored expenses.
	SummaryReader interface {
		Summarize(ctx context.Context) (core.Summary, error)
	}

	// ExpenseStore is the full record store.
	ExpenseStore interface {
		ExpenseWriter
		ExpenseReader
		SummaryReader
	}
)
