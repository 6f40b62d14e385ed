// Package sqlite is an alternate expense store backed by a SQLite database.
// It keeps the same dense id contract as the CSV store: ids are 1..N and a
// delete renumbers every later row inside the same transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db     *sql.DB
	dbPath string
}

// Open connects to the database at dbPath, creating its directory. The
// schema is created by Initialize.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &core.StorageError{Op: "open", Path: dbPath, Err: fmt.Errorf("create db directory: %w", err)}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &core.StorageError{Op: "open", Path: dbPath, Err: err}
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &core.StorageError{Op: "open", Path: dbPath, Err: fmt.Errorf("ping database: %w", err)}
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Initialize runs the embedded migrations. Safe to call on every startup.
func (s *Store) Initialize(ctx context.Context) error {
	if err := RunMigrations(s.dbPath); err != nil {
		return s.storageErr("init", err)
	}
	slog.DebugContext(ctx, "SQLite schema ready", "path", s.dbPath)
	return nil
}

func (s *Store) Add(ctx context.Context, ne core.NewExpense) (core.Expense, error) {
	if err := ne.Validate(); err != nil {
		return core.Expense{}, err
	}

	var e core.Expense
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var count int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&count); err != nil {
			return fmt.Errorf("count expenses: %w", err)
		}
		e = ne.Build(count + 1)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, date, category, description, amount) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.Date.String(), e.Category, e.Description, e.Amount.String())
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Expense{}, s.storageErr("add", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"category", e.Category,
		"amount", e.Amount.String())
	return e, nil
}

func (s *Store) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, category, description, amount FROM expenses ORDER BY id`)
	if err != nil {
		return nil, s.storageErr("read", err)
	}
	defer rows.Close()

	expenses := make([]core.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, s.storageErr("parse", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageErr("read", err)
	}
	return expenses, nil
}

func (s *Store) Update(ctx context.Context, id int64, u core.ExpenseUpdate) (core.Expense, error) {
	if err := u.Validate(); err != nil {
		return core.Expense{}, err
	}

	var updated core.Expense
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT id, date, category, description, amount FROM expenses WHERE id = ?`, id)
		current, err := scanExpense(row)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get expense: %w", err)
		}

		updated = core.ApplyUpdate(current, u)
		_, err = tx.ExecContext(ctx,
			`UPDATE expenses SET category = ?, description = ?, amount = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			updated.Category, updated.Description, updated.Amount.String(), id)
		if err != nil {
			return fmt.Errorf("update expense: %w", err)
		}
		return nil
	})
	if errors.Is(err, core.ErrNotFound) {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, s.storageErr("update", err)
	}

	slog.DebugContext(ctx, "Expense updated in SQLite", "id", id)
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (int, error) {
	var renumbered int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return core.ErrNotFound
		}

		// Shifting ids in place would collide with the primary key, so move
		// the tail to negative ids first and flip them back.
		shifted, err := tx.ExecContext(ctx, `UPDATE expenses SET id = -(id - 1) WHERE id > ?`, id)
		if err != nil {
			return fmt.Errorf("renumber expenses: %w", err)
		}
		if renumbered, err = shifted.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE expenses SET id = -id WHERE id < 0`); err != nil {
			return fmt.Errorf("renumber expenses: %w", err)
		}
		return nil
	})
	if errors.Is(err, core.ErrNotFound) {
		return 0, fmt.Errorf("delete expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return 0, s.storageErr("delete", err)
	}

	slog.DebugContext(ctx, "Expense deleted from SQLite", "id", id, "renumbered", renumbered)
	return int(renumbered), nil
}

// FindByCategory filters in Go: SQLite NOCASE only folds ASCII.
func (s *Store) FindByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	expenses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return core.FilterByCategory(expenses, category), nil
}

// Summarize aggregates in Go since amounts are stored as exact decimal text.
func (s *Store) Summarize(ctx context.Context) (core.Summary, error) {
	expenses, err := s.List(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(expenses), nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (core.Expense, error) {
	var (
		e                  core.Expense
		dateStr, amountStr string
	)
	if err := row.Scan(&e.ID, &dateStr, &e.Category, &e.Description, &amountStr); err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", e.ID, err)
	}
	d, err := decimal.NewFromString(amountStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: bad amount %q", e.ID, amountStr)
	}
	e.Date = date
	e.Amount = core.NewMoney(d)
	return e, nil
}

func (s *Store) storageErr(op string, err error) error {
	return &core.StorageError{Op: op, Path: s.dbPath, Err: err}
}
