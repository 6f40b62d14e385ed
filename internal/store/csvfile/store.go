// Package csvfile stores expenses in a single comma-separated file.
//
// The file is the only source of truth: every call reads it again and
// nothing is cached between calls. Additions are appended; updates and
// deletions rewrite the whole file through a temporary file that replaces
// the existing file with a rename, so a failed rewrite never truncates data.
package csvfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"tracker/internal/core"
)

const filePerm = 0o644

// Store is a flat-file expense store rooted at one path.
type Store struct {
	path string

	// rename swaps the rewritten file into place; replaced in tests.
	rename func(oldpath, newpath string) error
}

// New returns a store backed by the file at path. Nothing touches the disk
// until Initialize or the first operation.
func New(path string) *Store {
	return &Store{path: path, rename: os.Rename}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates the file containing only the header row when it does
// not exist yet. Existing files are left alone.
func (s *Store) Initialize(ctx context.Context) error {
	info, err := os.Stat(s.path)
	if err == nil {
		if info.IsDir() {
			return s.storageErr("init", errors.New("path is a directory"))
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return s.storageErr("init", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return s.storageErr("init", fmt.Errorf("create directory: %w", err))
		}
	}

	var buf bytes.Buffer
	if err := encode(&buf, nil); err != nil {
		return s.storageErr("init", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return s.storageErr("init", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return s.storageErr("init", err)
	}
	if err := f.Close(); err != nil {
		return s.storageErr("init", err)
	}

	slog.DebugContext(ctx, "Created expenses file", "path", s.path)
	return nil
}

// Add appends a new expense numbered after the current last one.
func (s *Store) Add(ctx context.Context, ne core.NewExpense) (core.Expense, error) {
	if err := ne.Validate(); err != nil {
		return core.Expense{}, err
	}
	expenses, err := s.readAll()
	if err != nil {
		return core.Expense{}, err
	}
	e := ne.Build(int64(len(expenses) + 1))

	if err := s.appendRow(e); err != nil {
		return core.Expense{}, err
	}

	slog.DebugContext(ctx, "Expense appended to file",
		"id", e.ID,
		"category", e.Category,
		"amount", e.Amount.String(),
		"path", s.path)
	return e, nil
}

// List returns all expenses in file order.
func (s *Store) List(_ context.Context) ([]core.Expense, error) {
	return s.readAll()
}

// Update replaces only the supplied fields of the expense with id.
func (s *Store) Update(ctx context.Context, id int64, u core.ExpenseUpdate) (core.Expense, error) {
	if err := u.Validate(); err != nil {
		return core.Expense{}, err
	}
	expenses, err := s.readAll()
	if err != nil {
		return core.Expense{}, err
	}
	i := core.IndexOf(expenses, id)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, core.ErrNotFound)
	}
	expenses[i] = core.ApplyUpdate(expenses[i], u)

	if err := s.rewrite(expenses); err != nil {
		return core.Expense{}, err
	}

	slog.DebugContext(ctx, "Expense updated in file", "id", id, "path", s.path)
	return expenses[i], nil
}

// Delete removes the expense with id and renumbers the remaining ones so
// ids stay 1..N. It returns how many expenses got a new id.
func (s *Store) Delete(ctx context.Context, id int64) (int, error) {
	expenses, err := s.readAll()
	if err != nil {
		return 0, err
	}
	i := core.IndexOf(expenses, id)
	if i < 0 {
		return 0, fmt.Errorf("delete expense %d: %w", id, core.ErrNotFound)
	}
	renumbered := len(expenses) - 1 - i

	if err := s.rewrite(core.RemoveAt(expenses, i)); err != nil {
		return 0, err
	}

	slog.DebugContext(ctx, "Expense deleted from file",
		"id", id,
		"renumbered", renumbered,
		"path", s.path)
	return renumbered, nil
}

// FindByCategory returns the expenses whose category matches, ignoring case.
func (s *Store) FindByCategory(_ context.Context, category string) ([]core.Expense, error) {
	expenses, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return core.FilterByCategory(expenses, category), nil
}

// Summarize totals all expenses overall and per category.
func (s *Store) Summarize(_ context.Context) (core.Summary, error) {
	expenses, err := s.readAll()
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(expenses), nil
}

func (s *Store) readAll() ([]core.Expense, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, s.storageErr("read", err)
	}
	defer f.Close()

	expenses, err := decode(f)
	if err != nil {
		return nil, s.storageErr("parse", err)
	}
	return expenses, nil
}

func (s *Store) appendRow(e core.Expense) (err error) {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return s.storageErr("append", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = s.storageErr("append", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return s.storageErr("append", err)
	}

	var buf bytes.Buffer
	if info.Size() == 0 {
		// Emptied by hand: restore the header before the first row.
		if err := encode(&buf, []core.Expense{e}); err != nil {
			return s.storageErr("append", err)
		}
	} else {
		missingNewline, err := s.endsWithoutNewline(info.Size())
		if err != nil {
			return s.storageErr("append", err)
		}
		if missingNewline {
			buf.WriteByte('\n')
		}
		if err := encodeRows(&buf, []core.Expense{e}); err != nil {
			return s.storageErr("append", err)
		}
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return s.storageErr("append", err)
	}
	return nil
}

func (s *Store) endsWithoutNewline(size int64) (bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// rewrite replaces the file with the given records. The new content is
// written to a sibling temporary file, synced, then renamed over the
// existing one.
func (s *Store) rewrite(expenses []core.Expense) (err error) {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.storageErr("rewrite", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := encode(tmp, expenses); err != nil {
		return s.storageErr("rewrite", err)
	}
	if err := tmp.Sync(); err != nil {
		return s.storageErr("rewrite", err)
	}
	if err := tmp.Close(); err != nil {
		return s.storageErr("rewrite", err)
	}

	mode := os.FileMode(filePerm)
	if info, statErr := os.Stat(s.path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return s.storageErr("rewrite", err)
	}
	if err := s.rename(tmpName, s.path); err != nil {
		return s.storageErr("rewrite", err)
	}
	return nil
}

func (s *Store) storageErr(op string, err error) error {
	return &core.StorageError{Op: op, Path: s.path, Err: err}
}
