package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracker/internal/core"
	"tracker/internal/store"
	"tracker/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "expenses.csv"))
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestStoreBehaviour(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.ExpenseStore {
		return newTestStore(t)
	})
}

func TestInitializeWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "expenses.csv")
	s := New(path)
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if got := readFile(t, path); got != "ID,Date,Category,Description,Amount\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestInitializeRejectsDirectory(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Initialize(context.Background()); !core.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestFileFormat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Add(ctx, core.NewExpense{
		Date:        core.NewDate(2025, 3, 1),
		Category:    "Food",
		Description: `Pizza, "large"`,
		Amount:      core.MoneyFromCents(1250),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want := "ID,Date,Category,Description,Amount\n" +
		`1,2025-03-01,Food,"Pizza, ""large""",12.50` + "\n"
	if got := readFile(t, s.Path()); got != want {
		t.Fatalf("file content\n%q\nwant\n%q", got, want)
	}
}

func TestReadsLegacyAmounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.csv")
	content := "ID,Date,Category,Description,Amount\n" +
		"1,2024-05-01,Food,Lunch,12.5\n" +
		"2,2024-05-02,Travel,Bus,3.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err := New(path).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Amount.String() != "12.50" || list[1].Amount.String() != "3.00" {
		t.Fatalf("unexpected records %+v", list)
	}
}

func TestMalformedFileIsStorageError(t *testing.T) {
	cases := map[string]string{
		"bad header":   "Id;Date;Category\n1;2024-01-01;Food\n",
		"wrong header": "A,B,C,D,E\n",
		"bad id":       "ID,Date,Category,Description,Amount\nx,2024-01-01,Food,Lunch,1.00\n",
		"bad date":     "ID,Date,Category,Description,Amount\n1,01/01/2024,Food,Lunch,1.00\n",
		"bad amount":   "ID,Date,Category,Description,Amount\n1,2024-01-01,Food,Lunch,abc\n",
		"negative":     "ID,Date,Category,Description,Amount\n1,2024-01-01,Food,Lunch,-2\n",
		"short row":    "ID,Date,Category,Description,Amount\n1,2024-01-01,Food\n",
		"unterminated": "ID,Date,Category,Description,Amount\n1,2024-01-01,\"Food,Lunch,1.00\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "expenses.csv")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			s := New(path)
			if _, err := s.List(context.Background()); !core.IsStorage(err) {
				t.Fatalf("expected storage error, got %v", err)
			}
			cat := "X"
			if _, err := s.Update(context.Background(), 1, core.ExpenseUpdate{Category: &cat}); !core.IsStorage(err) {
				t.Fatalf("update: expected storage error, got %v", err)
			}
			if got := readFile(t, path); got != content {
				t.Fatalf("malformed file was modified: %q", got)
			}
		})
	}
}

func TestMissingFileIsStorageError(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := s.List(context.Background())
	if !core.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestAddToEmptiedFileRestoresHeader(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	e, err := s.Add(context.Background(), core.NewExpense{Date: core.NewDate(2025, 1, 1), Category: "Food", Amount: core.MoneyFromCents(100)})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.ID != 1 {
		t.Fatalf("id = %d, want 1", e.ID)
	}
	if got := readFile(t, s.Path()); !strings.HasPrefix(got, "ID,Date,Category,Description,Amount\n1,") {
		t.Fatalf("header not restored: %q", got)
	}
}

func TestAddAfterMissingTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.csv")
	content := "ID,Date,Category,Description,Amount\n1,2024-05-01,Food,Lunch,12.50"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(path)
	if _, err := s.Add(context.Background(), core.NewExpense{Category: "Travel", Amount: core.MoneyFromCents(300)}); err != nil {
		t.Fatalf("add: %v", err)
	}
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[1].ID != 2 || list[1].Category != "Travel" {
		t.Fatalf("unexpected records %+v", list)
	}
}

func TestRewriteLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := s.Add(ctx, core.NewExpense{Category: "Food", Amount: core.MoneyFromCents(100)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Chmod(s.Path(), 0o640); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "expenses.csv" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected directory contents %v", names)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestFailedRenameKeepsOriginal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, cat := range []string{"Food", "Travel"} {
		if _, err := s.Add(ctx, core.NewExpense{Category: cat, Amount: core.MoneyFromCents(100)}); err != nil {
			t.Fatal(err)
		}
	}
	before := readFile(t, s.Path())

	errDiskFull := errors.New("no space left on device")
	s.rename = func(string, string) error { return errDiskFull }

	if _, err := s.Delete(ctx, 1); !core.IsStorage(err) || !errors.Is(err, errDiskFull) {
		t.Fatalf("delete: expected wrapped storage error, got %v", err)
	}
	cat := "Rent"
	if _, err := s.Update(ctx, 2, core.ExpenseUpdate{Category: &cat}); !core.IsStorage(err) {
		t.Fatalf("update: expected storage error, got %v", err)
	}
	if got := readFile(t, s.Path()); got != before {
		t.Fatalf("file changed after failed rewrite: %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("temporary files left behind: %v", names)
	}
}

func TestReadOnlyDirectoryKeepsOriginal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Add(ctx, core.NewExpense{Category: "Food", Amount: core.MoneyFromCents(100)}); err != nil {
		t.Fatal(err)
	}
	before := readFile(t, s.Path())

	dir := filepath.Dir(s.Path())
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	if _, err := s.Delete(ctx, 1); !core.IsStorage(err) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if got := readFile(t, s.Path()); got != before {
		t.Fatalf("file changed after failed rewrite: %q", got)
	}
}
