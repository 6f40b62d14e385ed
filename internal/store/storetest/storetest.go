// Package storetest holds behaviour checks shared by every ExpenseStore
// implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tracker/internal/core"
	"tracker/internal/store"
)

// Factory returns a fresh, initialized, empty store.
type Factory func(t *testing.T) store.ExpenseStore

// Run runs the shared checks against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.ExpenseStore)
	}{
		{"empty store lists nothing", testEmpty},
		{"add assigns sequential ids", testAddSequential},
		{"add defaults date to today", testAddScenario},
		{"add rejects invalid input", testAddValidation},
		{"delete renumbers densely", testDeleteRenumbers},
		{"update replaces only supplied fields", testUpdatePartial},
		{"update accepts explicit zero amount", testUpdateZeroAmount},
		{"missing id reports not found", testNotFound},
		{"find by category ignores case", testFindByCategory},
		{"summarize totals by category", testSummarize},
		{"round trip keeps field values", testRoundTrip},
		{"initialize is idempotent", testInitializeIdempotent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func mustAdd(t *testing.T, s store.ExpenseStore, category, description string, cents int64) core.Expense {
	t.Helper()
	e, err := s.Add(context.Background(), core.NewExpense{
		Category:    category,
		Description: description,
		Amount:      core.MoneyFromCents(cents),
	})
	if err != nil {
		t.Fatalf("add %s/%s: %v", category, description, err)
	}
	return e
}

func mustList(t *testing.T, s store.ExpenseStore) []core.Expense {
	t.Helper()
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return list
}

func testEmpty(t *testing.T, s store.ExpenseStore) {
	list := mustList(t, s)
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", list)
	}
	sum, err := s.Summarize(context.Background())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !sum.IsEmpty() {
		t.Fatalf("expected empty summary, got %+v", sum)
	}
}

func testAddSequential(t *testing.T, s store.ExpenseStore) {
	for i := 1; i <= 5; i++ {
		e := mustAdd(t, s, "Cat", fmt.Sprintf("item %d", i), int64(i*100))
		if e.ID != int64(i) {
			t.Fatalf("add %d returned id %d", i, e.ID)
		}
	}
	for i, e := range mustList(t, s) {
		if e.ID != int64(i+1) || e.Description != fmt.Sprintf("item %d", i+1) {
			t.Fatalf("position %d holds %+v", i, e)
		}
	}
}

func testAddScenario(t *testing.T, s store.ExpenseStore) {
	amount, err := core.ParseAmount("12.50")
	if err != nil {
		t.Fatalf("parse amount: %v", err)
	}
	e, err := s.Add(context.Background(), core.NewExpense{Category: "Food", Description: "Lunch", Amount: amount})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	list := mustList(t, s)
	if len(list) != 1 {
		t.Fatalf("expected one record, got %d", len(list))
	}
	got := list[0]
	if got.ID != 1 || got.Category != "Food" || got.Description != "Lunch" || got.Amount.String() != "12.50" {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.Date.String() != core.Today().String() {
		t.Fatalf("date = %s, want today %s", got.Date, core.Today())
	}
	if got.Date.String() != e.Date.String() {
		t.Fatalf("returned date %s differs from stored %s", e.Date, got.Date)
	}
}

func testAddValidation(t *testing.T, s store.ExpenseStore) {
	_, err := s.Add(context.Background(), core.NewExpense{Category: "Food", Amount: core.MoneyFromCents(-1)})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	_, err = s.Add(context.Background(), core.NewExpense{Category: " ", Amount: core.MoneyFromCents(1)})
	if !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	if n := len(mustList(t, s)); n != 0 {
		t.Fatalf("invalid adds persisted %d records", n)
	}
}

func testDeleteRenumbers(t *testing.T, s store.ExpenseStore) {
	mustAdd(t, s, "A", "first", 100)
	mustAdd(t, s, "B", "second", 200)
	mustAdd(t, s, "C", "third", 300)

	renumbered, err := s.Delete(context.Background(), 2)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if renumbered != 1 {
		t.Fatalf("renumbered = %d, want 1", renumbered)
	}
	list := mustList(t, s)
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].ID != 1 || list[0].Description != "first" {
		t.Fatalf("unexpected first %+v", list[0])
	}
	if list[1].ID != 2 || list[1].Description != "third" {
		t.Fatalf("unexpected second %+v", list[1])
	}

	// The next add continues the dense sequence.
	if e := mustAdd(t, s, "D", "fourth", 400); e.ID != 3 {
		t.Fatalf("add after delete got id %d, want 3", e.ID)
	}
}

func testUpdatePartial(t *testing.T, s store.ExpenseStore) {
	before := mustAdd(t, s, "Food", "Lunch", 1250)
	mustAdd(t, s, "Travel", "Bus", 300)

	cat := "X"
	updated, err := s.Update(context.Background(), 1, core.ExpenseUpdate{Category: &cat})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != "X" {
		t.Fatalf("returned category %q", updated.Category)
	}
	got := mustList(t, s)[0]
	if got.Category != "X" {
		t.Fatalf("stored category %q", got.Category)
	}
	if got.Description != before.Description || !got.Amount.Equal(before.Amount) || got.Date.String() != before.Date.String() || got.ID != 1 {
		t.Fatalf("unsupplied fields changed: before %+v after %+v", before, got)
	}
	if other := mustList(t, s)[1]; other.Category != "Travel" {
		t.Fatalf("other record touched: %+v", other)
	}
}

func testUpdateZeroAmount(t *testing.T, s store.ExpenseStore) {
	mustAdd(t, s, "Food", "Lunch", 1250)
	zero := core.MoneyFromCents(0)
	if _, err := s.Update(context.Background(), 1, core.ExpenseUpdate{Amount: &zero}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := mustList(t, s)[0]; !got.Amount.IsZero() {
		t.Fatalf("amount = %s, want 0.00", got.Amount)
	}
}

func testNotFound(t *testing.T, s store.ExpenseStore) {
	mustAdd(t, s, "Food", "Lunch", 1250)
	before := mustList(t, s)

	cat := "X"
	if _, err := s.Update(context.Background(), 9, core.ExpenseUpdate{Category: &cat}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Delete(context.Background(), 9); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Delete(context.Background(), 0); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete 0: expected ErrNotFound, got %v", err)
	}

	after := mustList(t, s)
	if len(after) != len(before) || after[0].Category != before[0].Category {
		t.Fatalf("storage changed: before %+v after %+v", before, after)
	}
}

func testFindByCategory(t *testing.T, s store.ExpenseStore) {
	mustAdd(t, s, "Food", "Lunch", 1250)
	mustAdd(t, s, "Travel", "Bus", 300)
	mustAdd(t, s, "FOOD", "Dinner", 2000)

	upper, err := s.FindByCategory(context.Background(), "Food")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	lower, err := s.FindByCategory(context.Background(), "food")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(upper) != 2 || len(lower) != 2 {
		t.Fatalf("got %d and %d matches, want 2", len(upper), len(lower))
	}
	for i := range upper {
		if upper[i].ID != lower[i].ID {
			t.Fatalf("results differ at %d: %+v vs %+v", i, upper[i], lower[i])
		}
	}

	none, err := s.FindByCategory(context.Background(), "Rent")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no matches, got %v (err=%v)", none, err)
	}
	if partial, _ := s.FindByCategory(context.Background(), "Foo"); len(partial) != 0 {
		t.Fatalf("partial match returned %v", partial)
	}
}

func testSummarize(t *testing.T, s store.ExpenseStore) {
	mustAdd(t, s, "Food", "Lunch", 1250)
	mustAdd(t, s, "Travel", "Bus", 300)
	mustAdd(t, s, "Food", "Dinner", 2000)
	mustAdd(t, s, "Gifts", "Card", 0)

	sum, err := s.Summarize(context.Background())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.IsEmpty() || sum.Count != 4 {
		t.Fatalf("unexpected count %d", sum.Count)
	}
	if sum.Total.String() != "35.50" {
		t.Fatalf("total = %s, want 35.50", sum.Total)
	}

	want := []core.CategoryAmount{
		{Name: "Food", Amount: core.MoneyFromCents(3250), Count: 2},
		{Name: "Travel", Amount: core.MoneyFromCents(300), Count: 1},
		{Name: "Gifts", Amount: core.MoneyFromCents(0), Count: 1},
	}
	if len(sum.ByCategory) != len(want) {
		t.Fatalf("categories = %+v", sum.ByCategory)
	}
	total := core.MoneyFromCents(0)
	for i, w := range want {
		got := sum.ByCategory[i]
		if got.Name != w.Name || !got.Amount.Equal(w.Amount) || got.Count != w.Count {
			t.Fatalf("category %d = %+v, want %+v", i, got, w)
		}
		total = total.Add(got.Amount)
	}
	if !total.Equal(sum.Total) {
		t.Fatalf("breakdown sums to %s, total is %s", total, sum.Total)
	}
}

func testRoundTrip(t *testing.T, s store.ExpenseStore) {
	tests := []struct {
		in   core.NewExpense
		want string
	}{
		{core.NewExpense{Date: core.NewDate(2024, 2, 29), Category: "Food", Description: `Pizza, "large"`, Amount: core.MoneyFromCents(1999)}, `Pizza, "large"`},
		{core.NewExpense{Date: core.NewDate(2025, 1, 1), Category: "Home, garden", Description: "line\nbreak", Amount: core.MoneyFromCents(100000)}, "line\nbreak"},
		{core.NewExpense{Date: core.NewDate(2025, 6, 30), Category: "Misc", Description: "", Amount: core.MoneyFromCents(1)}, ""},
		{core.NewExpense{Date: core.NewDate(2025, 7, 1), Category: "Misc", Description: "a\r\nb", Amount: core.MoneyFromCents(2)}, "a\nb"},
		{core.NewExpense{Date: core.NewDate(2025, 7, 2), Category: "Misc", Description: strings.Repeat("€", 70), Amount: core.MoneyFromCents(3)}, strings.Repeat("€", 70)},
	}
	for _, tt := range tests {
		added, err := s.Add(context.Background(), tt.in)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if added.Description != tt.want {
			t.Fatalf("add returned description %q, want %q", added.Description, tt.want)
		}
	}
	list := mustList(t, s)
	if len(list) != len(tests) {
		t.Fatalf("got %d records, want %d", len(list), len(tests))
	}
	for i, tt := range tests {
		got := list[i]
		if got.ID != int64(i+1) ||
			got.Date.String() != tt.in.Date.String() ||
			got.Category != tt.in.Category ||
			got.Description != tt.want ||
			got.Amount.String() != tt.in.Amount.String() {
			t.Fatalf("record %d = %+v, want %+v", i, got, tt.in)
		}
	}

	crlf := "x\r\ny"
	updated, err := s.Update(context.Background(), 1, core.ExpenseUpdate{Description: &crlf})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := mustList(t, s)[0].Description; got != "x\ny" || updated.Description != got {
		t.Fatalf("updated description read back as %q, returned %q", got, updated.Description)
	}
}

func testInitializeIdempotent(t *testing.T, s store.ExpenseStore) {
	mustAdd(t, s, "Food", "Lunch", 1250)
	for i := 0; i < 2; i++ {
		if err := s.Initialize(context.Background()); err != nil {
			t.Fatalf("initialize: %v", err)
		}
	}
	if n := len(mustList(t, s)); n != 1 {
		t.Fatalf("initialize changed contents, %d records", n)
	}
}
