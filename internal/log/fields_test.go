package log

import (
	"errors"
	"testing"
)

func TestLogFieldsBuilder(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentExpense).
		WithOperation(OpDelete).
		WithExpense(3, "Food", "12.50").
		WithError(errors.New("boom")).
		WithError(nil)

	want := map[string]any{
		FieldComponent: ComponentExpense,
		FieldOperation: OpDelete,
		FieldExpenseID: int64(3),
		FieldCategory:  "Food",
		FieldAmount:    "12.50",
		FieldError:     "boom",
	}
	if len(f) != len(want) {
		t.Fatalf("got %d fields, want %d: %v", len(f), len(want), f)
	}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("%s = %v, want %v", k, f[k], v)
		}
	}
	if got := len(f.ToSlice()); got != 2*len(want) {
		t.Fatalf("slice length %d, want %d", got, 2*len(want))
	}
}
