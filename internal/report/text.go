// Package report renders expenses and summaries for people and tools.
package report

import (
	"fmt"
	"io"

	"tracker/internal/core"
)

// FormatExpense renders one expense as a listing row.
func FormatExpense(e core.Expense, currency string) string {
	return fmt.Sprintf("[%d] %s | %s | %s | %s%s", e.ID, e.Date, e.Category, e.Description, currency, e.Amount)
}

// FormatDeleted confirms a delete and how many ids shifted down.
func FormatDeleted(id int64, renumbered int) string {
	switch renumbered {
	case 0:
		return fmt.Sprintf("Expense %d deleted.", id)
	case 1:
		return fmt.Sprintf("Expense %d deleted. 1 later expense was renumbered.", id)
	default:
		return fmt.Sprintf("Expense %d deleted. %d later expenses were renumbered.", id, renumbered)
	}
}

// WriteExpenses prints a listing, or a notice when there is nothing to show.
func WriteExpenses(w io.Writer, title string, expenses []core.Expense, currency string) error {
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(w, "No expenses found.")
		return err
	}
	if title != "" {
		if _, err := fmt.Fprintf(w, "--- %s ---\n", title); err != nil {
			return err
		}
	}
	for _, e := range expenses {
		if _, err := fmt.Fprintln(w, FormatExpense(e, currency)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummaryText prints the total followed by one line per category.
func WriteSummaryText(w io.Writer, s core.Summary, currency string) error {
	if s.IsEmpty() {
		_, err := fmt.Fprintln(w, "No expenses recorded yet.")
		return err
	}
	if _, err := fmt.Fprintf(w, "--- Summary (%d expenses) ---\n", s.Count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total: %s%s\n", currency, s.Total); err != nil {
		return err
	}
	for _, c := range s.ByCategory {
		if _, err := fmt.Fprintf(w, "  %s: %s%s (%d)\n", c.Name, currency, c.Amount, c.Count); err != nil {
			return err
		}
	}
	return nil
}
