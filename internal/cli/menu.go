package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tracker/internal/core"
	"tracker/internal/report"
	"tracker/internal/store"
)

const menuText = `
===== Expense Tracker =====
1. Add expense
2. View all expenses
3. Update expense
4. Delete expense
5. Find by category
6. Summary
7. Exit`

// Menu is the interactive numbered loop over an expense store.
type Menu struct {
	store    store.ExpenseStore
	in       *bufio.Scanner
	out      io.Writer
	currency string
}

// NewMenu reads choices from in and writes prompts and results to out.
func NewMenu(st store.ExpenseStore, in io.Reader, out io.Writer, currency string) *Menu {
	return &Menu{
		store:    st,
		in:       bufio.NewScanner(in),
		out:      out,
		currency: currency,
	}
}

// Run shows the menu until the user exits or input ends. Failed operations
// are reported and the loop continues; only write errors and context
// cancellation end it early.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(m.out, menuText)
		choice, err := m.prompt("Choose an option: ")
		if err != nil {
			return m.endOfInput(err)
		}

		switch choice {
		case "1":
			err = m.add(ctx)
		case "2":
			err = m.list(ctx)
		case "3":
			err = m.update(ctx)
		case "4":
			err = m.delete(ctx)
		case "5":
			err = m.find(ctx)
		case "6":
			err = m.summary(ctx)
		case "7", "0":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice, please try again.")
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.report(err)
		}
	}
}

func (m *Menu) add(ctx context.Context) error {
	category, err := m.prompt("Category: ")
	if err != nil {
		return err
	}
	description, err := m.prompt("Description: ")
	if err != nil {
		return err
	}
	amount, _, err := m.promptAmount("Amount: ", false)
	if err != nil {
		return err
	}

	e, err := m.store.Add(ctx, core.NewExpense{
		Category:    category,
		Description: description,
		Amount:      amount,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Expense added: %s\n", report.FormatExpense(e, m.currency))
	return nil
}

func (m *Menu) list(ctx context.Context) error {
	expenses, err := m.store.List(ctx)
	if err != nil {
		return err
	}
	return report.WriteExpenses(m.out, "All Expenses", expenses, m.currency)
}

func (m *Menu) update(ctx context.Context) error {
	id, ok, err := m.promptID("Expense ID to update: ")
	if err != nil || !ok {
		return err
	}
	fmt.Fprintln(m.out, "Leave a field blank to keep its current value.")

	var u core.ExpenseUpdate
	category, err := m.prompt("New category: ")
	if err != nil {
		return err
	}
	if category != "" {
		u.Category = &category
	}
	description, err := m.prompt("New description: ")
	if err != nil {
		return err
	}
	if description != "" {
		u.Description = &description
	}
	amount, supplied, err := m.promptAmount("New amount: ", true)
	if err != nil {
		return err
	}
	if supplied {
		u.Amount = &amount
	}

	e, err := m.store.Update(ctx, id, u)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Expense updated: %s\n", report.FormatExpense(e, m.currency))
	return nil
}

func (m *Menu) delete(ctx context.Context) error {
	id, ok, err := m.promptID("Expense ID to delete: ")
	if err != nil || !ok {
		return err
	}
	renumbered, err := m.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, report.FormatDeleted(id, renumbered))
	return nil
}

func (m *Menu) find(ctx context.Context) error {
	category, err := m.prompt("Category to search: ")
	if err != nil {
		return err
	}
	expenses, err := m.store.FindByCategory(ctx, category)
	if err != nil {
		return err
	}
	return report.WriteExpenses(m.out, "Category: "+category, expenses, m.currency)
}

func (m *Menu) summary(ctx context.Context) error {
	s, err := m.store.Summarize(ctx)
	if err != nil {
		return err
	}
	return report.WriteSummaryText(m.out, s, m.currency)
}

// prompt writes label and returns the next trimmed input line.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// promptAmount asks until a valid amount is entered. With optional set a
// blank line means no amount was supplied.
func (m *Menu) promptAmount(label string, optional bool) (core.Money, bool, error) {
	for {
		raw, err := m.prompt(label)
		if err != nil {
			return core.Money{}, false, err
		}
		if raw == "" && optional {
			return core.Money{}, false, nil
		}
		amount, err := core.ParseAmount(raw)
		if err == nil {
			return amount, true, nil
		}
		fmt.Fprintln(m.out, "Invalid amount, enter a non-negative number such as 12.50.")
	}
}

func (m *Menu) promptID(label string) (int64, bool, error) {
	raw, err := m.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		fmt.Fprintln(m.out, "Invalid ID.")
		return 0, false, nil
	}
	return id, true, nil
}

func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintln(m.out, "No expense with that ID.")
	case core.IsValidation(err):
		fmt.Fprintf(m.out, "Invalid input: %v\n", err)
	default:
		fmt.Fprintf(m.out, "Error: %v\n", err)
	}
}

func (m *Menu) endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
