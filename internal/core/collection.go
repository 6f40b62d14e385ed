package core

import "strings"

// Renumber reassigns ids 1..N in slice order.
func Renumber(expenses []Expense) {
	for i := range expenses {
		expenses[i].ID = int64(i + 1)
	}
}

// IndexOf returns the slice position of the expense with the given id, or -1.
func IndexOf(expenses []Expense, id int64) int {
	for i, e := range expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ApplyUpdate returns e with the supplied fields of u replaced.
func ApplyUpdate(e Expense, u ExpenseUpdate) Expense {
	if u.Category != nil {
		e.Category = NormalizeText(*u.Category)
	}
	if u.Description != nil {
		e.Description = NormalizeText(*u.Description)
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	return e
}

// RemoveAt deletes position i and renumbers what follows.
func RemoveAt(expenses []Expense, i int) []Expense {
	out := make([]Expense, 0, len(expenses)-1)
	out = append(out, expenses[:i]...)
	out = append(out, expenses[i+1:]...)
	Renumber(out)
	return out
}

// FilterByCategory keeps expenses whose category equals category,
// ignoring case.
func FilterByCategory(expenses []Expense, category string) []Expense {
	out := make([]Expense, 0)
	for _, e := range expenses {
		if strings.EqualFold(e.Category, category) {
			out = append(out, e)
		}
	}
	return out
}
