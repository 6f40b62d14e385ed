package core

import (
	"strings"
	"time"
)

// DateLayout is the on-disk and display format of expense dates.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	// Expense is one stored record. ID is its 1-based position in the store.
	Expense struct {
		ID          int64
		Date        Date
		Category    string
		Description string
		Amount      Money
	}

	// NewExpense carries the caller-supplied fields of an expense that has
	// not been stored yet. A zero Date means "today".
	NewExpense struct {
		Date        Date
		Category    string
		Description string
		Amount      Money
	}

	// ExpenseUpdate lists the fields to replace on an existing expense.
	// Nil fields are left untouched; ID and Date cannot be changed.
	ExpenseUpdate struct {
		Category    *string
		Description *string
		Amount      *Money
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD", Value: s}
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Reason: "cannot be zero"}
	}
	return nil
}

// Validate checks the fields of an expense about to be stored. A zero
// date is allowed because stores fill it in.
func (e NewExpense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Amount.Validate()
}

// Build assigns id and, when missing, today's date.
func (e NewExpense) Build(id int64) Expense {
	date := e.Date
	if date.IsEmpty() {
		date = Today()
	}
	return Expense{
		ID:          id,
		Date:        date,
		Category:    NormalizeText(e.Category),
		Description: NormalizeText(e.Description),
		Amount:      e.Amount,
	}
}

// NormalizeText turns CRLF line breaks into LF. CSV readers fold CRLF inside
// quoted fields, so storing LF keeps what is read back equal to what was
// written.
func NormalizeText(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func (e Expense) Validate() error {
	if e.ID < 1 {
		return &ValidationError{Field: "id", Reason: "must be positive"}
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return NewExpense{
		Date:        e.Date,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
	}.Validate()
}

// IsEmpty reports whether no field is supplied.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Category == nil && u.Description == nil && u.Amount == nil
}

func (u ExpenseUpdate) Validate() error {
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return ErrEmptyCategory
	}
	if u.Amount != nil {
		return u.Amount.Validate()
	}
	return nil
}
