package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// Header is the fixed first row of every expenses file.
var Header = []string{"ID", "Date", "Category", "Description", "Amount"}

const (
	colID = iota
	colDate
	colCategory
	colDescription
	colAmount
)

var errBadHeader = errors.New("first row is not the expenses header")

func encodeRow(e core.Expense) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.Date.String(),
		e.Category,
		e.Description,
		e.Amount.String(),
	}
}

func decodeRow(row []string) (core.Expense, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(row[colID]), 10, 64)
	if err != nil || id < 1 {
		return core.Expense{}, fmt.Errorf("bad id %q", row[colID])
	}
	date, err := core.ParseDate(row[colDate])
	if err != nil {
		return core.Expense{}, err
	}
	// Files written by older versions may carry any decimal form ("12.5").
	d, err := decimal.NewFromString(strings.TrimSpace(row[colAmount]))
	if err != nil {
		return core.Expense{}, fmt.Errorf("bad amount %q", row[colAmount])
	}
	amount := core.NewMoney(d)
	if err := amount.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("bad amount %q", row[colAmount])
	}
	return core.Expense{
		ID:          id,
		Date:        date,
		Category:    row[colCategory],
		Description: row[colDescription],
		Amount:      amount,
	}, nil
}

func isHeader(row []string) bool {
	if len(row) != len(Header) {
		return false
	}
	for i, h := range Header {
		cell := row[i]
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		if strings.TrimSpace(cell) != h {
			return false
		}
	}
	return true
}

// decode reads a whole expenses file. An empty input yields no records.
func decode(r io.Reader) ([]core.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	first, err := cr.Read()
	if err == io.EOF {
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !isHeader(first) {
		return nil, errBadHeader
	}

	expenses := make([]core.Expense, 0)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		e, err := decodeRow(row)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// encode writes the header followed by one row per expense.
func encode(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	return writeRows(cw, expenses)
}

// encodeRows writes expense rows without a header, for appending.
func encodeRows(w io.Writer, expenses []core.Expense) error {
	return writeRows(csv.NewWriter(w), expenses)
}

func writeRows(cw *csv.Writer, expenses []core.Expense) error {
	for _, e := range expenses {
		if err := cw.Write(encodeRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
