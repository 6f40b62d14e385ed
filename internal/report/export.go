package report

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"tracker/internal/core"
)

// Supported machine-readable formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExpenseRecord is the exported form of an expense.
type ExpenseRecord struct {
	ID          int64      `json:"id" yaml:"id"`
	Date        string     `json:"date" yaml:"date"`
	Category    string     `json:"category" yaml:"category"`
	Description string     `json:"description" yaml:"description"`
	Amount      core.Money `json:"amount" yaml:"amount"`
}

// SummaryDocument is the exported form of a summary. Empty is set when the
// store held no expenses, so a zero total is never ambiguous.
type SummaryDocument struct {
	core.Summary `yaml:",inline"`

	Empty bool `json:"empty" yaml:"empty"`
}

func toRecords(expenses []core.Expense) []ExpenseRecord {
	out := make([]ExpenseRecord, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ExpenseRecord{
			ID:          e.ID,
			Date:        e.Date.String(),
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount,
		})
	}
	return out
}

// MarshalExpenses encodes a listing as json or yaml.
func MarshalExpenses(format string, expenses []core.Expense) ([]byte, error) {
	return marshal(format, toRecords(expenses))
}

// MarshalSummary encodes a summary as json or yaml.
func MarshalSummary(format string, s core.Summary) ([]byte, error) {
	if s.ByCategory == nil {
		s.ByCategory = []core.CategoryAmount{}
	}
	return marshal(format, SummaryDocument{Empty: s.IsEmpty(), Summary: s})
}

func marshal(format string, v any) ([]byte, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(b, '\n'), nil
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported format %q: must be %s or %s", format, FormatJSON, FormatYAML)
	}
}
