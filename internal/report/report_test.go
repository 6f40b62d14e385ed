package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"tracker/internal/core"
)

func sample() []core.Expense {
	return []core.Expense{
		{ID: 1, Date: core.NewDate(2025, 1, 2), Category: "Food", Description: "Lunch", Amount: core.MoneyFromCents(1250)},
		{ID: 2, Date: core.NewDate(2025, 1, 3), Category: "Travel", Description: "Bus", Amount: core.MoneyFromCents(300)},
		{ID: 3, Date: core.NewDate(2025, 1, 4), Category: "Food", Description: "Dinner", Amount: core.MoneyFromCents(2000)},
	}
}

func TestFormatExpense(t *testing.T) {
	got := FormatExpense(sample()[0], "$")
	if want := "[1] 2025-01-02 | Food | Lunch | $12.50"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatDeleted(t *testing.T) {
	tests := []struct {
		id         int64
		renumbered int
		want       string
	}{
		{3, 0, "Expense 3 deleted."},
		{2, 1, "Expense 2 deleted. 1 later expense was renumbered."},
		{1, 4, "Expense 1 deleted. 4 later expenses were renumbered."},
	}
	for _, tt := range tests {
		if got := FormatDeleted(tt.id, tt.renumbered); got != tt.want {
			t.Errorf("FormatDeleted(%d, %d) = %q, want %q", tt.id, tt.renumbered, got, tt.want)
		}
	}
}

func TestWriteExpenses(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExpenses(&buf, "All Expenses", sample()[:2], "$"); err != nil {
		t.Fatal(err)
	}
	want := "--- All Expenses ---\n" +
		"[1] 2025-01-02 | Food | Lunch | $12.50\n" +
		"[2] 2025-01-03 | Travel | Bus | $3.00\n"
	if buf.String() != want {
		t.Fatalf("got\n%s\nwant\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := WriteExpenses(&buf, "All Expenses", nil, "$"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No expenses found.\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriteSummaryText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryText(&buf, core.Summarize(sample()), "€"); err != nil {
		t.Fatal(err)
	}
	want := "--- Summary (3 expenses) ---\n" +
		"Total: €35.50\n" +
		"  Food: €32.50 (2)\n" +
		"  Travel: €3.00 (1)\n"
	if buf.String() != want {
		t.Fatalf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteSummaryTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryText(&buf, core.Summarize(nil), "$"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No expenses recorded yet.\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestMarshalSummaryJSON(t *testing.T) {
	b, err := MarshalSummary(FormatJSON, core.Summarize(sample()))
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("invalid json %s: %v", b, err)
	}
	checks := map[string]string{
		"empty": "false",
		"count": "3",
		"total": "35.50",
	}
	for key, want := range checks {
		if got := string(raw[key]); got != want {
			t.Errorf("%s = %s, want %s", key, got, want)
		}
	}
	if !strings.Contains(string(b), `"name": "Food"`) {
		t.Fatalf("missing categories in %s", b)
	}
}

func TestMarshalSummaryEmpty(t *testing.T) {
	b, err := MarshalSummary(FormatJSON, core.Summarize(nil))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["empty"] != true {
		t.Fatalf("empty flag not set: %s", b)
	}
	if cats, ok := doc["by_category"].([]any); !ok || len(cats) != 0 {
		t.Fatalf("by_category should be an empty list: %s", b)
	}
}

func TestMarshalSummaryYAML(t *testing.T) {
	b, err := MarshalSummary(FormatYAML, core.Summarize(sample()))
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Empty      bool   `yaml:"empty"`
		Count      int    `yaml:"count"`
		Total      string `yaml:"total"`
		ByCategory []struct {
			Name   string `yaml:"name"`
			Amount string `yaml:"amount"`
			Count  int    `yaml:"count"`
		} `yaml:"by_category"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("invalid yaml %s: %v", b, err)
	}
	if doc.Empty || doc.Count != 3 || doc.Total != "35.50" {
		t.Fatalf("unexpected document %+v", doc)
	}
	if len(doc.ByCategory) != 2 || doc.ByCategory[0].Name != "Food" || doc.ByCategory[0].Amount != "32.50" {
		t.Fatalf("unexpected categories %+v", doc.ByCategory)
	}
}

func TestMarshalExpenses(t *testing.T) {
	b, err := MarshalExpenses(FormatJSON, sample()[:1])
	if err != nil {
		t.Fatal(err)
	}
	want := `[
  {
    "id": 1,
    "date": "2025-01-02",
    "category": "Food",
    "description": "Lunch",
    "amount": 12.50
  }
]
`
	if string(b) != want {
		t.Fatalf("got\n%s\nwant\n%s", b, want)
	}

	b, err = MarshalExpenses(FormatYAML, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[]\n" {
		t.Fatalf("empty yaml = %q", b)
	}
}

func TestMarshalUnsupportedFormat(t *testing.T) {
	if _, err := MarshalExpenses("xml", sample()); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestRenderCategoryChart(t *testing.T) {
	png, err := RenderCategoryChart(core.Summarize(sample()), "$")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("output is not a PNG")
	}
}

func TestRenderCategoryChartNoData(t *testing.T) {
	zero := []core.Expense{{ID: 1, Category: "Food", Amount: core.MoneyFromCents(0)}}
	for name, s := range map[string]core.Summary{
		"empty":      core.Summarize(nil),
		"zero total": core.Summarize(zero),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := RenderCategoryChart(s, "$"); !errors.Is(err, ErrNoData) {
				t.Fatalf("err = %v, want ErrNoData", err)
			}
		})
	}
}
