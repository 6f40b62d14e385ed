package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"tracker/internal/core"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no expenses to chart")

// RenderCategoryChart draws the category breakdown as a PNG pie chart.
// Categories with a zero total are left out; a summary with nothing but
// zero amounts has nothing to draw either.
func RenderCategoryChart(s core.Summary, currency string) ([]byte, error) {
	values := make([]chart.Value, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		amount := c.Amount.Float64()
		if amount <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s%s", c.Name, currency, c.Amount),
			Value: amount,
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("Total %s%s", currency, s.Total),
		Width:  800,
		Height: 800,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
	}

	buffer := bytes.NewBuffer(nil)
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buffer.Bytes(), nil
}
