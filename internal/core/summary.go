package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name" yaml:"name"`
	Amount Money  `json:"amount" yaml:"amount"`
	Count  int    `json:"count" yaml:"count"`
}

// Summary is the aggregate over all stored expenses. ByCategory keeps the
// order in which categories first appear.
type Summary struct {
	Count      int              `json:"count" yaml:"count"`
	Total      Money            `json:"total" yaml:"total"`
	ByCategory []CategoryAmount `json:"by_category" yaml:"by_category"`
}

// IsEmpty reports that there were no expenses at all. A zero Total on a
// non-empty summary is a real total.
func (s Summary) IsEmpty() bool {
	return s.Count == 0
}

// Summarize totals expenses overall and per category.
func Summarize(expenses []Expense) Summary {
	s := Summary{Count: len(expenses)}
	index := make(map[string]int)
	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		i, ok := index[e.Category]
		if !ok {
			i = len(s.ByCategory)
			index[e.Category] = i
			s.ByCategory = append(s.ByCategory, CategoryAmount{Name: e.Category})
		}
		s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(e.Amount)
		s.ByCategory[i].Count++
	}
	return s
}
