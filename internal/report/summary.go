// Package report contains the pure aggregation and formatting logic behind
// the daily and monthly summaries. Everything here operates on already-stored
// records; fetching and persistence stay with the callers.
package report

import (
	"sort"

	"github.com/Falleiro/Finova/internal/domain/transaction"
)

// Summary aggregates a window of transactions. TotalDebits is the absolute
// outflow, so Net = TotalCredits - TotalDebits.
type Summary struct {
	Count        int
	TotalDebits  int64
	TotalCredits int64
	Net          int64
	ByCategory   map[transaction.Category]int64
}

// Summarize folds the given transactions into totals. Spending per category
// counts outflows only, as absolute values; inflows contribute to
// TotalCredits regardless of category.
func Summarize(transactions []*transaction.Transaction) Summary {
	s := Summary{ByCategory: make(map[transaction.Category]int64)}
	for _, tx := range transactions {
		s.Count++
		if tx.IsDebit() {
			s.TotalDebits += -tx.Amount
			s.ByCategory[tx.Category] += -tx.Amount
		} else {
			s.TotalCredits += tx.Amount
		}
	}
	s.Net = s.TotalCredits - s.TotalDebits
	return s
}

// Comparison holds month-over-month deltas between two summaries.
type Comparison struct {
	SpendingDelta    int64
	SpendingDeltaPct float64
	IncomeDelta      int64
	NetDelta         int64
}

// Compare computes current minus previous. SpendingDeltaPct is zero when the
// previous window had no spending, so a first month never divides by zero.
func Compare(current, previous Summary) Comparison {
	c := Comparison{
		SpendingDelta: current.TotalDebits - previous.TotalDebits,
		IncomeDelta:   current.TotalCredits - previous.TotalCredits,
		NetDelta:      current.Net - previous.Net,
	}
	if previous.TotalDebits > 0 {
		c.SpendingDeltaPct = float64(c.SpendingDelta) / float64(previous.TotalDebits) * 100
	}
	return c
}

// TopCategories returns up to n categories ordered by spending, largest
// first. Ties break alphabetically so the output is deterministic.
func (s Summary) TopCategories(n int) []CategorySpend {
	spends := make([]CategorySpend, 0, len(s.ByCategory))
	for category, amount := range s.ByCategory {
		spends = append(spends, CategorySpend{Category: category, Amount: amount})
	}
	sort.Slice(spends, func(i, j int) bool {
		if spends[i].Amount != spends[j].Amount {
			return spends[i].Amount > spends[j].Amount
		}
		return spends[i].Category < spends[j].Category
	})
	if n > 0 && len(spends) > n {
		spends = spends[:n]
	}
	return spends
}

type CategorySpend struct {
	Category transaction.Category
	Amount   int64
}
