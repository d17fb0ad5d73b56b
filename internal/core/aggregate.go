package core

import "github.com/shopspring/decimal"

type (
	// Summary holds the ungrouped aggregates of a transaction window.
	Summary struct {
		Total            decimal.Decimal
		TransactionCount int
		CategoryCount    int
		DailyAverage     decimal.Decimal
	}

	// CategoryGroup is one category's slice of an aggregated window.
	CategoryGroup struct {
		CategoryID   int64
		CategoryName string
		Total        decimal.Decimal
		Count        int
	}
)

// Summarize computes the total, transaction count, distinct category count,
// and daily average (total / 7 rounded half-up to two decimals) of a
// transaction set. An empty set yields zero values across the board.
//
// The total is computed from the raw transactions, so it includes
// transactions whose category has since been deleted even though
// GroupByCategory skips them.
func Summarize(txs []Transaction) Summary {
	total := decimal.Zero
	seen := make(map[int64]struct{})
	for _, t := range txs {
		total = total.Add(t.Amount)
		if t.CategoryID != 0 {
			seen[t.CategoryID] = struct{}{}
		}
	}
	return Summary{
		Total:            total,
		TransactionCount: len(txs),
		CategoryCount:    len(seen),
		DailyAverage:     total.DivRound(decimal.NewFromInt(7), 2),
	}
}

// GroupByCategory groups transactions by category identity, not name.
// Output order is insertion order of first occurrence, so results are
// stable for a given input sequence. Transactions with no live category
// (CategoryID zero) are excluded from the groups.
func GroupByCategory(txs []Transaction) []CategoryGroup {
	index := make(map[int64]int)
	var groups []CategoryGroup
	for _, t := range txs {
		if t.CategoryID == 0 {
			continue
		}
		i, ok := index[t.CategoryID]
		if !ok {
			i = len(groups)
			index[t.CategoryID] = i
			groups = append(groups, CategoryGroup{
				CategoryID:   t.CategoryID,
				CategoryName: t.CategoryName,
				Total:        decimal.Zero,
			})
		}
		groups[i].Total = groups[i].Total.Add(t.Amount)
		groups[i].Count++
	}
	return groups
}
