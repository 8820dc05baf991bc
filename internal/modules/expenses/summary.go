package expenses

import (
	"sort"
	"time"
)

// Summarize derives totals from an expense set. Pure function: the same
// inputs always produce the same summary.
//
// MonthlyTotal covers expenses whose CreatedAt falls within now's calendar
// month (boundary: first instant of the month, inclusive). An empty input
// yields a zero-valued summary, never an error. Category rows are ordered by
// descending amount; equal amounts break ties by category name ascending.
func Summarize(items []Expense, now time.Time) Summary {
	summary := Summary{ByCategory: []CategoryTotal{}}
	if len(items) == 0 {
		return summary
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	byCategory := make(map[Category]float64)
	for _, e := range items {
		summary.Total += e.Amount
		summary.Count++
		if !e.CreatedAt.Before(monthStart) {
			summary.MonthlyTotal += e.Amount
		}
		byCategory[e.Category] += e.Amount
	}

	for cat, amount := range byCategory {
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: cat, Amount: amount})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Category < b.Category
	})

	return summary
}
