// Package expenses provides the expense ledger: validated CRUD over the
// expenses table in budget.db plus summary aggregation.
package expenses

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation indicates bad input shape or range. Nothing is persisted.
var ErrValidation = errors.New("validation failed")

// ErrNotFound indicates the operation targeted a non-existent identifier.
var ErrNotFound = errors.New("expense not found")

// Category is the fixed set of expense categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryUtilities     Category = "Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryRent          Category = "Rent"
	CategoryOther         Category = "Other"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryRent,
	CategoryOther,
}

var validCategories = func() map[Category]bool {
	m := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c Category) bool {
	return validCategories[c]
}

// Expense represents a single recorded expense.
type Expense struct {
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount"`
	Category  Category  `json:"category"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the expense's mutable fields.
func (e *Expense) Validate() error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %v", ErrValidation, e.Amount)
	}
	if !ValidCategory(e.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, e.Category)
	}
	return nil
}

// CategoryTotal is one row of the per-category breakdown, ordered by
// descending amount (ties broken by category name ascending).
type CategoryTotal struct {
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
}

// Summary holds the derived totals over the expense set.
type Summary struct {
	Total        float64         `json:"total"`
	MonthlyTotal float64         `json:"monthly_total"`
	Count        int             `json:"count"`
	ByCategory   []CategoryTotal `json:"by_category"`
}
