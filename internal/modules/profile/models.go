// Package profile provides the financial profile store and the guided
// profile-setup wizard.
package profile

import "time"

// FinancialProfile is one saved snapshot of the user's finances. Profiles are
// append-only history: the latest row by creation time is the current
// profile, older rows are retained but inert. Income, goals and the expense
// snapshot are immutable once saved; only savings and debt have an update
// path.
type FinancialProfile struct {
	ID             int64     `json:"id"`
	AfterTaxIncome float64   `json:"after_tax_income"`
	Goal1M         float64   `json:"goal_1m"`
	Goal3M         float64   `json:"goal_3m"`
	Goal6M         float64   `json:"goal_6m"`
	Goal1Y         float64   `json:"goal_1y"`
	TotalExpenses  float64   `json:"total_expenses"`
	Savings        float64   `json:"savings"`
	Debt           float64   `json:"debt"`
	CreatedAt      time.Time `json:"created_at"`
}
