package profile

import (
	"fmt"

	"github.com/aristath/budgetwise/internal/modules/expenses"
)

// Step identifies one of the five wizard steps, in strict linear order.
type Step int

const (
	StepIncome Step = iota
	StepGoals
	StepExpenses
	StepSavingsDebt
	StepReview
)

// stepTitles gives each step its prompt, in order.
var stepTitles = [...]string{
	"Enter your monthly after-tax income",
	"Set your investment goals",
	"Add your monthly expenses",
	"Input savings & debt",
	"Review & get AI summary",
}

// Title returns the user-facing prompt for the step.
func (s Step) Title() string {
	if s < StepIncome || s > StepReview {
		return ""
	}
	return stepTitles[s]
}

// DraftExpense is an expense entered during the wizard. Drafts live only in
// the session; they are summed into the profile's expense snapshot on save
// and are distinct from the committed expense ledger.
type DraftExpense struct {
	Amount   float64           `json:"amount"`
	Category expenses.Category `json:"category"`
	Note     string            `json:"note,omitempty"`
}

// Session is the full wizard state for one profile-setup flow. Sessions are
// values: every transition takes a Session and returns the successor, so
// there is no ambient mutable state. All draft fields survive navigation in
// both directions.
type Session struct {
	ID       string         `json:"id"`
	Step     Step           `json:"step"`
	Income   float64        `json:"income"`
	Goal1M   float64        `json:"goal_1m"`
	Goal3M   float64        `json:"goal_3m"`
	Goal6M   float64        `json:"goal_6m"`
	Goal1Y   float64        `json:"goal_1y"`
	Expenses []DraftExpense `json:"expenses"`
	Savings  float64        `json:"savings"`
	Debt     float64        `json:"debt"`

	// SavedProfileID is set once the session's profile has been committed.
	// Saving happens only on the explicit save action, never as a side
	// effect of rendering or navigation.
	SavedProfileID int64 `json:"saved_profile_id,omitempty"`
}

// NewSession creates a zero-valued session at the first step.
func NewSession(id string) Session {
	return Session{ID: id, Step: StepIncome, Expenses: []DraftExpense{}}
}

// Next advances one step. At the final step it is a no-op.
func (s Session) Next() Session {
	if s.Step < StepReview {
		s.Step++
	}
	return s
}

// Back retreats one step. At the first step it is a no-op.
func (s Session) Back() Session {
	if s.Step > StepIncome {
		s.Step--
	}
	return s
}

// WithIncome records the monthly after-tax income.
func (s Session) WithIncome(income float64) Session {
	s.Income = income
	return s
}

// WithGoals records the four investment goals.
func (s Session) WithGoals(g1m, g3m, g6m, g1y float64) Session {
	s.Goal1M, s.Goal3M, s.Goal6M, s.Goal1Y = g1m, g3m, g6m, g1y
	return s
}

// WithSavingsDebt records current savings and debt.
func (s Session) WithSavingsDebt(savings, debt float64) Session {
	s.Savings, s.Debt = savings, debt
	return s
}

// AddExpense appends a draft expense to the session's list after validating
// it the same way the ledger does. The slice is copied so earlier session
// values are never mutated through shared backing arrays.
func (s Session) AddExpense(d DraftExpense) (Session, error) {
	e := expenses.Expense{Amount: d.Amount, Category: d.Category, Note: d.Note}
	if err := e.Validate(); err != nil {
		return s, err
	}

	list := make([]DraftExpense, len(s.Expenses), len(s.Expenses)+1)
	copy(list, s.Expenses)
	s.Expenses = append(list, d)
	return s, nil
}

// TotalExpenses sums the session's draft expense list.
func (s Session) TotalExpenses() float64 {
	var total float64
	for _, d := range s.Expenses {
		total += d.Amount
	}
	return total
}

// Profile builds the FinancialProfile this session would save.
func (s Session) Profile() FinancialProfile {
	return FinancialProfile{
		AfterTaxIncome: s.Income,
		Goal1M:         s.Goal1M,
		Goal3M:         s.Goal3M,
		Goal6M:         s.Goal6M,
		Goal1Y:         s.Goal1Y,
		TotalExpenses:  s.TotalExpenses(),
		Savings:        s.Savings,
		Debt:           s.Debt,
	}
}

// Save commits the session's profile to the store and returns the successor
// session carrying the assigned profile id. Only valid from the review step.
func (s Session) Save(repo *Repository) (Session, error) {
	if s.Step != StepReview {
		return s, fmt.Errorf("cannot save profile from step %d", s.Step)
	}

	id, err := repo.Add(s.Profile())
	if err != nil {
		return s, err
	}

	s.SavedProfileID = id
	return s, nil
}
