package profile

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const profileColumns = `id, after_tax_income, goal_1m, goal_3m, goal_6m, goal_1y, total_expenses, savings, debt, created_at`

// Repository handles financial profile database operations against budget.db.
type Repository struct {
	db  *sql.DB // budget.db - financial_profiles table
	log zerolog.Logger
}

// NewRepository creates a new profile repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "profile").Logger(),
	}
}

// Add inserts a new profile row and returns its id. Always inserts; existing
// rows are never replaced.
func (r *Repository) Add(p FinancialProfile) (int64, error) {
	now := time.Now().Unix()

	res, err := r.db.Exec(`
		INSERT INTO financial_profiles
			(after_tax_income, goal_1m, goal_3m, goal_6m, goal_1y,
			 total_expenses, savings, debt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.AfterTaxIncome, p.Goal1M, p.Goal3M, p.Goal6M, p.Goal1Y,
		p.TotalExpenses, p.Savings, p.Debt, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add financial profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get profile id: %w", err)
	}

	r.log.Info().
		Int64("id", id).
		Float64("income", p.AfterTaxIncome).
		Msg("Financial profile saved")

	return id, nil
}

// GetLatest returns the profile with the maximum created_at, or nil when no
// profile exists yet (absence is not an error).
func (r *Repository) GetLatest() (*FinancialProfile, error) {
	row := r.db.QueryRow(`
		SELECT ` + profileColumns + ` FROM financial_profiles
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`)

	var p FinancialProfile
	var createdAt int64
	err := row.Scan(
		&p.ID, &p.AfterTaxIncome, &p.Goal1M, &p.Goal3M, &p.Goal6M, &p.Goal1Y,
		&p.TotalExpenses, &p.Savings, &p.Debt, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest profile: %w", err)
	}

	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

// UpdateSavingsDebt mutates savings and debt on the latest profile row in
// place. All other fields are left untouched. No-op when no profile exists.
func (r *Repository) UpdateSavingsDebt(savings, debt float64) error {
	latest, err := r.GetLatest()
	if err != nil {
		return err
	}
	if latest == nil {
		return nil
	}

	_, err = r.db.Exec(
		"UPDATE financial_profiles SET savings = ?, debt = ? WHERE id = ?",
		savings, debt, latest.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update savings/debt: %w", err)
	}

	r.log.Info().
		Int64("id", latest.ID).
		Float64("savings", savings).
		Float64("debt", debt).
		Msg("Profile savings/debt updated")

	return nil
}
