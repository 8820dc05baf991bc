package profile

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE financial_profiles (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    after_tax_income REAL NOT NULL DEFAULT 0,
    goal_1m          REAL NOT NULL DEFAULT 0,
    goal_3m          REAL NOT NULL DEFAULT 0,
    goal_6m          REAL NOT NULL DEFAULT 0,
    goal_1y          REAL NOT NULL DEFAULT 0,
    total_expenses   REAL NOT NULL DEFAULT 0,
    savings          REAL NOT NULL DEFAULT 0,
    debt             REAL NOT NULL DEFAULT 0,
    created_at       INTEGER NOT NULL
);
`

func setupTestRepo(t *testing.T) *Repository {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return NewRepository(db, zerolog.Nop())
}

func TestGetLatestEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	p, err := repo.GetLatest()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLatestWins(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Add(FinancialProfile{AfterTaxIncome: 3000, Savings: 100})
	require.NoError(t, err)

	secondID, err := repo.Add(FinancialProfile{AfterTaxIncome: 4500, Savings: 200, Debt: 50})
	require.NoError(t, err)

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, secondID, latest.ID)
	assert.Equal(t, 4500.0, latest.AfterTaxIncome)
	assert.Equal(t, 200.0, latest.Savings)
	assert.Equal(t, 50.0, latest.Debt)
}

func TestUpdateSavingsDebt(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Add(FinancialProfile{
		AfterTaxIncome: 3000,
		Goal1M:         100,
		Goal1Y:         1200,
		TotalExpenses:  800,
		Savings:        500,
		Debt:           250,
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateSavingsDebt(600, 200))

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)

	// Only savings and debt change
	assert.Equal(t, 600.0, latest.Savings)
	assert.Equal(t, 200.0, latest.Debt)
	assert.Equal(t, 3000.0, latest.AfterTaxIncome)
	assert.Equal(t, 100.0, latest.Goal1M)
	assert.Equal(t, 1200.0, latest.Goal1Y)
	assert.Equal(t, 800.0, latest.TotalExpenses)
}

func TestUpdateSavingsDebtWithoutProfile(t *testing.T) {
	repo := setupTestRepo(t)

	// No profile saved yet: the update is a quiet no-op
	require.NoError(t, repo.UpdateSavingsDebt(600, 200))

	p, err := repo.GetLatest()
	require.NoError(t, err)
	assert.Nil(t, p)
}
