package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/budgetwise/internal/modules/expenses"
)

func TestNavigationClamps(t *testing.T) {
	s := NewSession("test")
	assert.Equal(t, StepIncome, s.Step)

	// Back at the first step is a no-op
	s = s.Back()
	assert.Equal(t, StepIncome, s.Step)

	// Four Next calls reach the review step
	for i := 0; i < 4; i++ {
		s = s.Next()
	}
	assert.Equal(t, StepReview, s.Step)

	// A fifth Next is a no-op
	s = s.Next()
	assert.Equal(t, StepReview, s.Step)
}

func TestDraftSurvivesNavigation(t *testing.T) {
	s := NewSession("test").
		WithIncome(3000).
		WithGoals(100, 300, 600, 1200).
		WithSavingsDebt(500, 250)

	s, err := s.AddExpense(DraftExpense{Amount: 40, Category: expenses.CategoryFood})
	require.NoError(t, err)

	// Walk forward and all the way back
	s = s.Next().Next().Next().Next().Back().Back().Back().Back()

	assert.Equal(t, StepIncome, s.Step)
	assert.Equal(t, 3000.0, s.Income)
	assert.Equal(t, 1200.0, s.Goal1Y)
	assert.Equal(t, 500.0, s.Savings)
	assert.Len(t, s.Expenses, 1)
}

func TestStepTitles(t *testing.T) {
	assert.Equal(t, "Enter your monthly after-tax income", StepIncome.Title())
	assert.Equal(t, "Set your investment goals", StepGoals.Title())
	assert.Equal(t, "Add your monthly expenses", StepExpenses.Title())
	assert.Equal(t, "Input savings & debt", StepSavingsDebt.Title())
	assert.Equal(t, "Review & get AI summary", StepReview.Title())
}

func TestAddExpenseValidates(t *testing.T) {
	s := NewSession("test")

	_, err := s.AddExpense(DraftExpense{Amount: -5, Category: expenses.CategoryFood})
	assert.ErrorIs(t, err, expenses.ErrValidation)

	_, err = s.AddExpense(DraftExpense{Amount: 5, Category: "Lottery"})
	assert.ErrorIs(t, err, expenses.ErrValidation)
}

func TestAddExpenseDoesNotMutatePredecessor(t *testing.T) {
	s1 := NewSession("test")
	s2, err := s1.AddExpense(DraftExpense{Amount: 10, Category: expenses.CategoryFood})
	require.NoError(t, err)

	s3a, err := s2.AddExpense(DraftExpense{Amount: 20, Category: expenses.CategoryRent})
	require.NoError(t, err)
	s3b, err := s2.AddExpense(DraftExpense{Amount: 30, Category: expenses.CategoryOther})
	require.NoError(t, err)

	// Divergent successors never share draft lists
	assert.Len(t, s2.Expenses, 1)
	assert.Equal(t, 20.0, s3a.Expenses[1].Amount)
	assert.Equal(t, 30.0, s3b.Expenses[1].Amount)
}

func TestTotalExpenses(t *testing.T) {
	s := NewSession("test")
	assert.Equal(t, 0.0, s.TotalExpenses())

	s, _ = s.AddExpense(DraftExpense{Amount: 10, Category: expenses.CategoryFood})
	s, _ = s.AddExpense(DraftExpense{Amount: 15.5, Category: expenses.CategoryRent})
	assert.InDelta(t, 25.5, s.TotalExpenses(), 1e-9)
}

func TestSaveOnlyFromReview(t *testing.T) {
	repo := setupTestRepo(t)

	s := NewSession("test").WithIncome(3000)
	_, err := s.Save(repo)
	assert.Error(t, err)

	// No profile was written by the failed save
	p, err := repo.GetLatest()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSaveCommitsProfile(t *testing.T) {
	repo := setupTestRepo(t)

	s := NewSession("test").
		WithIncome(3000).
		WithGoals(100, 300, 600, 1200).
		WithSavingsDebt(500, 250)
	s, err := s.AddExpense(DraftExpense{Amount: 40, Category: expenses.CategoryFood})
	require.NoError(t, err)
	s, err = s.AddExpense(DraftExpense{Amount: 60, Category: expenses.CategoryRent})
	require.NoError(t, err)

	s = s.Next().Next().Next().Next()
	require.Equal(t, StepReview, s.Step)

	s, err = s.Save(repo)
	require.NoError(t, err)
	assert.Greater(t, s.SavedProfileID, int64(0))

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, s.SavedProfileID, latest.ID)
	assert.Equal(t, 3000.0, latest.AfterTaxIncome)
	assert.Equal(t, 100.0, latest.TotalExpenses)
	assert.Equal(t, 500.0, latest.Savings)
}

func TestSessionManager(t *testing.T) {
	m := NewSessionManager()

	s := m.Create()
	assert.NotEmpty(t, s.ID)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	// Transitions persist through Put
	m.Put(s.Next())
	got, err = m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, StepGoals, got.Step)

	m.Delete(s.ID)
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
