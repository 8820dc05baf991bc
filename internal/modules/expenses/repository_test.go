package expenses

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE expenses (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    amount     REAL NOT NULL CHECK (amount > 0),
    category   TEXT NOT NULL,
    note       TEXT,
    created_at INTEGER NOT NULL
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

func TestAddAndGetAll(t *testing.T) {
	repo := setupTestRepo(t)

	id, err := repo.Add(42.50, CategoryFood, "groceries")
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	items, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, 42.50, items[0].Amount)
	assert.Equal(t, CategoryFood, items[0].Category)
	assert.Equal(t, "groceries", items[0].Note)
	assert.False(t, items[0].CreatedAt.IsZero())
}

func TestAddRejectsInvalid(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Add(-1, CategoryFood, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.Add(10, "NotACategory", "")
	assert.ErrorIs(t, err, ErrValidation)

	// No record created by the failed adds
	items, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSummaryTotalIncreasesByAmount(t *testing.T) {
	repo := setupTestRepo(t)

	before, err := repo.GetSummary()
	require.NoError(t, err)

	_, err = repo.Add(33.33, CategoryTransport, "")
	require.NoError(t, err)

	after, err := repo.GetSummary()
	require.NoError(t, err)
	assert.InDelta(t, before.Total+33.33, after.Total, 1e-9)
	assert.Equal(t, before.Count+1, after.Count)
}

func TestGetByID(t *testing.T) {
	repo := setupTestRepo(t)

	id, err := repo.Add(10, CategoryRent, "")
	require.NoError(t, err)

	e, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	repo := setupTestRepo(t)

	id, err := repo.Add(10, CategoryFood, "lunch")
	require.NoError(t, err)

	err = repo.Update(id, 12.5, CategoryFood, "dinner")
	require.NoError(t, err)

	e, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, 12.5, e.Amount)
	assert.Equal(t, "dinner", e.Note)

	err = repo.Update(9999, 5, CategoryFood, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := setupTestRepo(t)

	id, err := repo.Add(10, CategoryOther, "")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(id))

	// Deleting an id that no longer exists succeeds quietly
	require.NoError(t, repo.Delete(id))
	require.NoError(t, repo.Delete(424242))

	items, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, items)
}
