package expenses

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// expensesColumns is the list of columns for the expenses table.
// Used to avoid SELECT * which can break when the schema changes.
// Column order must match the scan helpers below.
const expensesColumns = `id, amount, category, note, created_at`

// Repository handles expense database operations against budget.db.
// Every mutating operation commits before returning; readers observe all
// prior commits (read-your-writes).
type Repository struct {
	db  *sql.DB // budget.db - expenses table
	log zerolog.Logger
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "expenses").Logger(),
	}
}

// Add inserts a new expense and returns its assigned id.
// Fails with ErrValidation (wrapped) when the amount is not positive or the
// category is not in the fixed set; nothing is persisted in that case.
func (r *Repository) Add(amount float64, category Category, note string) (int64, error) {
	e := Expense{Amount: amount, Category: category, Note: strings.TrimSpace(note)}
	if err := e.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	res, err := r.db.Exec(
		"INSERT INTO expenses (amount, category, note, created_at) VALUES (?, ?, ?, ?)",
		e.Amount, string(e.Category), nullString(e.Note), now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get expense id: %w", err)
	}

	r.log.Info().
		Int64("id", id).
		Float64("amount", e.Amount).
		Str("category", string(e.Category)).
		Msg("Expense added")

	return id, nil
}

// GetAll retrieves all expenses, newest first.
func (r *Repository) GetAll() ([]Expense, error) {
	query := `
		SELECT ` + expensesColumns + ` FROM expenses
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	var items []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single expense.
// Returns ErrNotFound (wrapped) when the id is absent.
func (r *Repository) GetByID(id int64) (*Expense, error) {
	row := r.db.QueryRow("SELECT "+expensesColumns+" FROM expenses WHERE id = ?", id)

	var e Expense
	var note sql.NullString
	var createdAt int64
	err := row.Scan(&e.ID, &e.Amount, (*string)(&e.Category), &note, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if note.Valid {
		e.Note = note.String
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &e, nil
}

// Update replaces the mutable fields (amount, category, note) of an existing
// expense. Fails with ErrNotFound when the id is absent and ErrValidation
// when the new values are invalid; created_at is never touched.
func (r *Repository) Update(id int64, amount float64, category Category, note string) error {
	e := Expense{Amount: amount, Category: category, Note: strings.TrimSpace(note)}
	if err := e.Validate(); err != nil {
		return err
	}

	res, err := r.db.Exec(
		"UPDATE expenses SET amount = ?, category = ?, note = ? WHERE id = ?",
		e.Amount, string(e.Category), nullString(e.Note), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	r.log.Info().Int64("id", id).Msg("Expense updated")
	return nil
}

// Delete removes an expense by id. Deleting an absent id is a no-op, not an
// error: deletion is idempotent from the caller's point of view.
func (r *Repository) Delete(id int64) error {
	if _, err := r.db.Exec("DELETE FROM expenses WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	r.log.Info().Int64("id", id).Msg("Expense deleted")
	return nil
}

// GetSummary computes totals over the full expense set at call time.
func (r *Repository) GetSummary() (Summary, error) {
	items, err := r.GetAll()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items, time.Now()), nil
}

func scanExpense(rows *sql.Rows) (Expense, error) {
	var e Expense
	var note sql.NullString
	var createdAt int64

	if err := rows.Scan(&e.ID, &e.Amount, (*string)(&e.Category), &note, &createdAt); err != nil {
		return e, err
	}

	if note.Valid {
		e.Note = note.String
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()

	return e, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
