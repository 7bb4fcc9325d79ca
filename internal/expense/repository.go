package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/okarlsson/paysplit/internal/database"
	"github.com/okarlsson/paysplit/internal/money"
)

// Repository handles expense and split persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithSplits persists an expense and its splits as one atomic
// unit. A reader can never observe the expense without its full set of
// splits.
func (r *Repository) CreateWithSplits(ctx context.Context, e *Expense) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertExpense(ctx, tx, e); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}
	return e, nil
}

// CreateBatch persists a whole batch of expenses in one transaction,
// keyed by the upload's storage key for idempotency. Redelivery of an
// already-committed batch returns ErrBatchAlreadyApplied without
// creating anything.
func (r *Repository) CreateBatch(ctx context.Context, storageKey, groupID string, batch []*Expense) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The batch marker commits atomically with the expenses it guards.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO expense_batches (storage_key, group_id)
		VALUES ($1, $2)
		ON CONFLICT (storage_key) DO NOTHING
	`, storageKey, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to record batch marker: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to inspect batch marker: %w", err)
	}
	if inserted == 0 {
		return 0, ErrBatchAlreadyApplied
	}

	for _, e := range batch {
		if err := insertExpense(ctx, tx, e); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return len(batch), nil
}

// insertExpense writes one expense and its splits inside tx.
func insertExpense(ctx context.Context, tx *sql.Tx, e *Expense) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	err := tx.QueryRowContext(ctx, `
		INSERT INTO expenses (id, group_id, created_by, paid_by, description, cent_amount, split_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, e.ID, e.GroupID, e.CreatedBy, e.PaidBy, e.Description, int64(e.Amount), e.SplitType).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	// The ordinal preserves allocation order so reads return splits in
	// the same member order they were created with.
	for i, s := range e.Splits {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.ExpenseID = e.ID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO expense_splits (id, expense_id, group_member_id, cent_amount, ordinal)
			VALUES ($1, $2, $3, $4, $5)
		`, s.ID, s.ExpenseID, s.GroupMemberID, int64(s.Amount), i)
		if err != nil {
			return fmt.Errorf("failed to create split: %w", err)
		}
	}
	return nil
}

// ListByGroup retrieves all non-deleted expenses of a group with their
// splits, newest first.
func (r *Repository) ListByGroup(ctx context.Context, groupID string) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.group_id, e.created_by, e.paid_by, e.description, e.cent_amount, e.split_type, e.created_at
		FROM expenses e
		WHERE e.group_id = $1 AND `+database.ExpenseNotDeleted+`
		ORDER BY e.created_at DESC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	byID := make(map[string]*Expense)
	for rows.Next() {
		e := &Expense{}
		var amount int64
		if err := rows.Scan(
			&e.ID, &e.GroupID, &e.CreatedBy, &e.PaidBy,
			&e.Description, &amount, &e.SplitType, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = money.Cents(amount)
		expenses = append(expenses, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	splitRows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.expense_id, s.group_member_id, s.cent_amount
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.group_id = $1 AND `+database.ExpenseNotDeleted+`
		ORDER BY s.ordinal
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		s := &Split{}
		var amount int64
		if err := splitRows.Scan(&s.ID, &s.ExpenseID, &s.GroupMemberID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		s.Amount = money.Cents(amount)
		if e, ok := byID[s.ExpenseID]; ok {
			e.Splits = append(e.Splits, s)
		}
	}
	return expenses, splitRows.Err()
}
