package balance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okarlsson/paysplit/internal/database"
	"github.com/okarlsson/paysplit/internal/money"
)

// Repository reads the aggregate sums that feed balance computation
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new balance repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Totals gathers per-member sums over all non-deleted expenses and all
// settlements of a group, plus the group-wide expense and settlement
// totals.
func (r *Repository) Totals(ctx context.Context, groupID string) (map[string]MemberTotals, money.Cents, money.Cents, error) {
	totals := make(map[string]MemberTotals)
	var totalExpenses, totalSettled money.Cents

	rows, err := r.db.QueryContext(ctx, `
		SELECT e.paid_by, SUM(e.cent_amount)
		FROM expenses e
		WHERE e.group_id = $1 AND `+database.ExpenseNotDeleted+`
		GROUP BY e.paid_by
	`, groupID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var memberID string
		var paid int64
		if err := rows.Scan(&memberID, &paid); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan payment sum: %w", err)
		}
		t := totals[memberID]
		t.Paid = money.Cents(paid)
		totals[memberID] = t
		totalExpenses += money.Cents(paid)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT s.group_member_id, SUM(s.cent_amount)
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE e.group_id = $1 AND `+database.ExpenseNotDeleted+`
		GROUP BY s.group_member_id
	`, groupID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to sum shares: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var memberID string
		var owed int64
		if err := rows.Scan(&memberID, &owed); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan share sum: %w", err)
		}
		t := totals[memberID]
		t.Owed = money.Cents(owed)
		totals[memberID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT from_member_id, to_member_id, cent_amount
		FROM settlements
		WHERE group_id = $1
	`, groupID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fromID, toID string
		var amount int64
		if err := rows.Scan(&fromID, &toID, &amount); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		from := totals[fromID]
		from.SettlementsPaid += money.Cents(amount)
		totals[fromID] = from

		to := totals[toID]
		to.SettlementsReceived += money.Cents(amount)
		totals[toID] = to

		totalSettled += money.Cents(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return totals, totalExpenses, totalSettled, nil
}
