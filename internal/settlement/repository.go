package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/okarlsson/paysplit/internal/money"
)

// Repository handles settlement persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a settlement
func (r *Repository) Create(ctx context.Context, s *Settlement) (*Settlement, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO settlements (id, group_id, from_member_id, to_member_id, cent_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING settled_at, created_at
	`, s.ID, s.GroupID, s.FromMemberID, s.ToMemberID, int64(s.Amount), s.Notes).Scan(&s.SettledAt, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}
	return s, nil
}

// ListByGroup retrieves a group's settlements with payer and receiver
// names, newest first.
func (r *Repository) ListByGroup(ctx context.Context, groupID string) ([]*Settlement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.group_id, s.from_member_id, s.to_member_id, s.cent_amount, s.notes, s.settled_at, s.created_at,
		       COALESCE(fu.name, ''), COALESCE(tu.name, '')
		FROM settlements s
		LEFT JOIN group_members fm ON fm.id = s.from_member_id
		LEFT JOIN users fu ON fu.id = fm.user_id
		LEFT JOIN group_members tm ON tm.id = s.to_member_id
		LEFT JOIN users tu ON tu.id = tm.user_id
		WHERE s.group_id = $1
		ORDER BY s.settled_at DESC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s := &Settlement{}
		var amount int64
		if err := rows.Scan(
			&s.ID, &s.GroupID, &s.FromMemberID, &s.ToMemberID,
			&amount, &s.Notes, &s.SettledAt, &s.CreatedAt, &s.FromUserName, &s.ToUserName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		s.Amount = money.Cents(amount)
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}
