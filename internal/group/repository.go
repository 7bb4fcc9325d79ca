package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/okarlsson/paysplit/internal/database"
)

// Repository handles group and membership persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group and its creator's membership in one
// transaction, so a group can never exist without its first member.
func (r *Repository) Create(ctx context.Context, name, createdBy string) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	grp := &Group{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO groups (id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, created_by, created_at
	`, uuid.NewString(), name, createdBy).Scan(
		&grp.ID, &grp.Name, &grp.CreatedBy, &grp.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_members (id, group_id, user_id)
		VALUES ($1, $2, $3)
	`, uuid.NewString(), grp.ID, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}
	return grp, nil
}

// GetByID retrieves an active (not soft-deleted) group, or nil if absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	grp := &Group{}
	err := r.db.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		WHERE g.id = $1 AND `+database.GroupNotDeleted+`
	`, id).Scan(&grp.ID, &grp.Name, &grp.CreatedBy, &grp.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return grp, nil
}

// ListByUserID retrieves the active groups a user belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]*Group, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1 AND `+database.GroupNotDeleted+`
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		grp := &Group{}
		if err := rows.Scan(&grp.ID, &grp.Name, &grp.CreatedBy, &grp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, grp)
	}
	return groups, rows.Err()
}

// AddMember inserts a membership row. The unique (group_id, user_id)
// constraint is the safety net against concurrent double joins.
func (r *Repository) AddMember(ctx context.Context, groupID, userID string) (*Member, error) {
	member := &Member{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO group_members (id, group_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, group_id, user_id, joined_at
	`, uuid.NewString(), groupID, userID).Scan(
		&member.ID, &member.GroupID, &member.UserID, &member.JoinedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

// GetMemberByUserID retrieves a user's membership in a group, or nil.
func (r *Repository) GetMemberByUserID(ctx context.Context, groupID, userID string) (*Member, error) {
	member := &Member{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, group_id, user_id, joined_at
		FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID).Scan(&member.ID, &member.GroupID, &member.UserID, &member.JoinedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return member, nil
}

// GetMemberByID retrieves a membership row by member id scoped to a
// group, or nil. Used to validate payer and settlement member references.
func (r *Repository) GetMemberByID(ctx context.Context, groupID, memberID string) (*Member, error) {
	member := &Member{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, group_id, user_id, joined_at
		FROM group_members
		WHERE id = $1 AND group_id = $2
	`, memberID, groupID).Scan(&member.ID, &member.GroupID, &member.UserID, &member.JoinedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembers retrieves all members of a group with user details,
// ordered by joined_at ascending with member id as the stable tie-break.
// This ordering is the contract the split allocator depends on.
func (r *Repository) ListMembers(ctx context.Context, groupID string) ([]*Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.group_id, m.user_id, m.joined_at, u.name, u.email
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at ASC, m.id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(
			&member.ID, &member.GroupID, &member.UserID, &member.JoinedAt,
			&member.UserName, &member.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// RemoveMember hard-deletes a membership row. Historical expenses and
// splits referencing the member id are retained.
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// SoftDelete marks a group as deleted, hiding it from all queries.
func (r *Repository) SoftDelete(ctx context.Context, groupID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE groups SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}
