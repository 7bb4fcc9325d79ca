package group

import "time"

// Group represents an expense-sharing group. Soft-deleted groups
// (deleted_at set) are invisible to every query.
type Group struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
}

// Member represents a user's membership in a group. A user may join a
// group at most once; joined_at orders members for split allocation.
type Member struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Populated via JOIN
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}
