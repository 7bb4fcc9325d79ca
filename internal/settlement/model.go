package settlement

import (
	"time"

	"github.com/okarlsson/paysplit/internal/money"
)

// Settlement represents a recorded repayment between two group members
type Settlement struct {
	ID           string      `json:"id"`
	GroupID      string      `json:"group_id"`
	FromMemberID string      `json:"from_member_id"`
	ToMemberID   string      `json:"to_member_id"`
	Amount       money.Cents `json:"cent_amount"`
	Notes        string      `json:"notes,omitempty"`
	SettledAt    time.Time   `json:"settled_at"`
	CreatedAt    time.Time   `json:"created_at"`

	// Populated on reads via join with group members.
	FromUserName string `json:"from_user_name,omitempty"`
	ToUserName   string `json:"to_user_name,omitempty"`
}
