package expense

import (
	"time"

	"github.com/okarlsson/paysplit/internal/money"
)

// SplitType records how an expense was divided
type SplitType string

const (
	// SplitTypeEqualAll covers every group member at recording time
	SplitTypeEqualAll SplitType = "EQUAL_ALL"
	// SplitTypePartial covers a strict subset of the members
	SplitTypePartial SplitType = "PARTIAL"
)

// Expense represents a shared expense. Expenses are immutable once
// created; soft-deleted expenses (deleted_at set) are invisible to all
// queries.
type Expense struct {
	ID          string      `json:"id"`
	GroupID     string      `json:"group_id"`
	CreatedBy   string      `json:"created_by"` // member id of the requester
	PaidBy      string      `json:"paid_by"`    // member id of the payer
	Description string      `json:"description"`
	Amount      money.Cents `json:"cent_amount"`
	SplitType   SplitType   `json:"split_type"`
	CreatedAt   time.Time   `json:"created_at"`
	DeletedAt   *time.Time  `json:"-"`

	Splits []*Split `json:"splits,omitempty"`
}

// Split is one participating member's share of an expense. Splits are
// written in the same transaction as their expense and never modified
// afterward; their amounts always sum exactly to the expense amount.
type Split struct {
	ID            string      `json:"id"`
	ExpenseID     string      `json:"expense_id"`
	GroupMemberID string      `json:"group_member_id"`
	Amount        money.Cents `json:"cent_amount"`
}
