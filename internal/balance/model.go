package balance

import "github.com/okarlsson/paysplit/internal/money"

// MemberBalance is the full balance picture for one group member. All
// amounts are integer cents; NetBalance is positive when the member is
// owed money and negative when they owe.
type MemberBalance struct {
	MemberID            string      `json:"member_id"`
	UserID              string      `json:"user_id"`
	UserName            string      `json:"user_name"`
	UserEmail           string      `json:"user_email"`
	TotalPaid           money.Cents `json:"total_paid"`
	TotalOwed           money.Cents `json:"total_owed"`
	SettlementsPaid     money.Cents `json:"settlements_paid"`
	SettlementsReceived money.Cents `json:"settlements_received"`
	NetBalance          money.Cents `json:"net_balance"`
}

// BalanceResponse is the balance sheet for a whole group.
type BalanceResponse struct {
	GroupID       string           `json:"group_id"`
	GroupName     string           `json:"group_name"`
	Balances      []*MemberBalance `json:"balances"`
	TotalExpenses money.Cents      `json:"total_expenses"`
	TotalSettled  money.Cents      `json:"total_settled"`
}

// SettlementSuggestion is one proposed payment that reduces group debt.
type SettlementSuggestion struct {
	FromMemberID string      `json:"from_member_id"`
	FromUserName string      `json:"from_user_name"`
	ToMemberID   string      `json:"to_member_id"`
	ToUserName   string      `json:"to_user_name"`
	CentAmount   money.Cents `json:"cent_amount"`
}
