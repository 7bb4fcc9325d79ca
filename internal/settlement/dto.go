package settlement

// CreateSettlementRequest represents the request to record a settlement
type CreateSettlementRequest struct {
	GroupID      string `json:"group_id" validate:"required,uuid"`
	FromMemberID string `json:"from_member_id" validate:"required,uuid"`
	ToMemberID   string `json:"to_member_id" validate:"required,uuid"`
	CentAmount   int64  `json:"cent_amount" validate:"required,gt=0"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID           string `json:"id"`
	GroupID      string `json:"group_id"`
	FromMemberID string `json:"from_member_id"`
	FromUserName string `json:"from_user_name,omitempty"`
	ToMemberID   string `json:"to_member_id"`
	ToUserName   string `json:"to_user_name,omitempty"`
	CentAmount   int64  `json:"cent_amount"`
	Notes        string `json:"notes,omitempty"`
	SettledAt    string `json:"settled_at"`
	CreatedAt    string `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:           s.ID,
		GroupID:      s.GroupID,
		FromMemberID: s.FromMemberID,
		FromUserName: s.FromUserName,
		ToMemberID:   s.ToMemberID,
		ToUserName:   s.ToUserName,
		CentAmount:   int64(s.Amount),
		Notes:        s.Notes,
		SettledAt:    s.SettledAt.Format("2006-01-02T15:04:05Z"),
		CreatedAt:    s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
