package expense

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID           string   `json:"group_id" validate:"required,uuid"`
	Description       string   `json:"description" validate:"required,min=1,max=255"`
	CentAmount        int64    `json:"cent_amount" validate:"required,gt=0"`
	PaidByMemberID    string   `json:"paid_by_member_id,omitempty" validate:"omitempty,uuid"`
	IncludedMemberIDs []string `json:"included_member_ids,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          string           `json:"id"`
	GroupID     string           `json:"group_id"`
	CreatedBy   string           `json:"created_by"`
	PaidBy      string           `json:"paid_by"`
	Description string           `json:"description"`
	CentAmount  int64            `json:"cent_amount"`
	SplitType   SplitType        `json:"split_type"`
	CreatedAt   string           `json:"created_at"`
	Splits      []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID            string `json:"id"`
	ExpenseID     string `json:"expense_id"`
	GroupMemberID string `json:"group_member_id"`
	CentAmount    int64  `json:"cent_amount"`
}

// UploadAcceptedResponse is returned when a CSV upload has been handed
// off for asynchronous processing.
type UploadAcceptedResponse struct {
	Message    string `json:"message"`
	StorageKey string `json:"storage_key"`
}

// UploadMessage is the queue message linking a stored CSV upload to the
// group and requesting user.
type UploadMessage struct {
	StorageKey string `json:"storageKey"`
	GroupID    string `json:"groupId"`
	UserID     string `json:"userId"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		CreatedBy:   e.CreatedBy,
		PaidBy:      e.PaidBy,
		Description: e.Description,
		CentAmount:  int64(e.Amount),
		SplitType:   e.SplitType,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if len(e.Splits) > 0 {
		resp.Splits = make([]*SplitResponse, len(e.Splits))
		for i, s := range e.Splits {
			resp.Splits[i] = s.ToResponse()
		}
	}
	return resp
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:            s.ID,
		ExpenseID:     s.ExpenseID,
		GroupMemberID: s.GroupMemberID,
		CentAmount:    int64(s.Amount),
	}
}
