package settlement

import (
	"context"
	"errors"
	"testing"
)

func TestCreateRejectsBadRequestsBeforePersistence(t *testing.T) {
	s := NewService(nil, nil, nil)
	member := "11111111-1111-1111-1111-111111111111"

	tests := []struct {
		name    string
		req     *CreateSettlementRequest
		wantErr error
	}{
		{
			name:    "zero amount",
			req:     &CreateSettlementRequest{GroupID: "g1", FromMemberID: member, ToMemberID: "m2", CentAmount: 0},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			req:     &CreateSettlementRequest{GroupID: "g1", FromMemberID: member, ToMemberID: "m2", CentAmount: -100},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "payer and receiver are the same member",
			req:     &CreateSettlementRequest{GroupID: "g1", FromMemberID: member, ToMemberID: member, CentAmount: 500},
			wantErr: ErrSelfSettlement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), "user-1", tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
