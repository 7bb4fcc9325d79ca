package expense

import (
	"context"
	"errors"
	"testing"

	"github.com/okarlsson/paysplit/internal/group"
	"github.com/okarlsson/paysplit/internal/money"
)

func members(ids ...string) []*group.Member {
	out := make([]*group.Member, len(ids))
	for i, id := range ids {
		out[i] = &group.Member{ID: id, UserID: "user-" + id}
	}
	return out
}

func memberIDs(ms []*group.Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestSelectParticipants(t *testing.T) {
	all := members(memberA, memberB, memberC)

	tests := []struct {
		name          string
		included      []string
		wantIDs       []string
		wantSplitType SplitType
	}{
		{
			name:          "no included ids means whole group",
			included:      nil,
			wantIDs:       []string{memberA, memberB, memberC},
			wantSplitType: SplitTypeEqualAll,
		},
		{
			name:          "subset is partial",
			included:      []string{memberC, memberA},
			wantIDs:       []string{memberA, memberC},
			wantSplitType: SplitTypePartial,
		},
		{
			name:          "full set listed explicitly is equal all",
			included:      []string{memberC, memberB, memberA},
			wantIDs:       []string{memberA, memberB, memberC},
			wantSplitType: SplitTypeEqualAll,
		},
		{
			name:          "duplicates collapse",
			included:      []string{memberB, memberB, memberB},
			wantIDs:       []string{memberB},
			wantSplitType: SplitTypePartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			participants, splitType, err := selectParticipants(all, tt.included)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if splitType != tt.wantSplitType {
				t.Errorf("splitType = %q, want %q", splitType, tt.wantSplitType)
			}
			got := memberIDs(participants)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("participants = %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("participants = %v, want %v", got, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestCreateRejectsBadRequestsBeforePersistence(t *testing.T) {
	s := NewService(nil, nil, nil)

	tests := []struct {
		name    string
		req     *CreateExpenseRequest
		wantErr error
	}{
		{
			name:    "zero amount",
			req:     &CreateExpenseRequest{GroupID: "g1", Description: "Dinner", CentAmount: 0},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			req:     &CreateExpenseRequest{GroupID: "g1", Description: "Dinner", CentAmount: -100},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "blank description",
			req:     &CreateExpenseRequest{GroupID: "g1", Description: "   ", CentAmount: 100},
			wantErr: ErrEmptyDescription,
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

func TestSelectParticipantsInvalidIDs(t *testing.T) {
	all := members(memberA, memberB)
	outsider1 := "44444444-4444-4444-4444-444444444444"
	outsider2 := "55555555-5555-5555-5555-555555555555"

	_, _, err := selectParticipants(all, []string{memberA, outsider1, outsider2})
	var invalid *InvalidMemberIDsError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidMemberIDsError, got %v", err)
	}
	// Every offending id is reported, not just the first.
	if len(invalid.IDs) != 2 || invalid.IDs[0] != outsider1 || invalid.IDs[1] != outsider2 {
		t.Errorf("invalid ids = %v, want [%s %s]", invalid.IDs, outsider1, outsider2)
	}
}

func TestSelectParticipantsEmptyGroup(t *testing.T) {
	if _, _, err := selectParticipants(nil, nil); !errors.Is(err, ErrEmptySplit) {
		t.Errorf("expected ErrEmptySplit, got %v", err)
	}
}

func TestBuildExpenseAllocatesRemainderInMemberOrder(t *testing.T) {
	participants := members(memberA, memberB, memberC)

	e := buildExpense("g1", memberA, memberB, "  Dinner  ", money.Cents(10001), SplitTypeEqualAll, participants)

	if e.Description != "Dinner" {
		t.Errorf("description = %q, want trimmed %q", e.Description, "Dinner")
	}
	if e.PaidBy != memberB {
		t.Errorf("paidBy = %q, want %q", e.PaidBy, memberB)
	}
	if len(e.Splits) != 3 {
		t.Fatalf("splits = %d, want 3", len(e.Splits))
	}

	var sum money.Cents
	wantAmounts := []money.Cents{3334, 3334, 3333}
	for i, s := range e.Splits {
		if s.Amount != wantAmounts[i] {
			t.Errorf("split[%d] = %d, want %d", i, s.Amount, wantAmounts[i])
		}
		sum += s.Amount
	}
	if sum != e.Amount {
		t.Errorf("split sum = %d, want %d", sum, e.Amount)
	}
}
