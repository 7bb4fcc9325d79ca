package settlement

import (
	"testing"
	"time"

	"github.com/okarlsson/paysplit/internal/money"
)

func TestToResponseCarriesBothTimestamps(t *testing.T) {
	settled := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)

	s := &Settlement{
		ID:           "s1",
		GroupID:      "g1",
		FromMemberID: "m1",
		ToMemberID:   "m2",
		Amount:       money.Cents(2500),
		Notes:        "venmo",
		SettledAt:    settled,
		CreatedAt:    created,
	}

	resp := s.ToResponse()
	if resp.SettledAt != "2026-08-01T12:00:00Z" {
		t.Errorf("SettledAt = %q", resp.SettledAt)
	}
	if resp.CreatedAt != "2026-08-02T09:30:00Z" {
		t.Errorf("CreatedAt = %q", resp.CreatedAt)
	}
	if resp.CentAmount != 2500 {
		t.Errorf("CentAmount = %d, want 2500", resp.CentAmount)
	}
}
