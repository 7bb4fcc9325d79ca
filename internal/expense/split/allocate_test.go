package split

import (
	"fmt"
	"testing"

	"github.com/okarlsson/paysplit/internal/money"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Cents
		members []string
		want    []money.Cents
	}{
		{
			name:    "exact division, no remainder",
			total:   10000,
			members: []string{"a", "b"},
			want:    []money.Cents{5000, 5000},
		},
		{
			name:    "remainder goes to earliest joined members",
			total:   10001,
			members: []string{"a", "b", "c"},
			want:    []money.Cents{3334, 3334, 3333},
		},
		{
			name:    "single member takes everything",
			total:   999,
			members: []string{"a"},
			want:    []money.Cents{999},
		},
		{
			name:    "total smaller than member count keeps zero shares",
			total:   2,
			members: []string{"a", "b", "c"},
			want:    []money.Cents{1, 1, 0},
		},
		{
			name:    "one cent, five members",
			total:   1,
			members: []string{"a", "b", "c", "d", "e"},
			want:    []money.Cents{1, 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := Allocate(tt.total, tt.members)
			if len(shares) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.want))
			}
			for i, share := range shares {
				if share.MemberID != tt.members[i] {
					t.Errorf("share %d member = %s, want %s (order must be preserved)", i, share.MemberID, tt.members[i])
				}
				if share.Amount != tt.want[i] {
					t.Errorf("share %d amount = %d, want %d", i, share.Amount, tt.want[i])
				}
			}
		})
	}
}

// Every allocation must sum exactly to the total and produce one share
// per member, for any combination of total and member count.
func TestAllocateConservation(t *testing.T) {
	totals := []money.Cents{1, 2, 3, 99, 100, 101, 10000, 10001, 333333}
	for n := 1; n <= 12; n++ {
		members := make([]string, n)
		for i := range members {
			members[i] = fmt.Sprintf("m%d", i)
		}
		for _, total := range totals {
			shares := Allocate(total, members)
			if len(shares) != n {
				t.Fatalf("total=%d n=%d: got %d shares", total, n, len(shares))
			}
			var sum money.Cents
			for _, share := range shares {
				if share.Amount < 0 {
					t.Errorf("total=%d n=%d: negative share %d", total, n, share.Amount)
				}
				sum += share.Amount
			}
			if sum != total {
				t.Errorf("total=%d n=%d: shares sum to %d", total, n, sum)
			}
		}
	}
}

func TestAllocateDeterministic(t *testing.T) {
	members := []string{"x", "y", "z"}
	first := Allocate(1000, members)
	for i := 0; i < 10; i++ {
		again := Allocate(1000, members)
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("allocation changed between runs: %v vs %v", again, first)
			}
		}
	}
}
