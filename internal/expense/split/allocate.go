// Package split computes per-member expense allocations in integer cents.
package split

import "github.com/okarlsson/paysplit/internal/money"

// Share is the allocated amount for a single group member.
type Share struct {
	MemberID string
	Amount   money.Cents
}

// Allocate divides totalCents among the given members. The members slice
// must already be ordered by ascending joined_at (ties broken by member
// id) and must be non-empty; callers validate both before allocating.
//
// Each member gets floor(total/n); the first total mod n members get one
// extra cent. The same input always produces the same allocation -- the
// remainder is never rotated across expenses. Shares of zero cents are
// kept so the split still records who was included.
func Allocate(totalCents money.Cents, memberIDs []string) []Share {
	n := money.Cents(len(memberIDs))
	base := totalCents / n
	remainder := totalCents % n

	shares := make([]Share, len(memberIDs))
	for i, id := range memberIDs {
		amount := base
		if money.Cents(i) < remainder {
			amount++
		}
		shares[i] = Share{MemberID: id, Amount: amount}
	}
	return shares
}
