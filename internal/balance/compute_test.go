package balance

import (
	"testing"

	"github.com/okarlsson/paysplit/internal/group"
	"github.com/okarlsson/paysplit/internal/money"
)

func members(ids ...string) []*group.Member {
	out := make([]*group.Member, len(ids))
	for i, id := range ids {
		out[i] = &group.Member{ID: id, UserID: "user-" + id, UserName: "name-" + id}
	}
	return out
}

func netSum(balances []*MemberBalance) money.Cents {
	var sum money.Cents
	for _, b := range balances {
		sum += b.NetBalance
	}
	return sum
}

func TestComputeTwoWayEvenSplit(t *testing.T) {
	// A pays 10000 split evenly with B.
	balances := Compute(members("A", "B"), map[string]MemberTotals{
		"A": {Paid: 10000, Owed: 5000},
		"B": {Owed: 5000},
	})

	if balances[0].NetBalance != 5000 {
		t.Errorf("A net = %d, want 5000", balances[0].NetBalance)
	}
	if balances[1].NetBalance != -5000 {
		t.Errorf("B net = %d, want -5000", balances[1].NetBalance)
	}
	if sum := netSum(balances); sum != 0 {
		t.Errorf("net balances sum to %d, want 0", sum)
	}
}

func TestComputeSettlementSides(t *testing.T) {
	// A paid 10000 split 5000/5000, then B settled 3000 to A. The
	// settlement counts as a contribution for B and reduces what A is
	// still owed.
	balances := Compute(members("A", "B"), map[string]MemberTotals{
		"A": {Paid: 10000, Owed: 5000, SettlementsReceived: 3000},
		"B": {Owed: 5000, SettlementsPaid: 3000},
	})

	if balances[0].NetBalance != 2000 {
		t.Errorf("A net = %d, want 2000", balances[0].NetBalance)
	}
	if balances[1].NetBalance != -2000 {
		t.Errorf("B net = %d, want -2000", balances[1].NetBalance)
	}
	if sum := netSum(balances); sum != 0 {
		t.Errorf("net balances sum to %d, want 0", sum)
	}
}

func TestComputeInactiveMemberHasZeroBalance(t *testing.T) {
	// M2 was excluded from the only expense; they still appear, all-zero.
	balances := Compute(members("M1", "M2", "M3"), map[string]MemberTotals{
		"M1": {Paid: 3000, Owed: 1500},
		"M3": {Owed: 1500},
	})

	if len(balances) != 3 {
		t.Fatalf("balances = %d members, want 3", len(balances))
	}
	m2 := balances[1]
	if m2.TotalPaid != 0 || m2.TotalOwed != 0 || m2.NetBalance != 0 {
		t.Errorf("excluded member balance = %+v, want all zero", m2)
	}
	if sum := netSum(balances); sum != 0 {
		t.Errorf("net balances sum to %d, want 0", sum)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	ms := members("A", "B", "C")
	totals := map[string]MemberTotals{
		"A": {Paid: 10001, Owed: 3334},
		"B": {Owed: 3334},
		"C": {Owed: 3333},
	}

	first := Compute(ms, totals)
	second := Compute(ms, totals)
	for i := range first {
		if *first[i] != *second[i] {
			t.Errorf("member %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSuggestUnevenThreeWay(t *testing.T) {
	// A paid 10001 for three members: A net +6667, B -3334, C -3333.
	balances := Compute(members("A", "B", "C"), map[string]MemberTotals{
		"A": {Paid: 10001, Owed: 3334},
		"B": {Owed: 3334},
		"C": {Owed: 3333},
	})

	suggestions := Suggest(balances)
	if len(suggestions) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(suggestions))
	}

	var total money.Cents
	for _, s := range suggestions {
		if s.ToMemberID != "A" {
			t.Errorf("suggestion pays %q, want A", s.ToMemberID)
		}
		if s.CentAmount <= 0 {
			t.Errorf("suggestion amount = %d, want > 0", s.CentAmount)
		}
		total += s.CentAmount
	}
	if total != 6667 {
		t.Errorf("suggested total = %d, want 6667", total)
	}

	// Largest debtor first; B owes 3334, C owes 3333.
	if suggestions[0].FromMemberID != "B" || suggestions[1].FromMemberID != "C" {
		t.Errorf("suggestion order = %s, %s; want B, C", suggestions[0].FromMemberID, suggestions[1].FromMemberID)
	}
}

func TestSuggestBalancedGroupIsEmpty(t *testing.T) {
	balances := Compute(members("A", "B"), map[string]MemberTotals{
		"A": {Paid: 5000, Owed: 5000},
		"B": {Paid: 5000, Owed: 5000},
	})
	if got := Suggest(balances); len(got) != 0 {
		t.Errorf("suggestions = %+v, want none", got)
	}

	if got := Suggest(nil); len(got) != 0 {
		t.Errorf("suggestions for empty input = %+v, want none", got)
	}
}

func TestSuggestEqualMagnitudesKeepMemberOrder(t *testing.T) {
	// B and C owe the same amount; the earlier member is matched first.
	balances := Compute(members("A", "B", "C"), map[string]MemberTotals{
		"A": {Paid: 6000, Owed: 2000},
		"B": {Owed: 2000},
		"C": {Owed: 2000},
	})

	suggestions := Suggest(balances)
	if len(suggestions) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(suggestions))
	}
	if suggestions[0].FromMemberID != "B" || suggestions[1].FromMemberID != "C" {
		t.Errorf("suggestion order = %s, %s; want B, C", suggestions[0].FromMemberID, suggestions[1].FromMemberID)
	}
}

func TestSuggestConservation(t *testing.T) {
	tests := []struct {
		name   string
		totals map[string]MemberTotals
	}{
		{
			name: "one payer four debtors",
			totals: map[string]MemberTotals{
				"A": {Paid: 10000, Owed: 2000},
				"B": {Owed: 2000},
				"C": {Owed: 2000},
				"D": {Owed: 2000},
				"E": {Owed: 2000},
			},
		},
		{
			name: "two creditors two debtors",
			totals: map[string]MemberTotals{
				"A": {Paid: 7000, Owed: 2500},
				"B": {Paid: 3000, Owed: 2500},
				"C": {Owed: 2500},
				"D": {Owed: 2500},
			},
		},
		{
			name: "partially settled",
			totals: map[string]MemberTotals{
				"A": {Paid: 9000, Owed: 3000, SettlementsReceived: 1000},
				"B": {Owed: 3000, SettlementsPaid: 1000},
				"C": {Owed: 3000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, 0, len(tt.totals))
			for _, id := range []string{"A", "B", "C", "D", "E"} {
				if _, ok := tt.totals[id]; ok {
					ids = append(ids, id)
				}
			}
			balances := Compute(members(ids...), tt.totals)

			var positive money.Cents
			for _, b := range balances {
				if b.NetBalance > 0 {
					positive += b.NetBalance
				}
			}

			var suggested money.Cents
			for _, s := range Suggest(balances) {
				suggested += s.CentAmount
			}
			if suggested != positive {
				t.Errorf("suggested total = %d, want %d", suggested, positive)
			}
		})
	}
}
