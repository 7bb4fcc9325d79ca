package balance

import (
	"sort"

	"github.com/okarlsson/paysplit/internal/group"
	"github.com/okarlsson/paysplit/internal/money"
)

// MemberTotals holds the per-member sums read from storage, keyed by
// group member id.
type MemberTotals struct {
	Paid                money.Cents
	Owed                money.Cents
	SettlementsPaid     money.Cents
	SettlementsReceived money.Cents
}

// Compute assembles the balance sheet from per-member totals. Members
// appear in the given order, including members with no activity at all.
// The net balances of the result always sum to zero.
func Compute(members []*group.Member, totals map[string]MemberTotals) []*MemberBalance {
	balances := make([]*MemberBalance, len(members))
	for i, m := range members {
		t := totals[m.ID]
		balances[i] = &MemberBalance{
			MemberID:            m.ID,
			UserID:              m.UserID,
			UserName:            m.UserName,
			UserEmail:           m.UserEmail,
			TotalPaid:           t.Paid,
			TotalOwed:           t.Owed,
			SettlementsPaid:     t.SettlementsPaid,
			SettlementsReceived: t.SettlementsReceived,
			NetBalance:          (t.Paid + t.SettlementsPaid) - (t.Owed + t.SettlementsReceived),
		}
	}
	return balances
}

// Suggest produces a minimal-ish set of payments that settles every net
// balance, using a greedy pairing of the largest debtor against the
// largest creditor. At most n-1 suggestions result for n members with
// non-zero balances. Ties in magnitude keep the input member order, so
// the output is deterministic for a given balance sheet.
func Suggest(balances []*MemberBalance) []*SettlementSuggestion {
	type entry struct {
		memberID string
		userName string
		amount   money.Cents
	}

	var debtors, creditors []*entry
	for _, b := range balances {
		switch {
		case b.NetBalance < 0:
			debtors = append(debtors, &entry{b.MemberID, b.UserName, -b.NetBalance})
		case b.NetBalance > 0:
			creditors = append(creditors, &entry{b.MemberID, b.UserName, b.NetBalance})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })

	var suggestions []*SettlementSuggestion
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := debtors[i], creditors[j]
		amount := d.amount
		if c.amount < amount {
			amount = c.amount
		}

		suggestions = append(suggestions, &SettlementSuggestion{
			FromMemberID: d.memberID,
			FromUserName: d.userName,
			ToMemberID:   c.memberID,
			ToUserName:   c.userName,
			CentAmount:   amount,
		})

		d.amount -= amount
		c.amount -= amount
		if d.amount == 0 {
			i++
		}
		if c.amount == 0 {
			j++
		}
	}
	return suggestions
}
