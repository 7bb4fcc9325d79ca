package notification

import (
	"fmt"
	"log/slog"

	"github.com/okarlsson/paysplit/internal/money"
)

// Notifier composes and dispatches the domain's notification mails.
type Notifier struct {
	sender Sender
}

// NewNotifier creates a notifier backed by the given sender
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// ExpenseCreated notifies the payer and every split participant about a
// newly recorded expense.
func (n *Notifier) ExpenseCreated(groupName, description string, amount money.Cents, payer Recipient, participants []Recipient) {
	n.send(Email{
		To:      payer.Email,
		Subject: fmt.Sprintf("Expense recorded - %s", groupName),
		Body: fmt.Sprintf(`Hi %s,

An expense you paid for has been recorded in %s.

Description: %s
Amount: %s

Thanks for using Payment Splitter!
`, payer.Name, groupName, description, amount.Format()),
	})

	for _, p := range participants {
		if p.Email == payer.Email {
			continue
		}
		n.send(Email{
			To:      p.Email,
			Subject: fmt.Sprintf("New expense in %s", groupName),
			Body: fmt.Sprintf(`Hi %s,

A new expense was added to %s and you are part of the split.

Description: %s
Amount: %s
Paid by: %s

Thanks for using Payment Splitter!
`, p.Name, groupName, description, amount.Format(), payer.Name),
		})
	}
}

// SettlementRecorded notifies both parties of a direct payment.
func (n *Notifier) SettlementRecorded(groupName string, amount money.Cents, notes string, payer, receiver Recipient) {
	if notes == "" {
		notes = "None"
	}

	n.send(Email{
		To:      payer.Email,
		Subject: fmt.Sprintf("Payment recorded - %s", groupName),
		Body: fmt.Sprintf(`Hi %s,

Your payment has been recorded in %s.

Amount: %s
Paid to: %s
Notes: %s

Thanks for using Payment Splitter!
`, payer.Name, groupName, amount.Format(), receiver.Name, notes),
	})

	n.send(Email{
		To:      receiver.Email,
		Subject: fmt.Sprintf("You received a payment - %s", groupName),
		Body: fmt.Sprintf(`Hi %s,

You received a payment in %s.

Amount: %s
From: %s
Notes: %s

Thanks for using Payment Splitter!
`, receiver.Name, groupName, amount.Format(), payer.Name, notes),
	})
}

func (n *Notifier) send(email Email) {
	if err := n.sender.Send(email); err != nil {
		slog.Warn("notification delivery failed", "to", email.To, "subject", email.Subject, "error", err)
	}
}
