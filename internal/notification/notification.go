// Package notification delivers best-effort email to group members.
// Delivery failures are logged and swallowed; they must never fail the
// operation that triggered them.
package notification

// Email is a single outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single email.
type Sender interface {
	Send(email Email) error
}

// Recipient identifies a member to notify.
type Recipient struct {
	Name  string
	Email string
}
