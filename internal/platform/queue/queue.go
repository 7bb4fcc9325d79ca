// Package queue abstracts the message queue used by the batch import
// pipeline. Delivery is at-least-once: a received message stays hidden
// for the visibility timeout and reappears unless deleted.
package queue

import "context"

// Message is a single received queue message.
type Message struct {
	Body          string
	ReceiptHandle string
}

// Queue is the minimal messaging contract the application needs.
type Queue interface {
	Send(ctx context.Context, body string) error
	// Receive long-polls for up to waitSeconds and returns at most
	// maxMessages. Cancelling ctx aborts an in-flight poll.
	Receive(ctx context.Context, maxMessages, waitSeconds int32) ([]Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}
