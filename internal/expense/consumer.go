package expense

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/okarlsson/paysplit/internal/metrics"
	"github.com/okarlsson/paysplit/internal/platform/blob"
	"github.com/okarlsson/paysplit/internal/platform/queue"
)

// BatchApplier applies one stored CSV upload as an atomic expense batch.
type BatchApplier interface {
	CreateBatch(ctx context.Context, groupID, userID, storageKey, csvContent string) (int, error)
}

// Consumer polls the upload queue and imports stored CSV batches.
// Delivery is at-least-once: a message is deleted only once its outcome
// is final (committed, duplicate, or permanently failed). Retryable
// failures leave the message in place for redelivery.
type Consumer struct {
	queue       queue.Queue
	blobs       blob.Store
	expenses    BatchApplier
	maxMessages int32
	waitSeconds int32
}

// NewConsumer creates a new upload queue consumer
func NewConsumer(q queue.Queue, blobs blob.Store, expenses BatchApplier, maxMessages, waitSeconds int32) *Consumer {
	return &Consumer{
		queue:       q,
		blobs:       blobs,
		expenses:    expenses,
		maxMessages: maxMessages,
		waitSeconds: waitSeconds,
	}
}

// Run polls until ctx is cancelled. Receive errors are logged and
// polling continues.
func (c *Consumer) Run(ctx context.Context) {
	slog.Info("upload consumer started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("upload consumer stopped")
			return
		default:
		}

		messages, err := c.queue.Receive(ctx, c.maxMessages, c.waitSeconds)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("upload consumer stopped")
				return
			}
			slog.Error("failed to receive messages", "error", err)
			continue
		}

		for _, msg := range messages {
			c.processMessage(ctx, msg)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg queue.Message) {
	timer := prometheus.NewTimer(metrics.BatchDuration)
	defer timer.ObserveDuration()

	// A shutdown mid-batch must not abort the database transaction;
	// redelivery would reprocess the whole file anyway.
	ctx = context.WithoutCancel(ctx)

	var upload UploadMessage
	if err := json.Unmarshal([]byte(msg.Body), &upload); err != nil {
		slog.Error("discarding malformed upload message", "error", err)
		metrics.BatchesProcessed.WithLabelValues(metrics.OutcomeMalformed).Inc()
		c.delete(ctx, msg)
		return
	}

	log := slog.With("storage_key", upload.StorageKey, "group_id", upload.GroupID)

	content, err := c.blobs.Get(ctx, upload.StorageKey)
	if err != nil {
		// The object may not be visible yet; keep the message for redelivery.
		log.Error("failed to fetch stored upload", "error", err)
		metrics.BatchesProcessed.WithLabelValues(metrics.OutcomeRetryableFailure).Inc()
		return
	}

	count, err := c.expenses.CreateBatch(ctx, upload.GroupID, upload.UserID, upload.StorageKey, string(content))

	var permanent *BatchValidationError
	switch {
	case err == nil:
		log.Info("batch imported", "expenses", count)
		metrics.BatchesProcessed.WithLabelValues(metrics.OutcomeCommitted).Inc()
		metrics.ExpensesImported.Add(float64(count))
		c.delete(ctx, msg)
	case errors.Is(err, ErrBatchAlreadyApplied):
		log.Info("batch already applied, dropping duplicate delivery")
		metrics.BatchesProcessed.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		c.delete(ctx, msg)
	case errors.As(err, &permanent):
		log.Warn("batch permanently rejected", "reason", permanent.Reason, "row_errors", len(permanent.RowErrors))
		metrics.BatchesProcessed.WithLabelValues(metrics.OutcomePermanentFailure).Inc()
		c.delete(ctx, msg)
	default:
		log.Error("batch import failed, leaving message for retry", "error", err)
		metrics.BatchesProcessed.WithLabelValues(metrics.OutcomeRetryableFailure).Inc()
	}
}

func (c *Consumer) delete(ctx context.Context, msg queue.Message) {
	if err := c.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		slog.Error("failed to delete message", "error", err)
	}
}
