package expense

import (
	"context"
	"errors"
	"testing"

	"github.com/okarlsson/paysplit/internal/platform/queue"
)

type fakeQueue struct {
	sent    []string
	deleted []string
}

func (q *fakeQueue) Send(_ context.Context, body string) error { q.sent = append(q.sent, body); return nil }

func (q *fakeQueue) Receive(_ context.Context, _, _ int32) ([]queue.Message, error) {
	return nil, nil
}

func (q *fakeQueue) Delete(_ context.Context, receiptHandle string) error {
	q.deleted = append(q.deleted, receiptHandle)
	return nil
}

type fakeStore struct {
	objects map[string][]byte
	getErr  error
}

func (s *fakeStore) Put(_ context.Context, key string, body []byte, _ string) error {
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = body
	return nil
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	body, ok := s.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return body, nil
}

type fakeApplier struct {
	count int
	err   error

	gotGroupID    string
	gotUserID     string
	gotStorageKey string
	gotContent    string
	calls         int
}

func (a *fakeApplier) CreateBatch(_ context.Context, groupID, userID, storageKey, csvContent string) (int, error) {
	a.calls++
	a.gotGroupID = groupID
	a.gotUserID = userID
	a.gotStorageKey = storageKey
	a.gotContent = csvContent
	return a.count, a.err
}

const uploadBody = `{"storageKey":"expenses/g1/1-batch.csv","groupId":"g1","userId":"u1"}`

func uploadFixture() (*fakeQueue, *fakeStore, queue.Message) {
	q := &fakeQueue{}
	store := &fakeStore{objects: map[string][]byte{
		"expenses/g1/1-batch.csv": []byte("description,centAmount,paidByMemberId,includedMemberIds\nDinner,100,,\n"),
	}}
	return q, store, queue.Message{Body: uploadBody, ReceiptHandle: "rh-1"}
}

func TestConsumerCommitsAndDeletes(t *testing.T) {
	q, store, msg := uploadFixture()
	applier := &fakeApplier{count: 1}
	c := NewConsumer(q, store, applier, 10, 20)

	c.processMessage(context.Background(), msg)

	if applier.calls != 1 {
		t.Fatalf("CreateBatch calls = %d, want 1", applier.calls)
	}
	if applier.gotGroupID != "g1" || applier.gotUserID != "u1" || applier.gotStorageKey != "expenses/g1/1-batch.csv" {
		t.Errorf("CreateBatch args = (%q, %q, %q)", applier.gotGroupID, applier.gotUserID, applier.gotStorageKey)
	}
	if len(q.deleted) != 1 || q.deleted[0] != "rh-1" {
		t.Errorf("deleted = %v, want [rh-1]", q.deleted)
	}
}

func TestConsumerDropsDuplicateDelivery(t *testing.T) {
	q, store, msg := uploadFixture()
	applier := &fakeApplier{err: ErrBatchAlreadyApplied}
	c := NewConsumer(q, store, applier, 10, 20)

	c.processMessage(context.Background(), msg)

	if len(q.deleted) != 1 {
		t.Errorf("duplicate delivery should be deleted, deleted = %v", q.deleted)
	}
}

func TestConsumerDropsPermanentFailure(t *testing.T) {
	q, store, msg := uploadFixture()
	applier := &fakeApplier{err: &BatchValidationError{
		Reason:    "CSV validation failed",
		RowErrors: []RowError{{Row: 2, Field: "centAmount", Message: "Must be a positive integer"}},
	}}
	c := NewConsumer(q, store, applier, 10, 20)

	c.processMessage(context.Background(), msg)

	if len(q.deleted) != 1 {
		t.Errorf("permanently failed message should be deleted, deleted = %v", q.deleted)
	}
}

func TestConsumerKeepsMessageOnRetryableFailure(t *testing.T) {
	q, store, msg := uploadFixture()
	applier := &fakeApplier{err: errors.New("connection refused")}
	c := NewConsumer(q, store, applier, 10, 20)

	c.processMessage(context.Background(), msg)

	if len(q.deleted) != 0 {
		t.Errorf("retryable failure must keep the message, deleted = %v", q.deleted)
	}
}

func TestConsumerKeepsMessageWhenBlobFetchFails(t *testing.T) {
	q, store, msg := uploadFixture()
	store.getErr = errors.New("service unavailable")
	applier := &fakeApplier{}
	c := NewConsumer(q, store, applier, 10, 20)

	c.processMessage(context.Background(), msg)

	if applier.calls != 0 {
		t.Errorf("CreateBatch should not run without the stored file, calls = %d", applier.calls)
	}
	if len(q.deleted) != 0 {
		t.Errorf("fetch failure must keep the message, deleted = %v", q.deleted)
	}
}

func TestConsumerDiscardsMalformedMessage(t *testing.T) {
	q, store, _ := uploadFixture()
	applier := &fakeApplier{}
	c := NewConsumer(q, store, applier, 10, 20)

	c.processMessage(context.Background(), queue.Message{Body: "{not json", ReceiptHandle: "rh-bad"})

	if applier.calls != 0 {
		t.Errorf("CreateBatch should not run for malformed messages, calls = %d", applier.calls)
	}
	if len(q.deleted) != 1 || q.deleted[0] != "rh-bad" {
		t.Errorf("malformed message should be deleted, deleted = %v", q.deleted)
	}
}
