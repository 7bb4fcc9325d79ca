package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okarlsson/paysplit/internal/expense/split"
	"github.com/okarlsson/paysplit/internal/group"
	"github.com/okarlsson/paysplit/internal/money"
	"github.com/okarlsson/paysplit/internal/notification"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group does not exist")
	ErrNotAMember          = errors.New("you are not a member of this group")
	ErrInvalidPayer        = errors.New("payer is not a valid member of this group")
	ErrEmptySplit          = errors.New("at least one member must be included in the split")
	ErrInvalidAmount       = errors.New("cent amount must be a positive integer")
	ErrEmptyDescription    = errors.New("description is required")
	ErrBatchAlreadyApplied = errors.New("batch already applied")
)

// InvalidMemberIDsError reports included member ids that do not belong
// to the target group. All offending ids are collected before failing.
type InvalidMemberIDsError struct {
	IDs []string
}

func (e *InvalidMemberIDsError) Error() string {
	return fmt.Sprintf("invalid member ids: %s", strings.Join(e.IDs, ", "))
}

// BatchValidationError is a permanent batch import failure: the stored
// CSV no longer validates against current group membership, so retrying
// can never succeed.
type BatchValidationError struct {
	Reason    string
	RowErrors []RowError
}

func (e *BatchValidationError) Error() string {
	if len(e.RowErrors) > 0 {
		return fmt.Sprintf("%s (%d row errors)", e.Reason, len(e.RowErrors))
	}
	return e.Reason
}

// Service handles expense business logic
type Service struct {
	repo      *Repository
	groupRepo *group.Repository
	notifier  *notification.Notifier
}

// NewService creates a new expense service
func NewService(repo *Repository, groupRepo *group.Repository, notifier *notification.Notifier) *Service {
	return &Service{
		repo:      repo,
		groupRepo: groupRepo,
		notifier:  notifier,
	}
}

// Create validates and records a single expense with its splits.
// Preconditions are checked in a fixed order and no persistence happens
// before all of them pass.
func (s *Service) Create(ctx context.Context, userID string, req *CreateExpenseRequest) (*Expense, error) {
	if !money.Cents(req.CentAmount).IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}

	grp, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if grp == nil {
		return nil, ErrGroupNotFound
	}

	creator, err := s.groupRepo.GetMemberByUserID(ctx, req.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, ErrNotAMember
	}

	// The requester pays unless a payer is named. The payer does not
	// need to be among the split participants.
	payerID := creator.ID
	if req.PaidByMemberID != "" {
		payer, err := s.groupRepo.GetMemberByID(ctx, req.GroupID, req.PaidByMemberID)
		if err != nil {
			return nil, err
		}
		if payer == nil {
			return nil, ErrInvalidPayer
		}
		payerID = payer.ID
	}

	allMembers, err := s.groupRepo.ListMembers(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	participants, splitType, err := selectParticipants(allMembers, req.IncludedMemberIDs)
	if err != nil {
		return nil, err
	}

	e := buildExpense(req.GroupID, creator.ID, payerID, req.Description, money.Cents(req.CentAmount), splitType, participants)

	created, err := s.repo.CreateWithSplits(ctx, e)
	if err != nil {
		return nil, err
	}

	// Notification is fire-and-forget: a delivery failure never rolls
	// back or fails the recorded expense.
	go s.notifyExpense(grp.Name, created, allMembers, payerID, participants)

	return created, nil
}

// ListByGroup retrieves a group's expenses; the requester must be a member
func (s *Service) ListByGroup(ctx context.Context, groupID, userID string) ([]*Expense, error) {
	grp, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if grp == nil {
		return nil, ErrGroupNotFound
	}

	membership, err := s.groupRepo.GetMemberByUserID(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotAMember
	}

	return s.repo.ListByGroup(ctx, groupID)
}

// CreateBatch applies a stored CSV upload as one atomic batch. It is the
// worker-side half of the import pipeline: the CSV is re-validated
// against current membership, every row is allocated, and all expenses
// commit in a single transaction keyed by the storage key.
//
// A *BatchValidationError means the message can never succeed and must
// not be retried; ErrBatchAlreadyApplied means a previous delivery
// already committed this batch.
func (s *Service) CreateBatch(ctx context.Context, groupID, userID, storageKey, csvContent string) (int, error) {
	grp, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if grp == nil {
		return 0, &BatchValidationError{Reason: "group does not exist"}
	}

	requester, err := s.groupRepo.GetMemberByUserID(ctx, groupID, userID)
	if err != nil {
		return 0, err
	}
	if requester == nil {
		return 0, &BatchValidationError{Reason: "uploader is not a member of this group"}
	}

	allMembers, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return 0, err
	}
	validIDs := make(map[string]bool, len(allMembers))
	for _, m := range allMembers {
		validIDs[m.ID] = true
	}

	result := ParseCSV(csvContent, validIDs)
	if len(result.Errors) > 0 {
		return 0, &BatchValidationError{Reason: "CSV validation failed", RowErrors: result.Errors}
	}

	batch := make([]*Expense, 0, len(result.Expenses))
	for _, row := range result.Expenses {
		payerID := requester.ID
		if row.PaidByMemberID != "" {
			payerID = row.PaidByMemberID
		}

		participants, splitType, err := selectParticipants(allMembers, row.IncludedMemberIDs)
		if err != nil {
			// Membership was validated row by row above, so this only
			// fires if the group emptied out since ListMembers.
			return 0, &BatchValidationError{Reason: err.Error()}
		}

		batch = append(batch, buildExpense(groupID, requester.ID, payerID, row.Description, row.CentAmount, splitType, participants))
	}

	return s.repo.CreateBatch(ctx, storageKey, groupID, batch)
}

// selectParticipants determines the split participants and type. With no
// included ids, every member participates (EQUAL_ALL). Otherwise the ids
// are de-duplicated, validated against the member set, and the member
// list is filtered down to them preserving joined_at order; the type is
// PARTIAL unless the included set covers the whole group.
func selectParticipants(allMembers []*group.Member, includedIDs []string) ([]*group.Member, SplitType, error) {
	if len(allMembers) == 0 {
		return nil, "", ErrEmptySplit
	}
	if len(includedIDs) == 0 {
		return allMembers, SplitTypeEqualAll, nil
	}

	memberByID := make(map[string]bool, len(allMembers))
	for _, m := range allMembers {
		memberByID[m.ID] = true
	}

	included := make(map[string]bool, len(includedIDs))
	var invalid []string
	for _, id := range includedIDs {
		if included[id] {
			continue
		}
		included[id] = true
		if !memberByID[id] {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return nil, "", &InvalidMemberIDsError{IDs: invalid}
	}

	participants := make([]*group.Member, 0, len(included))
	for _, m := range allMembers {
		if included[m.ID] {
			participants = append(participants, m)
		}
	}
	if len(participants) == 0 {
		return nil, "", ErrEmptySplit
	}

	splitType := SplitTypePartial
	if len(participants) == len(allMembers) {
		splitType = SplitTypeEqualAll
	}
	return participants, splitType, nil
}

// buildExpense assembles an expense with allocated splits, ready to persist.
func buildExpense(groupID, createdBy, paidBy, description string, amount money.Cents, splitType SplitType, participants []*group.Member) *Expense {
	memberIDs := make([]string, len(participants))
	for i, m := range participants {
		memberIDs[i] = m.ID
	}

	shares := split.Allocate(amount, memberIDs)
	splits := make([]*Split, len(shares))
	for i, share := range shares {
		splits[i] = &Split{GroupMemberID: share.MemberID, Amount: share.Amount}
	}

	return &Expense{
		GroupID:     groupID,
		CreatedBy:   createdBy,
		PaidBy:      paidBy,
		Description: strings.TrimSpace(description),
		Amount:      amount,
		SplitType:   splitType,
		Splits:      splits,
	}
}

func (s *Service) notifyExpense(groupName string, e *Expense, allMembers []*group.Member, payerID string, participants []*group.Member) {
	if s.notifier == nil {
		return
	}

	var payer notification.Recipient
	for _, m := range allMembers {
		if m.ID == payerID {
			payer = notification.Recipient{Name: m.UserName, Email: m.UserEmail}
			break
		}
	}

	recipients := make([]notification.Recipient, 0, len(participants))
	for _, m := range participants {
		recipients = append(recipients, notification.Recipient{Name: m.UserName, Email: m.UserEmail})
	}

	s.notifier.ExpenseCreated(groupName, e.Description, e.Amount, payer, recipients)
}
