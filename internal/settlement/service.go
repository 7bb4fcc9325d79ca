package settlement

import (
	"context"
	"errors"

	"github.com/okarlsson/paysplit/internal/group"
	"github.com/okarlsson/paysplit/internal/money"
	"github.com/okarlsson/paysplit/internal/notification"
)

// Common errors
var (
	ErrGroupNotFound  = errors.New("group does not exist")
	ErrNotAMember     = errors.New("you are not a member of this group")
	ErrMemberNotFound = errors.New("member does not belong to this group")
	ErrSelfSettlement = errors.New("cannot settle with yourself")
	ErrInvalidAmount  = errors.New("cent amount must be a positive integer")
)

// Service handles settlement business logic
type Service struct {
	repo      *Repository
	groupRepo *group.Repository
	notifier  *notification.Notifier
}

// NewService creates a new settlement service
func NewService(repo *Repository, groupRepo *group.Repository, notifier *notification.Notifier) *Service {
	return &Service{
		repo:      repo,
		groupRepo: groupRepo,
		notifier:  notifier,
	}
}

// Create validates and records a settlement between two members of a
// group. The requester must be a member but need not be either party.
func (s *Service) Create(ctx context.Context, userID string, req *CreateSettlementRequest) (*Settlement, error) {
	if !money.Cents(req.CentAmount).IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.FromMemberID == req.ToMemberID {
		return nil, ErrSelfSettlement
	}

	grp, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if grp == nil {
		return nil, ErrGroupNotFound
	}

	requester, err := s.groupRepo.GetMemberByUserID(ctx, req.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, ErrNotAMember
	}

	from, err := s.groupRepo.GetMemberByID(ctx, req.GroupID, req.FromMemberID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, ErrMemberNotFound
	}

	to, err := s.groupRepo.GetMemberByID(ctx, req.GroupID, req.ToMemberID)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, ErrMemberNotFound
	}

	created, err := s.repo.Create(ctx, &Settlement{
		GroupID:      req.GroupID,
		FromMemberID: from.ID,
		ToMemberID:   to.ID,
		Amount:       money.Cents(req.CentAmount),
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}
	created.FromUserName = from.UserName
	created.ToUserName = to.UserName

	if s.notifier != nil {
		go s.notifier.SettlementRecorded(
			grp.Name,
			created.Amount,
			created.Notes,
			notification.Recipient{Name: from.UserName, Email: from.UserEmail},
			notification.Recipient{Name: to.UserName, Email: to.UserEmail},
		)
	}

	return created, nil
}

// ListByGroup retrieves a group's settlements; the requester must be a member
func (s *Service) ListByGroup(ctx context.Context, groupID, userID string) ([]*Settlement, error) {
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
