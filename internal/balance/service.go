package balance

import (
	"context"
	"errors"

	"github.com/okarlsson/paysplit/internal/group"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group does not exist")
	ErrNotAMember    = errors.New("you are not a member of this group")
)

// Service handles balance and settlement-suggestion queries
type Service struct {
	repo      *Repository
	groupRepo *group.Repository
}

// NewService creates a new balance service
func NewService(repo *Repository, groupRepo *group.Repository) *Service {
	return &Service{repo: repo, groupRepo: groupRepo}
}

// GetGroupBalances computes the balance sheet for a group. The requester
// must be a member. Members without any activity appear with all-zero
// amounts.
func (s *Service) GetGroupBalances(ctx context.Context, groupID, userID string) (*BalanceResponse, error) {
	grp, members, err := s.authorize(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	totals, totalExpenses, totalSettled, err := s.repo.Totals(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		GroupID:       grp.ID,
		GroupName:     grp.Name,
		Balances:      Compute(members, totals),
		TotalExpenses: totalExpenses,
		TotalSettled:  totalSettled,
	}, nil
}

// SuggestSettlements proposes payments that would bring every member's
// net balance to zero.
func (s *Service) SuggestSettlements(ctx context.Context, groupID, userID string) ([]*SettlementSuggestion, error) {
	_, members, err := s.authorize(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	totals, _, _, err := s.repo.Totals(ctx, groupID)
	if err != nil {
		return nil, err
	}

	suggestions := Suggest(Compute(members, totals))
	if suggestions == nil {
		suggestions = []*SettlementSuggestion{}
	}
	return suggestions, nil
}

func (s *Service) authorize(ctx context.Context, groupID, userID string) (*group.Group, []*group.Member, error) {
	grp, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if grp == nil {
		return nil, nil, ErrGroupNotFound
	}

	membership, err := s.groupRepo.GetMemberByUserID(ctx, groupID, userID)
	if err != nil {
		return nil, nil, err
	}
	if membership == nil {
		return nil, nil, ErrNotAMember
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return grp, members, nil
}
