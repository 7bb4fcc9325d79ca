package group

import (
	"context"
	"errors"
	"strings"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group does not exist")
	ErrNotAMember    = errors.New("you are not a member of this group")
	ErrAlreadyMember = errors.New("you are already a member of this group")
	ErrNotCreator    = errors.New("only the group creator can delete the group")
	ErrNameRequired  = errors.New("group name is required")
)

// Service handles group business logic
type Service struct {
	repo *Repository
}

// NewService creates a new group service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new group with the creator as its first member
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateGroupRequest) (*Group, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	return s.repo.Create(ctx, strings.TrimSpace(req.Name), creatorID)
}

// ListMine retrieves all groups the user has joined
func (s *Service) ListMine(ctx context.Context, userID string) ([]*Group, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Join adds the user to a group
func (s *Service) Join(ctx context.Context, groupID, userID string) (*Member, error) {
	grp, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if grp == nil {
		return nil, ErrGroupNotFound
	}

	existing, err := s.repo.GetMemberByUserID(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	// A concurrent join between the check and the insert is caught by
	// the unique constraint inside AddMember.
	return s.repo.AddMember(ctx, groupID, userID)
}

// Leave removes the user's membership from a group
func (s *Service) Leave(ctx context.Context, groupID, userID string) error {
	grp, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if grp == nil {
		return ErrGroupNotFound
	}
	return s.repo.RemoveMember(ctx, groupID, userID)
}

// Members retrieves all members of a group; the requester must belong to it
func (s *Service) Members(ctx context.Context, groupID, userID string) ([]*Member, error) {
	grp, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if grp == nil {
		return nil, ErrGroupNotFound
	}

	membership, err := s.repo.GetMemberByUserID(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotAMember
	}

	return s.repo.ListMembers(ctx, groupID)
}

// Delete soft-deletes a group; only its creator may do so
func (s *Service) Delete(ctx context.Context, groupID, userID string) error {
	grp, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if grp == nil {
		return ErrGroupNotFound
	}
	if grp.CreatedBy != userID {
		return ErrNotCreator
	}
	return s.repo.SoftDelete(ctx, groupID)
}
