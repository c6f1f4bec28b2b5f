package services

import (
	"context"
	"errors"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
)

// ApproverService serves the approver directory students pick approvers from
type ApproverService struct {
	approvers ApproverStore
}

// NewApproverService creates a new approver service
func NewApproverService(approvers ApproverStore) *ApproverService {
	return &ApproverService{approvers: approvers}
}

// ListByRole returns the directory entries for one approver role
func (s *ApproverService) ListByRole(ctx context.Context, role models.Role) ([]dto.ApproverEntry, error) {
	if !role.IsApprover() {
		return nil, apperrors.NewBadRequestError("role must be APPROVER_IN or APPROVER_OUT")
	}

	profiles, err := s.approvers.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.ApproverEntry, 0, len(profiles))
	for _, profile := range profiles {
		if profile.User == nil || profile.User.Status != models.UserStatusEnable {
			continue
		}
		entries = append(entries, dto.ApproverEntry{
			ID:           profile.UserID,
			ApproverName: profile.User.Name,
		})
	}
	return entries, nil
}

// GetOwnProfile returns the acting approver's profile. The PIN itself is
// never serialized; only the lockout state is visible.
func (s *ApproverService) GetOwnProfile(ctx context.Context, userID int64) (*models.ApproverProfile, error) {
	profile, err := s.approvers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrApproverNotFound) {
			return nil, apperrors.ErrApproverNotFound
		}
		return nil, err
	}
	return profile, nil
}
