package services

import (
	"context"
	"errors"
	"time"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/helpers"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/logger"
)

// Thresholds for the approver-request flow.
const (
	requestsPinMaxFail  = 5
	requestsPinCooldown = time.Hour
)

// RequestsService serves the approver's request queue: listing pending and
// processed records and confirming or rejecting them behind the PIN guard.
type RequestsService struct {
	approvers   ApproverStore
	experiences ExperienceStore
	guard       PinGuard
}

// NewRequestsService creates a new requests service
func NewRequestsService(approvers ApproverStore, experiences ExperienceStore) *RequestsService {
	return &RequestsService{
		approvers:   approvers,
		experiences: experiences,
		guard:       NewPinGuard(requestsPinMaxFail, requestsPinCooldown),
	}
}

func (s *RequestsService) profileFor(ctx context.Context, approverUserID int64) (*models.ApproverProfile, error) {
	profile, err := s.approvers.GetByUserID(ctx, approverUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrApproverNotFound) {
			return nil, apperrors.ErrApproverNotFound
		}
		return nil, err
	}
	return profile, nil
}

// ListPending returns the PENDING queue addressed to the acting approver
func (s *RequestsService) ListPending(ctx context.Context, approverUserID int64, q dto.PendingListQuery) ([]*models.StudentExperience, int64, error) {
	profile, err := s.profileFor(ctx, approverUserID)
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(q.Page, q.Limit)
	exps, total, err := s.experiences.ListPending(ctx, profile.User.Name, q.Search, q.SortBy, q.Order, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.experiences.LoadFieldValues(ctx, exps); err != nil {
		return nil, 0, err
	}
	return exps, total, nil
}

// ListLogs returns the processed records the acting approver has handled
func (s *RequestsService) ListLogs(ctx context.Context, approverUserID int64, q dto.LogListQuery) ([]*models.StudentExperience, int64, error) {
	profile, err := s.profileFor(ctx, approverUserID)
	if err != nil {
		return nil, 0, err
	}

	filter := repositories.LogFilter{
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Search:    q.Search,
	}
	switch q.Status {
	case "confirmed":
		status := models.StatusConfirmed
		filter.Status = &status
	case "cancel":
		status := models.StatusCancel
		filter.Status = &status
	}

	offset, limit := helpers.CalculateOffsetLimit(q.Page, q.Limit)
	exps, total, err := s.experiences.ListLogs(ctx, profile.User.Name, filter, q.SortBy, q.Order, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.experiences.LoadFieldValues(ctx, exps); err != nil {
		return nil, 0, err
	}
	return exps, total, nil
}

func (s *RequestsService) resolveOne(ctx context.Context, approverUserID int64, experienceID, pin string, status models.ExperienceStatus) error {
	profile, err := s.profileFor(ctx, approverUserID)
	if err != nil {
		return err
	}

	if err := s.guard.Validate(ctx, s.approvers, profile, pin); err != nil {
		return err
	}

	affected, err := s.experiences.UpdateStatusOwned(ctx, []string{experienceID}, profile.User.Name, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewResourceNotFoundError("pending experience not found for this approver")
	}

	logger.Info().
		Str("experienceId", experienceID).
		Str("status", string(status)).
		Int64("approverUserId", approverUserID).
		Msg("Experience request resolved")
	return nil
}

// ConfirmOne confirms a single pending record after PIN validation
func (s *RequestsService) ConfirmOne(ctx context.Context, approverUserID int64, experienceID, pin string) error {
	return s.resolveOne(ctx, approverUserID, experienceID, pin, models.StatusConfirmed)
}

// RejectOne rejects a single pending record after PIN validation
func (s *RequestsService) RejectOne(ctx context.Context, approverUserID int64, experienceID, pin string) error {
	return s.resolveOne(ctx, approverUserID, experienceID, pin, models.StatusCancel)
}

func (s *RequestsService) resolveBulk(ctx context.Context, approverUserID int64, ids []string, pin string, status models.ExperienceStatus) (int64, error) {
	profile, err := s.profileFor(ctx, approverUserID)
	if err != nil {
		return 0, err
	}

	// One PIN check covers the whole batch. Ids that are missing, already
	// processed or addressed to another approver are skipped silently.
	if err := s.guard.Validate(ctx, s.approvers, profile, pin); err != nil {
		return 0, err
	}

	affected, err := s.experiences.UpdateStatusOwned(ctx, ids, profile.User.Name, status)
	if err != nil {
		return 0, err
	}

	logger.Info().
		Int("requested", len(ids)).
		Int64("affected", affected).
		Str("status", string(status)).
		Int64("approverUserId", approverUserID).
		Msg("Bulk experience requests resolved")
	return affected, nil
}

// ConfirmBulk confirms a batch of pending records after one PIN validation.
// The affected count may be smaller than the batch; zero is not an error.
func (s *RequestsService) ConfirmBulk(ctx context.Context, approverUserID int64, ids []string, pin string) (int64, error) {
	return s.resolveBulk(ctx, approverUserID, ids, pin, models.StatusConfirmed)
}

// RejectBulk rejects a batch of pending records after one PIN validation
func (s *RequestsService) RejectBulk(ctx context.Context, approverUserID int64, ids []string, pin string) (int64, error) {
	return s.resolveBulk(ctx, approverUserID, ids, pin, models.StatusCancel)
}
