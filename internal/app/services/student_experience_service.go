package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/helpers"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/logger"
)

// Thresholds for the student-initiated confirm-by-approver flow.
const (
	byApproverPinMaxFail  = 3
	byApproverPinCooldown = 30 * time.Minute
)

// StudentExperienceService manages the lifecycle of a student's own logged
// experiences: creation, edits while pending, cancellation, deletion and the
// confirm flows that run from the student's page.
type StudentExperienceService struct {
	students    StudentStore
	approvers   ApproverStore
	books       BookStore
	courses     CourseStore
	experiences ExperienceStore
	settings    SettingStore
	guard       PinGuard
}

// NewStudentExperienceService creates a new student experience service
func NewStudentExperienceService(students StudentStore, approvers ApproverStore, books BookStore,
	courses CourseStore, experiences ExperienceStore, settings SettingStore) *StudentExperienceService {
	return &StudentExperienceService{
		students:    students,
		approvers:   approvers,
		books:       books,
		courses:     courses,
		experiences: experiences,
		settings:    settings,
		guard:       NewPinGuard(byApproverPinMaxFail, byApproverPinCooldown),
	}
}

func (s *StudentExperienceService) studentFor(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	profile, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *StudentExperienceService) approverByName(ctx context.Context, name string) (*models.ApproverProfile, error) {
	approver, err := s.approvers.GetByDisplayName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrApproverNotFound) {
			return nil, apperrors.ErrApproverNotFound
		}
		return nil, err
	}
	return approver, nil
}

// ownedExperience loads a non-deleted experience and checks it belongs to the
// given student profile.
func (s *StudentExperienceService) ownedExperience(ctx context.Context, profileID int64, experienceID string) (*models.StudentExperience, error) {
	exp, err := s.experiences.GetByID(ctx, experienceID)
	if err != nil {
		if errors.Is(err, repositories.ErrExperienceNotFound) {
			return nil, apperrors.ErrExperienceNotFound
		}
		return nil, err
	}
	if exp.IsDeleted {
		return nil, apperrors.ErrExperienceNotFound
	}
	if exp.StudentID != profileID {
		return nil, apperrors.NewForbiddenError("experience belongs to another student")
	}
	return exp, nil
}

// Create records a new PENDING experience for the acting student
func (s *StudentExperienceService) Create(ctx context.Context, studentUserID int64, req *dto.CreateExperienceRequest) (*models.StudentExperience, error) {
	setting, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !setting.IsExperienceCountingEnabled {
		return nil, apperrors.NewForbiddenError("experience recording is currently disabled")
	}

	profile, err := s.studentFor(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.books.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, repositories.ErrBookNotFound) {
			return nil, apperrors.ErrBookNotFound
		}
		return nil, err
	}

	sub, err := s.courses.GetSubCourseByID(ctx, req.SubCourseID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubCourseNotFound) {
			return nil, apperrors.ErrSubCourseNotFound
		}
		return nil, err
	}
	course, err := s.courses.GetCourseByID(ctx, sub.CourseID)
	if err != nil {
		return nil, err
	}
	if course.BookID != req.BookID {
		return nil, apperrors.NewBadRequestError("sub-course does not belong to the given book")
	}

	role := models.Role(req.ApproverRole)
	if !role.IsApprover() {
		return nil, apperrors.NewBadRequestError("approverRole must be APPROVER_IN or APPROVER_OUT")
	}
	if _, err := s.approverByName(ctx, req.ApproverName); err != nil {
		return nil, err
	}

	subject := req.Subject
	if subject == nil && !sub.IsSubjectFreeform {
		subject = sub.Subject
	}

	exp := &models.StudentExperience{
		ID:            uuid.NewString(),
		BookID:        req.BookID,
		StudentID:     profile.ID,
		CourseID:      course.ID,
		SubCourseID:   sub.ID,
		SubCourseName: sub.Name,
		Subject:       subject,
		ApproverRole:  role,
		ApproverName:  req.ApproverName,
		Status:        models.StatusPending,
	}
	for _, fv := range req.FieldValues {
		exp.FieldValues = append(exp.FieldValues, &models.FieldValue{FieldID: fv.FieldID, Value: fv.Value})
	}

	if err := s.experiences.Create(ctx, exp); err != nil {
		return nil, err
	}

	logger.Info().
		Str("experienceId", exp.ID).
		Int64("studentProfileId", profile.ID).
		Str("subCourse", exp.SubCourseName).
		Msg("Experience recorded")
	return exp, nil
}

// ListOwn returns the acting student's non-deleted records
func (s *StudentExperienceService) ListOwn(ctx context.Context, studentUserID int64, q dto.ExperienceListQuery) ([]*models.StudentExperience, int64, error) {
	profile, err := s.studentFor(ctx, studentUserID)
	if err != nil {
		return nil, 0, err
	}

	filter := repositories.StudentListFilter{BookID: q.BookID, Search: q.Search}
	switch q.Status {
	case "", "ALL":
	case string(models.StatusPending), string(models.StatusConfirmed), string(models.StatusCancel):
		status := models.ExperienceStatus(q.Status)
		filter.Status = &status
	default:
		return nil, 0, apperrors.NewBadRequestError("status must be ALL, PENDING, CONFIRMED or CANCEL")
	}

	offset, limit := helpers.CalculateOffsetLimit(q.Page, q.Limit)
	exps, total, err := s.experiences.ListForStudent(ctx, profile.ID, filter, q.SortBy, q.Order, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.experiences.LoadFieldValues(ctx, exps); err != nil {
		return nil, 0, err
	}
	return exps, total, nil
}

// CancelOwn cancels the student's own PENDING record
func (s *StudentExperienceService) CancelOwn(ctx context.Context, studentUserID int64, experienceID string) error {
	profile, err := s.studentFor(ctx, studentUserID)
	if err != nil {
		return err
	}

	exp, err := s.ownedExperience(ctx, profile.ID, experienceID)
	if err != nil {
		return err
	}
	if exp.Status != models.StatusPending {
		return apperrors.NewBadRequestError("only pending experiences can be cancelled")
	}

	return s.experiences.UpdateStatus(ctx, experienceID, models.StatusCancel)
}

// UpdateOwn edits the student's own PENDING record. Field values are replaced
// wholesale when present in the request.
func (s *StudentExperienceService) UpdateOwn(ctx context.Context, studentUserID int64, experienceID string, req *dto.UpdateExperienceRequest) error {
	profile, err := s.studentFor(ctx, studentUserID)
	if err != nil {
		return err
	}

	exp, err := s.ownedExperience(ctx, profile.ID, experienceID)
	if err != nil {
		return err
	}
	if exp.Status != models.StatusPending {
		return apperrors.NewBadRequestError("only pending experiences can be edited")
	}

	if req.ApproverName != nil {
		if _, err := s.approverByName(ctx, *req.ApproverName); err != nil {
			return err
		}
	}

	var newValues []*models.FieldValue
	if req.FieldValues != nil {
		newValues = make([]*models.FieldValue, 0, len(req.FieldValues))
		for _, fv := range req.FieldValues {
			newValues = append(newValues, &models.FieldValue{FieldID: fv.FieldID, Value: fv.Value})
		}
	}

	return s.experiences.ReplaceOwnContent(ctx, experienceID, req.ApproverName, newValues)
}

// DeleteOwn soft-deletes the student's own record. Confirmed records stay.
func (s *StudentExperienceService) DeleteOwn(ctx context.Context, studentUserID int64, experienceID string) error {
	profile, err := s.studentFor(ctx, studentUserID)
	if err != nil {
		return err
	}

	exp, err := s.ownedExperience(ctx, profile.ID, experienceID)
	if err != nil {
		return err
	}
	if exp.Status == models.StatusConfirmed {
		return apperrors.NewForbiddenError("confirmed experiences cannot be deleted")
	}

	return s.experiences.SetDeleted(ctx, experienceID)
}

// AdminDelete removes a record permanently regardless of its state
func (s *StudentExperienceService) AdminDelete(ctx context.Context, experienceID string) error {
	err := s.experiences.Delete(ctx, experienceID)
	if errors.Is(err, repositories.ErrExperienceNotFound) {
		return apperrors.ErrExperienceNotFound
	}
	return err
}

// resolveDirect flips a PENDING record after a plain equality check against
// the acting approver's own PIN. This path carries no failure counter.
func (s *StudentExperienceService) resolveDirect(ctx context.Context, actingUserID int64, experienceID, pin string, status models.ExperienceStatus) error {
	approver, err := s.approvers.GetByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrApproverNotFound) {
			return apperrors.NewForbiddenError("only approvers can resolve experiences")
		}
		return err
	}
	if pin != approver.Pin {
		return apperrors.NewBadRequestError("Invalid PIN")
	}

	exp, err := s.experiences.GetByID(ctx, experienceID)
	if err != nil {
		if errors.Is(err, repositories.ErrExperienceNotFound) {
			return apperrors.ErrExperienceNotFound
		}
		return err
	}
	if exp.IsDeleted {
		return apperrors.ErrExperienceNotFound
	}
	if exp.Status != models.StatusPending {
		return apperrors.NewResourceNotFoundError("experience is no longer pending")
	}

	return s.experiences.UpdateStatus(ctx, experienceID, status)
}

// Confirm confirms a record via the direct PIN path
func (s *StudentExperienceService) Confirm(ctx context.Context, actingUserID int64, experienceID, pin string) error {
	return s.resolveDirect(ctx, actingUserID, experienceID, pin, models.StatusConfirmed)
}

// Reject rejects a record via the direct PIN path
func (s *StudentExperienceService) Reject(ctx context.Context, actingUserID int64, experienceID, pin string) error {
	return s.resolveDirect(ctx, actingUserID, experienceID, pin, models.StatusCancel)
}

// ConfirmByApprover confirms the student's own record from the student page.
// The named approver enters their PIN there; this path runs the full guard.
func (s *StudentExperienceService) ConfirmByApprover(ctx context.Context, studentUserID int64, experienceID string, req *dto.ConfirmByApproverRequest) error {
	profile, err := s.studentFor(ctx, studentUserID)
	if err != nil {
		return err
	}

	exp, err := s.ownedExperience(ctx, profile.ID, experienceID)
	if err != nil {
		return err
	}
	if exp.ApproverName != req.ApproverName {
		return apperrors.NewBadRequestError("experience is not addressed to this approver")
	}
	if exp.Status != models.StatusPending {
		return apperrors.NewBadRequestError("experience is no longer pending")
	}

	approver, err := s.approverByName(ctx, req.ApproverName)
	if err != nil {
		return err
	}
	if err := s.guard.Validate(ctx, s.approvers, approver, req.Pin); err != nil {
		return err
	}

	return s.experiences.UpdateStatus(ctx, experienceID, models.StatusConfirmed)
}

// ConfirmBulkByApprover confirms a batch of the student's own records after
// one guarded PIN check. Records that are missing, processed or addressed to
// a different approver are skipped; the affected count is returned.
func (s *StudentExperienceService) ConfirmBulkByApprover(ctx context.Context, studentUserID int64, req *dto.ConfirmBulkByApproverRequest) (int64, error) {
	profile, err := s.studentFor(ctx, studentUserID)
	if err != nil {
		return 0, err
	}

	approver, err := s.approverByName(ctx, req.ApproverName)
	if err != nil {
		return 0, err
	}
	if err := s.guard.Validate(ctx, s.approvers, approver, req.Pin); err != nil {
		return 0, err
	}

	eligible := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		exp, err := s.experiences.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrExperienceNotFound) {
				continue
			}
			return 0, err
		}
		if exp.IsDeleted || exp.StudentID != profile.ID {
			continue
		}
		eligible = append(eligible, id)
	}

	return s.experiences.UpdateStatusOwned(ctx, eligible, req.ApproverName, models.StatusConfirmed)
}
