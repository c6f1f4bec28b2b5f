package services

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/helpers"
)

// CheckStudentService serves the paged per-student progress listing an
// approver uses to check individual standing within a book.
type CheckStudentService struct {
	students    StudentStore
	books       BookStore
	courses     CourseStore
	experiences ExperienceStore
}

// NewCheckStudentService creates a new check-student service
func NewCheckStudentService(students StudentStore, books BookStore, courses CourseStore, experiences ExperienceStore) *CheckStudentService {
	return &CheckStudentService{
		students:    students,
		books:       books,
		courses:     courses,
		experiences: experiences,
	}
}

// List returns progress rows for the book's cohort. Totals always come from
// the whole-curriculum requirement; a numeric progressMode narrows the
// sub-courses to that subject tag. Sorting by percent happens in-process over
// the full cohort because the value is computed, not stored.
func (s *CheckStudentService) List(ctx context.Context, q dto.CheckStudentQuery) ([]dto.StudentProgress, int64, error) {
	if q.BookID <= 0 {
		return nil, 0, apperrors.NewBadRequestError("bookId is required")
	}

	var subjectFilter *string
	if _, err := strconv.Atoi(q.ProgressMode); err == nil {
		subjectFilter = &q.ProgressMode
	}

	subs, err := s.courses.ListSubCoursesByBook(ctx, q.BookID, subjectFilter)
	if err != nil {
		return nil, 0, err
	}
	if len(subs) == 0 {
		return []dto.StudentProgress{}, 0, nil
	}

	totalPerStudent := 0
	for _, sub := range subs {
		totalPerStudent += sub.RequiredFor(models.CountModeOverall)
	}

	prefixes, err := s.books.ListPrefixes(ctx, q.BookID)
	if err != nil {
		return nil, 0, err
	}
	if len(prefixes) == 0 {
		return []dto.StudentProgress{}, 0, nil
	}

	filter := repositories.CohortFilter{Search: q.Search}
	for _, p := range prefixes {
		filter.Prefixes = append(filter.Prefixes, p.Prefix)
	}

	total, err := s.students.CountCohort(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortInProcess := q.SortBy == "percent"
	offset, limit := helpers.CalculateOffsetLimit(q.Page, q.Limit)

	var profiles []*models.StudentProfile
	if sortInProcess {
		profiles, err = s.students.ListCohort(ctx, filter, "", "", 0, 0)
	} else {
		profiles, err = s.students.ListCohort(ctx, filter, q.SortBy, q.Order, offset, limit)
	}
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(profiles))
	for _, profile := range profiles {
		ids = append(ids, profile.ID)
	}
	counts, err := s.experiences.ConfirmedCountsByStudent(ctx, q.BookID, ids)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]dto.StudentProgress, 0, len(profiles))
	for _, profile := range profiles {
		logs := counts[profile.ID]

		done := 0
		for _, sub := range subs {
			required := sub.RequiredFor(models.CountModeOverall)
			if count := logs[sub.Name]; count < required {
				done += count
			} else {
				done += required
			}
		}
		if done > totalPerStudent {
			done = totalPerStudent
		}

		percent := 0
		if totalPerStudent > 0 {
			percent = int(math.Round(float64(done) / float64(totalPerStudent) * 100))
		}

		studentID := "(not specified)"
		if profile.StudentID != nil {
			studentID = *profile.StudentID
		}
		name := ""
		if profile.User != nil {
			name = profile.User.Name
		}

		rows = append(rows, dto.StudentProgress{
			ID:        profile.UserID,
			StudentID: studentID,
			Name:      name,
			Done:      done,
			Total:     totalPerStudent,
			Percent:   percent,
		})
	}

	if sortInProcess {
		asc := q.Order == "asc"
		sort.SliceStable(rows, func(i, j int) bool {
			if asc {
				return rows[i].Percent < rows[j].Percent
			}
			return rows[i].Percent > rows[j].Percent
		})
		start, end := helpers.CalculateSliceIndices(q.Page, limit, len(rows))
		rows = rows[start:end]
	}

	return rows, total, nil
}
