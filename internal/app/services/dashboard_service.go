package services

import (
	"context"
	"math"
	"strings"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
)

// DashboardService computes cohort-wide completion statistics for a book.
// Every call recomputes from the stored confirmed records; there is no cache,
// so two calls with no intervening writes return identical payloads.
type DashboardService struct {
	students    StudentStore
	books       BookStore
	courses     CourseStore
	experiences ExperienceStore
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(students StudentStore, books BookStore, courses CourseStore, experiences ExperienceStore) *DashboardService {
	return &DashboardService{
		students:    students,
		books:       books,
		courses:     courses,
		experiences: experiences,
	}
}

// eligibleStudents resolves the cohort of a book: enabled accounts with a
// student ID matching any of the book's prefixes. No prefixes means an empty
// cohort, not an unrestricted one.
func (s *DashboardService) eligibleStudents(ctx context.Context, bookID int64) ([]*models.StudentProfile, error) {
	prefixes, err := s.books.ListPrefixes(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if len(prefixes) == 0 {
		return nil, nil
	}

	actives, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var cohort []*models.StudentProfile
	for _, profile := range actives {
		if profile.StudentID == nil {
			continue
		}
		for _, p := range prefixes {
			if strings.HasPrefix(*profile.StudentID, p.Prefix) {
				cohort = append(cohort, profile)
				break
			}
		}
	}
	return cohort, nil
}

// experienceMap loads the confirmed counts of the cohort keyed by student
// profile id then sub-course name. Students without records get empty maps so
// every cohort member participates in the ratios.
func (s *DashboardService) experienceMap(ctx context.Context, bookID int64, cohort []*models.StudentProfile) (map[int64]map[string]int, error) {
	ids := make([]int64, 0, len(cohort))
	for _, profile := range cohort {
		ids = append(ids, profile.ID)
	}

	counts, err := s.experiences.ConfirmedCountsByStudent(ctx, bookID, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := counts[id]; !ok {
			counts[id] = map[string]int{}
		}
	}
	return counts, nil
}

func roundPercent(numerator, denominator float64) int {
	return int(math.Round(numerator / denominator * 100))
}

// GetDashboard computes the full dashboard payload for a book under the
// given counting mode.
func (s *DashboardService) GetDashboard(ctx context.Context, bookID int64, mode models.CountMode) (*dto.DashboardData, error) {
	cohort, err := s.eligibleStudents(ctx, bookID)
	if err != nil {
		return nil, err
	}

	totalStudents := len(cohort)
	if totalStudents == 0 {
		return &dto.DashboardData{
			TotalStudents:     0,
			CompletedStudents: 0,
			OverallProgress:   dto.OverallProgress{Required: 0, Done: 0, Percent: 100},
			CourseProgress:    []dto.CourseProgress{},
		}, nil
	}

	courses, err := s.courses.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	studentLogs, err := s.experienceMap(ctx, bookID, cohort)
	if err != nil {
		return nil, err
	}

	courseProgress := make([]dto.CourseProgress, 0, len(courses))
	var allSubCourses []*models.SubCourse

	for _, course := range courses {
		allSubCourses = append(allSubCourses, course.SubCourses...)

		var courseDone, courseRequired int
		subcategories := make([]dto.Subcategory, 0, len(course.SubCourses))

		for _, sub := range course.SubCourses {
			required := sub.RequiredFor(mode)
			if required <= 0 {
				// no requirement means no part in completion accounting
				continue
			}

			var totalDone, doneStudents int
			for _, logs := range studentLogs {
				count := logs[sub.Name]
				if count > required {
					totalDone += required
				} else {
					totalDone += count
				}
				if count >= required {
					doneStudents++
				}
			}

			denominator := required * totalStudents
			courseDone += totalDone
			courseRequired += denominator

			percent := roundPercent(float64(totalDone), float64(denominator))
			if percent > 100 {
				percent = 100
			}

			subcategories = append(subcategories, dto.Subcategory{
				ID:               sub.ID,
				Name:             sub.Name,
				Required:         required,
				TotalDone:        totalDone,
				Percent:          percent,
				StudentCount:     totalStudents,
				DoneStudentCount: doneStudents,
			})
		}

		// courses with nothing to complete are left out of the listing
		if len(subcategories) == 0 {
			continue
		}

		coursePercent := 100
		if courseRequired > 0 {
			coursePercent = roundPercent(float64(courseDone), float64(courseRequired))
			if coursePercent > 100 {
				coursePercent = 100
			}
		}

		doneStudentCount := 0
		for _, logs := range studentLogs {
			if studentMeetsAll(logs, course.SubCourses, mode) {
				doneStudentCount++
			}
		}

		courseProgress = append(courseProgress, dto.CourseProgress{
			ID:               course.ID,
			Name:             course.Name,
			Percent:          coursePercent,
			StudentCount:     totalStudents,
			DoneStudentCount: doneStudentCount,
			Subcategories:    subcategories,
		})
	}

	completedStudents := 0
	var overallDoneSum int
	for _, logs := range studentLogs {
		if studentMeetsAll(logs, allSubCourses, mode) {
			completedStudents++
		}
		for _, sub := range allSubCourses {
			required := sub.RequiredFor(mode)
			if count := logs[sub.Name]; count < required {
				overallDoneSum += count
			} else {
				overallDoneSum += required
			}
		}
	}

	overallRequiredSum := 0
	for _, sub := range allSubCourses {
		overallRequiredSum += sub.RequiredFor(mode)
	}

	overallPercent := 100
	if overallRequiredSum > 0 {
		overallPercent = roundPercent(float64(overallDoneSum), float64(overallRequiredSum*totalStudents))
	}

	return &dto.DashboardData{
		TotalStudents:     totalStudents,
		CompletedStudents: completedStudents,
		OverallProgress: dto.OverallProgress{
			Required: overallRequiredSum,
			Done:     int(math.Round(float64(overallDoneSum) / float64(totalStudents))),
			Percent:  overallPercent,
		},
		CourseProgress: courseProgress,
	}, nil
}

// studentMeetsAll reports whether one student's counts satisfy every given
// sub-course under the mode. Zero-required sub-courses are always satisfied.
func studentMeetsAll(logs map[string]int, subs []*models.SubCourse, mode models.CountMode) bool {
	for _, sub := range subs {
		if logs[sub.Name] < sub.RequiredFor(mode) {
			return false
		}
	}
	return true
}

// CategoryType selects the scope of a per-student category listing.
type CategoryType string

const (
	CategoryCourse      CategoryType = "course"
	CategorySubcategory CategoryType = "subcategory"
)

// StudentsForCategory lists every cohort member's standing against one course
// or one sub-course. A student is completed when their capped total reaches
// the summed requirement of the scope.
func (s *DashboardService) StudentsForCategory(ctx context.Context, bookID, categoryID int64, categoryType CategoryType, mode models.CountMode) ([]dto.CategoryStudent, error) {
	cohort, err := s.eligibleStudents(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if len(cohort) == 0 {
		return []dto.CategoryStudent{}, nil
	}

	studentLogs, err := s.experienceMap(ctx, bookID, cohort)
	if err != nil {
		return nil, err
	}

	type requirement struct {
		name     string
		required int
	}
	var relevant []requirement

	if categoryType == CategoryCourse {
		courses, err := s.courses.ListByBook(ctx, bookID)
		if err != nil {
			return nil, err
		}
		for _, course := range courses {
			if course.ID != categoryID {
				continue
			}
			for _, sub := range course.SubCourses {
				relevant = append(relevant, requirement{sub.Name, sub.RequiredFor(mode)})
			}
			break
		}
	} else {
		sub, err := s.courses.GetSubCourseByID(ctx, categoryID)
		if err != nil {
			return []dto.CategoryStudent{}, nil
		}
		relevant = append(relevant, requirement{sub.Name, sub.RequiredFor(mode)})
	}

	totalRequired := 0
	filtered := relevant[:0]
	for _, r := range relevant {
		if r.required > 0 {
			filtered = append(filtered, r)
			totalRequired += r.required
		}
	}
	relevant = filtered

	result := make([]dto.CategoryStudent, 0, len(cohort))
	for _, profile := range cohort {
		logs := studentLogs[profile.ID]

		completed := 0
		for _, r := range relevant {
			if count := logs[r.name]; count < r.required {
				completed += count
			} else {
				completed += r.required
			}
		}

		status := "incomplete"
		if completed >= totalRequired {
			status = "completed"
		}

		var studentID string
		if profile.StudentID != nil {
			studentID = *profile.StudentID
		}
		name := ""
		if profile.User != nil {
			name = profile.User.Name
		}

		result = append(result, dto.CategoryStudent{
			ID:        studentID,
			Name:      name,
			Completed: completed,
			Total:     totalRequired,
			Status:    status,
		})
	}

	return result, nil
}
