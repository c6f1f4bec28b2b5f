package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
)

type dashboardFixture struct {
	svc      *DashboardService
	students *mockStudentStore
	books    *mockBookStore
	courses  *mockCourseStore
	exps     *mockExperienceStore
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		students: newMockStudentStore(),
		books:    newMockBookStore(),
		courses:  newMockCourseStore(),
		exps:     newMockExperienceStore(),
	}
	f.svc = NewDashboardService(f.students, f.books, f.courses, f.exps)
	f.books.addBook(1, "Clinical Book")
	return f
}

func (f *dashboardFixture) logConfirmed(studentProfileID int64, subCourseName string, n int) {
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("exp-%d-%s-%d", studentProfileID, subCourseName, i)
		f.exps.add(id, 1, studentProfileID, subCourseName, "Dr. A", models.StatusConfirmed)
	}
}

func TestDashboard_CappedSumsAndRounding(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	f.students.add(2, 102, "64002", "Student B", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 3, 0, nil)

	f.logConfirmed(1, "Injection", 4) // over-logged, caps at 3
	f.logConfirmed(2, "Injection", 2)

	data, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)

	assert.Equal(t, 2, data.TotalStudents)
	assert.Equal(t, 1, data.CompletedStudents)

	require.Len(t, data.CourseProgress, 1)
	cp := data.CourseProgress[0]
	assert.Equal(t, 83, cp.Percent)
	assert.Equal(t, 1, cp.DoneStudentCount)

	require.Len(t, cp.Subcategories, 1)
	sub := cp.Subcategories[0]
	assert.Equal(t, 3, sub.Required)
	assert.Equal(t, 5, sub.TotalDone) // min(4,3) + min(2,3)
	assert.Equal(t, 83, sub.Percent)
	assert.Equal(t, 1, sub.DoneStudentCount)
	assert.Equal(t, 2, sub.StudentCount)

	assert.Equal(t, 3, data.OverallProgress.Required)
	assert.Equal(t, 3, data.OverallProgress.Done) // round(5/2)
	assert.Equal(t, 83, data.OverallProgress.Percent)
}

func TestDashboard_EmptyCohortShortCircuits(t *testing.T) {
	f := newDashboardFixture()
	// students exist but the book carries no prefixes
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)

	data, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)

	assert.Equal(t, 0, data.TotalStudents)
	assert.Equal(t, 0, data.CompletedStudents)
	assert.Equal(t, 0, data.OverallProgress.Required)
	assert.Equal(t, 0, data.OverallProgress.Done)
	assert.Equal(t, 100, data.OverallProgress.Percent)
	assert.Empty(t, data.CourseProgress)
}

func TestDashboard_EligibilityByPrefix(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "In Cohort", models.UserStatusEnable)
	f.students.add(2, 102, "65001", "Other Year", models.UserStatusEnable)
	f.students.add(3, 103, "64002", "Disabled", models.UserStatusDisable)
	f.students.add(4, 104, "", "No Student ID", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 1, 0, nil)

	data, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)
	assert.Equal(t, 1, data.TotalStudents)
}

func TestDashboard_ZeroRequiredExcluded(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Optional Skills")
	f.courses.addSub(1, course, "Observation", 0, 0, nil)
	f.logConfirmed(1, "Observation", 10)

	data, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)

	// the only course has no required sub-courses, so nothing is listed
	assert.Empty(t, data.CourseProgress)
	// with nothing to complete everyone counts as complete
	assert.Equal(t, 1, data.CompletedStudents)
	assert.Equal(t, 0, data.OverallProgress.Required)
	assert.Equal(t, 0, data.OverallProgress.Done)
	assert.Equal(t, 100, data.OverallProgress.Percent)
}

func TestDashboard_PercentClampedAt100(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 1, 0, nil)
	f.logConfirmed(1, "Injection", 5)

	data, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)

	sub := data.CourseProgress[0].Subcategories[0]
	assert.Equal(t, 1, sub.TotalDone)
	assert.Equal(t, 100, sub.Percent)
	assert.Equal(t, 100, data.OverallProgress.Percent)
}

func TestDashboard_BySubjectModeUsesSubjectCounts(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 3, 1, nil)
	f.logConfirmed(1, "Injection", 1)

	overall, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)
	assert.Equal(t, 33, overall.CourseProgress[0].Subcategories[0].Percent)
	assert.Equal(t, 0, overall.CompletedStudents)

	bySubject, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeBySubject)
	require.NoError(t, err)
	assert.Equal(t, 1, bySubject.CourseProgress[0].Subcategories[0].Required)
	assert.Equal(t, 100, bySubject.CourseProgress[0].Subcategories[0].Percent)
	assert.Equal(t, 1, bySubject.CompletedStudents)
}

func TestDashboard_OnlyConfirmedCounts(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 2, 0, nil)

	f.exps.add("e1", 1, 1, "Injection", "Dr. A", models.StatusConfirmed)
	f.exps.add("e2", 1, 1, "Injection", "Dr. A", models.StatusPending)
	f.exps.add("e3", 1, 1, "Injection", "Dr. A", models.StatusCancel)
	deleted := f.exps.add("e4", 1, 1, "Injection", "Dr. A", models.StatusConfirmed)
	deleted.IsDeleted = true

	data, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)
	assert.Equal(t, 1, data.CourseProgress[0].Subcategories[0].TotalDone)
}

func TestDashboard_Idempotent(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	f.students.add(2, 102, "64002", "Student B", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 3, 0, nil)
	f.logConfirmed(1, "Injection", 4)
	f.logConfirmed(2, "Injection", 2)

	first, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)
	second, err := f.svc.GetDashboard(context.Background(), 1, models.CountModeOverall)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStudentsForCategory_CourseScope(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	f.students.add(2, 102, "64002", "Student B", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 2, 0, nil)
	f.courses.addSub(2, course, "Dressing", 1, 0, nil)
	f.courses.addSub(3, course, "Observation", 0, 0, nil) // no requirement, ignored

	f.logConfirmed(1, "Injection", 5) // caps at 2
	f.logConfirmed(1, "Dressing", 1)
	f.logConfirmed(2, "Injection", 1)

	rows, err := f.svc.StudentsForCategory(context.Background(), 1, 1, CategoryCourse, models.CountModeOverall)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[string]int{rows[0].ID: 0, rows[1].ID: 1}
	a := rows[byID["64001"]]
	assert.Equal(t, 3, a.Completed)
	assert.Equal(t, 3, a.Total)
	assert.Equal(t, "completed", a.Status)

	b := rows[byID["64002"]]
	assert.Equal(t, 1, b.Completed)
	assert.Equal(t, "incomplete", b.Status)
}

func TestStudentsForCategory_SubcategoryScope(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 2, 0, nil)
	f.logConfirmed(1, "Injection", 1)

	rows, err := f.svc.StudentsForCategory(context.Background(), 1, 1, CategorySubcategory, models.CountModeOverall)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Completed)
	assert.Equal(t, 2, rows[0].Total)
	assert.Equal(t, "incomplete", rows[0].Status)
}

func TestStudentsForCategory_MissingCategoryReturnsEmpty(t *testing.T) {
	f := newDashboardFixture()
	f.books.addPrefix(1, "64")
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)

	rows, err := f.svc.StudentsForCategory(context.Background(), 1, 99, CategorySubcategory, models.CountModeOverall)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
