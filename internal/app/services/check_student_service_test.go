package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
)

type checkStudentFixture struct {
	svc      *CheckStudentService
	students *mockStudentStore
	books    *mockBookStore
	courses  *mockCourseStore
	exps     *mockExperienceStore
}

func newCheckStudentFixture() *checkStudentFixture {
	f := &checkStudentFixture{
		students: newMockStudentStore(),
		books:    newMockBookStore(),
		courses:  newMockCourseStore(),
		exps:     newMockExperienceStore(),
	}
	f.svc = NewCheckStudentService(f.students, f.books, f.courses, f.exps)
	f.books.addBook(1, "Clinical Book")
	f.books.addPrefix(1, "64")
	return f
}

func (f *checkStudentFixture) logConfirmed(studentProfileID int64, subCourseName string, n int) {
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("exp-%d-%s-%d", studentProfileID, subCourseName, i)
		f.exps.add(id, 1, studentProfileID, subCourseName, "Dr. A", models.StatusConfirmed)
	}
}

func checkQuery(page, limit int, sortBy, order string) dto.CheckStudentQuery {
	return dto.CheckStudentQuery{
		ListQuery: dto.ListQuery{Page: page, Limit: limit, SortBy: sortBy, Order: order},
		BookID:    1,
	}
}

func TestCheckStudent_RequiresBookID(t *testing.T) {
	f := newCheckStudentFixture()

	_, _, err := f.svc.List(context.Background(), dto.CheckStudentQuery{})
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestCheckStudent_CappedDoneAndPercent(t *testing.T) {
	f := newCheckStudentFixture()
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	f.students.add(2, 102, "64002", "Student B", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 3, 0, nil)
	f.courses.addSub(2, course, "Dressing", 2, 0, nil)

	f.logConfirmed(1, "Injection", 5) // caps at 3
	f.logConfirmed(1, "Dressing", 1)
	f.logConfirmed(2, "Injection", 2)

	rows, total, err := f.svc.List(context.Background(), checkQuery(1, 10, "studentId", "asc"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)

	a := rows[0]
	assert.Equal(t, int64(101), a.ID) // user id, not profile id
	assert.Equal(t, "64001", a.StudentID)
	assert.Equal(t, 4, a.Done) // min(5,3) + min(1,2)
	assert.Equal(t, 5, a.Total)
	assert.Equal(t, 80, a.Percent)

	b := rows[1]
	assert.Equal(t, 2, b.Done)
	assert.Equal(t, 40, b.Percent)
}

func TestCheckStudent_NoSubCoursesReturnsEmpty(t *testing.T) {
	f := newCheckStudentFixture()
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)

	rows, total, err := f.svc.List(context.Background(), checkQuery(1, 10, "studentId", "asc"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, rows)
}

func TestCheckStudent_ZeroTotalMeansZeroPercent(t *testing.T) {
	f := newCheckStudentFixture()
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Observation", 0, 0, nil)

	rows, _, err := f.svc.List(context.Background(), checkQuery(1, 10, "studentId", "asc"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Total)
	assert.Equal(t, 0, rows[0].Percent) // zero denominator reads as 0 here, not 100
}

func TestCheckStudent_PercentSortOverFullCohort(t *testing.T) {
	f := newCheckStudentFixture()
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 4, 0, nil)

	for i := 1; i <= 3; i++ {
		f.students.add(int64(i), int64(100+i), fmt.Sprintf("6400%d", i), fmt.Sprintf("Student %d", i), models.UserStatusEnable)
	}
	f.logConfirmed(1, "Injection", 1) // 25%
	f.logConfirmed(2, "Injection", 4) // 100%
	f.logConfirmed(3, "Injection", 2) // 50%

	rows, total, err := f.svc.List(context.Background(), checkQuery(1, 2, "percent", "desc"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total) // total reflects the whole cohort, not the page
	require.Len(t, rows, 2)
	assert.Equal(t, 100, rows[0].Percent)
	assert.Equal(t, 50, rows[1].Percent)

	// second page carries the remainder after the in-process sort
	rows, _, err = f.svc.List(context.Background(), checkQuery(2, 2, "percent", "desc"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 25, rows[0].Percent)
}

func TestCheckStudent_SubjectModeFiltersSubCourses(t *testing.T) {
	f := newCheckStudentFixture()
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	subject := "12"
	f.courses.addSub(1, course, "Injection", 3, 0, &subject)
	f.courses.addSub(2, course, "Dressing", 2, 0, nil)

	f.logConfirmed(1, "Injection", 2)
	f.logConfirmed(1, "Dressing", 2)

	q := checkQuery(1, 10, "studentId", "asc")
	q.ProgressMode = "12"
	rows, _, err := f.svc.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// only the subject-tagged sub-course counts, still at overall requirements
	assert.Equal(t, 3, rows[0].Total)
	assert.Equal(t, 2, rows[0].Done)
	assert.Equal(t, 67, rows[0].Percent)
}

func TestCheckStudent_NonNumericModeCountsWholeBook(t *testing.T) {
	f := newCheckStudentFixture()
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	subject := "12"
	f.courses.addSub(1, course, "Injection", 3, 0, &subject)
	f.courses.addSub(2, course, "Dressing", 2, 0, nil)

	q := checkQuery(1, 10, "studentId", "asc")
	q.ProgressMode = "OVERALL"
	rows, _, err := f.svc.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Total)
}

func TestCheckStudent_NoPrefixesMeansEmpty(t *testing.T) {
	f := newCheckStudentFixture()
	f.books.prefixes[1] = nil
	f.students.add(1, 101, "64001", "Student A", models.UserStatusEnable)
	course := f.courses.addCourse(1, 1, "Basic Care")
	f.courses.addSub(1, course, "Injection", 1, 0, nil)

	rows, total, err := f.svc.List(context.Background(), checkQuery(1, 10, "studentId", "asc"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, rows)
}
