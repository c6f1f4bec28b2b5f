package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
)

func setupBooks() (*BookService, *mockBookStore, *mockCourseStore) {
	books := newMockBookStore()
	courses := newMockCourseStore()
	return NewBookService(books, courses), books, courses
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestBooks_CreateAndGet(t *testing.T) {
	svc, _, courses := setupBooks()

	book, err := svc.CreateBook(context.Background(), &dto.CreateBookRequest{
		Title:       "Adult Nursing Practicum",
		Description: "Year 3",
	})
	require.NoError(t, err)
	require.NotZero(t, book.ID)

	courses.addCourse(1, book.ID, "Fundamental Skills")

	got, err := svc.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Adult Nursing Practicum", got.Title)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "Fundamental Skills", got.Courses[0].Name)
}

func TestBooks_GetBook_NotFound(t *testing.T) {
	svc, _, _ := setupBooks()

	_, err := svc.GetBook(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBookNotFound))
}

func TestBooks_UpdateBook_PartialFields(t *testing.T) {
	svc, books, _ := setupBooks()
	book := books.addBook(1, "Old Title")
	book.Description = "Old description"

	err := svc.UpdateBook(context.Background(), 1, &dto.UpdateBookRequest{Title: strPtr("New Title")})
	require.NoError(t, err)
	assert.Equal(t, "New Title", book.Title)
	assert.Equal(t, "Old description", book.Description)
}

func TestBooks_DeleteBook_NotFound(t *testing.T) {
	svc, _, _ := setupBooks()

	err := svc.DeleteBook(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBookNotFound))
}

func TestBooks_CreateCourse_RequiresBook(t *testing.T) {
	svc, books, _ := setupBooks()

	_, err := svc.CreateCourse(context.Background(), 404, &dto.CreateCourseRequest{Name: "Skills"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBookNotFound))

	books.addBook(1, "Book")
	course, err := svc.CreateCourse(context.Background(), 1, &dto.CreateCourseRequest{Name: "Skills"})
	require.NoError(t, err)
	assert.NotZero(t, course.ID)
	assert.Equal(t, int64(1), course.BookID)
}

func TestBooks_UpdateCourse_Renames(t *testing.T) {
	svc, _, courses := setupBooks()
	course := courses.addCourse(1, 1, "Old Name")

	require.NoError(t, svc.UpdateCourse(context.Background(), 1, "New Name"))
	assert.Equal(t, "New Name", course.Name)

	err := svc.UpdateCourse(context.Background(), 404, "X")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))
}

func TestBooks_CreateSubCourse(t *testing.T) {
	svc, _, courses := setupBooks()
	courses.addCourse(1, 1, "Skills")

	sub, err := svc.CreateSubCourse(context.Background(), 1, &dto.CreateSubCourseRequest{
		Name:           "IV Insertion",
		Subject:        strPtr("Adult"),
		AlwayCourse:    5,
		InSubjectCount: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.Equal(t, 5, sub.AlwayCourse)
	assert.Equal(t, 2, sub.InSubjectCount)

	_, err = svc.CreateSubCourse(context.Background(), 404, &dto.CreateSubCourseRequest{Name: "X"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCourseNotFound))
}

func TestBooks_UpdateSubCourse_MergesNilFields(t *testing.T) {
	svc, _, courses := setupBooks()
	course := courses.addCourse(1, 1, "Skills")
	courses.addSub(10, course, "IV Insertion", 5, 2, strPtr("Adult"))

	sub, err := svc.UpdateSubCourse(context.Background(), 10, &dto.UpdateSubCourseRequest{
		AlwayCourse: intPtr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, sub.AlwayCourse)
	// untouched fields keep their values
	assert.Equal(t, "IV Insertion", sub.Name)
	assert.Equal(t, 2, sub.InSubjectCount)
	require.NotNil(t, sub.Subject)
	assert.Equal(t, "Adult", *sub.Subject)
}

func TestBooks_UpdateSubCourse_RejectsNegativeCounts(t *testing.T) {
	svc, _, courses := setupBooks()
	course := courses.addCourse(1, 1, "Skills")
	courses.addSub(10, course, "IV Insertion", 5, 2, nil)

	_, err := svc.UpdateSubCourse(context.Background(), 10, &dto.UpdateSubCourseRequest{
		AlwayCourse: intPtr(-1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	_, err = svc.UpdateSubCourse(context.Background(), 10, &dto.UpdateSubCourseRequest{
		InSubjectCount: intPtr(-3),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestBooks_Prefixes(t *testing.T) {
	svc, books, _ := setupBooks()
	books.addBook(1, "Book")

	prefix, err := svc.CreatePrefix(context.Background(), 1, &dto.CreatePrefixRequest{Prefix: "65"})
	require.NoError(t, err)
	assert.NotZero(t, prefix.ID)

	list, err := svc.ListPrefixes(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "65", list[0].Prefix)

	require.NoError(t, svc.DeletePrefix(context.Background(), prefix.ID))

	err = svc.DeletePrefix(context.Background(), prefix.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestBooks_ListFields_RequiresBook(t *testing.T) {
	svc, _, _ := setupBooks()

	_, err := svc.ListFields(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBookNotFound))
}
