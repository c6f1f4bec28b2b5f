package services

import (
	"context"
	"errors"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/logger"
)

// BookService manages the curriculum catalog: books, courses, sub-courses
// and cohort prefixes.
type BookService struct {
	books   BookStore
	courses CourseStore
}

// NewBookService creates a new book service
func NewBookService(books BookStore, courses CourseStore) *BookService {
	return &BookService{books: books, courses: courses}
}

func mapBookErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrBookNotFound):
		return apperrors.ErrBookNotFound
	case errors.Is(err, repositories.ErrCourseNotFound):
		return apperrors.ErrCourseNotFound
	case errors.Is(err, repositories.ErrSubCourseNotFound):
		return apperrors.ErrSubCourseNotFound
	case errors.Is(err, repositories.ErrPrefixNotFound):
		return apperrors.NewResourceNotFoundError("book prefix not found")
	}
	return err
}

// ListBooks returns all experience books
func (s *BookService) ListBooks(ctx context.Context) ([]*models.ExperienceBook, error) {
	return s.books.List(ctx)
}

// GetBook returns one book with its courses and sub-courses attached
func (s *BookService) GetBook(ctx context.Context, id int64) (*models.ExperienceBook, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, mapBookErr(err)
	}
	courses, err := s.courses.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	book.Courses = courses
	return book, nil
}

// CreateBook creates a new experience book
func (s *BookService) CreateBook(ctx context.Context, req *dto.CreateBookRequest) (*models.ExperienceBook, error) {
	book := &models.ExperienceBook{Title: req.Title, Description: req.Description}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	logger.Info().Int64("bookId", book.ID).Str("title", book.Title).Msg("Experience book created")
	return book, nil
}

// UpdateBook edits a book's title and description
func (s *BookService) UpdateBook(ctx context.Context, id int64, req *dto.UpdateBookRequest) error {
	return mapBookErr(s.books.Update(ctx, id, req.Title, req.Description))
}

// DeleteBook removes a book and everything under it
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	return mapBookErr(s.books.Delete(ctx, id))
}

// ListFields returns a book's dynamic field definitions
func (s *BookService) ListFields(ctx context.Context, bookID int64) ([]*models.ExperienceField, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, mapBookErr(err)
	}
	return s.books.ListFields(ctx, bookID)
}

// CreateCourse adds a course to a book
func (s *BookService) CreateCourse(ctx context.Context, bookID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, mapBookErr(err)
	}
	course := &models.Course{BookID: bookID, Name: req.Name}
	if err := s.courses.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// UpdateCourse renames a course
func (s *BookService) UpdateCourse(ctx context.Context, id int64, name string) error {
	return mapBookErr(s.courses.UpdateCourse(ctx, id, name))
}

// DeleteCourse removes a course
func (s *BookService) DeleteCourse(ctx context.Context, id int64) error {
	return mapBookErr(s.courses.DeleteCourse(ctx, id))
}

// CreateSubCourse adds a sub-course to a course
func (s *BookService) CreateSubCourse(ctx context.Context, courseID int64, req *dto.CreateSubCourseRequest) (*models.SubCourse, error) {
	if _, err := s.courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, mapBookErr(err)
	}

	sub := &models.SubCourse{
		CourseID:          courseID,
		Name:              req.Name,
		Subject:           req.Subject,
		AlwayCourse:       req.AlwayCourse,
		InSubjectCount:    req.InSubjectCount,
		IsSubjectFreeform: req.IsSubjectFreeform,
	}
	if err := s.courses.CreateSubCourse(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubCourse edits a sub-course; nil request fields keep current values
func (s *BookService) UpdateSubCourse(ctx context.Context, id int64, req *dto.UpdateSubCourseRequest) (*models.SubCourse, error) {
	sub, err := s.courses.GetSubCourseByID(ctx, id)
	if err != nil {
		return nil, mapBookErr(err)
	}

	if req.Name != nil {
		sub.Name = *req.Name
	}
	if req.Subject != nil {
		sub.Subject = req.Subject
	}
	if req.AlwayCourse != nil {
		if *req.AlwayCourse < 0 {
			return nil, apperrors.NewBadRequestError("alwaycourse must not be negative")
		}
		sub.AlwayCourse = *req.AlwayCourse
	}
	if req.InSubjectCount != nil {
		if *req.InSubjectCount < 0 {
			return nil, apperrors.NewBadRequestError("inSubjectCount must not be negative")
		}
		sub.InSubjectCount = *req.InSubjectCount
	}
	if req.IsSubjectFreeform != nil {
		sub.IsSubjectFreeform = *req.IsSubjectFreeform
	}

	if err := s.courses.UpdateSubCourse(ctx, sub); err != nil {
		return nil, mapBookErr(err)
	}
	return sub, nil
}

// DeleteSubCourse removes a sub-course
func (s *BookService) DeleteSubCourse(ctx context.Context, id int64) error {
	return mapBookErr(s.courses.DeleteSubCourse(ctx, id))
}

// ListPrefixes returns a book's cohort prefixes
func (s *BookService) ListPrefixes(ctx context.Context, bookID int64) ([]*models.BookPrefix, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, mapBookErr(err)
	}
	return s.books.ListPrefixes(ctx, bookID)
}

// CreatePrefix adds a cohort prefix to a book
func (s *BookService) CreatePrefix(ctx context.Context, bookID int64, req *dto.CreatePrefixRequest) (*models.BookPrefix, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, mapBookErr(err)
	}
	prefix := &models.BookPrefix{BookID: bookID, Prefix: req.Prefix}
	if err := s.books.CreatePrefix(ctx, prefix); err != nil {
		return nil, err
	}
	return prefix, nil
}

// DeletePrefix removes a cohort prefix
func (s *BookService) DeletePrefix(ctx context.Context, id int64) error {
	return mapBookErr(s.books.DeletePrefix(ctx, id))
}
