package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
)

// Course error types
var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrSubCourseNotFound = errors.New("sub-course not found")
)

// CourseRepository handles database operations for courses and sub-courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// CreateCourse inserts a new course under a book
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (book_id, name)
		VALUES ($1, $2)
		RETURNING id`,
		course.BookID, course.Name).Scan(&course.ID)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetCourseByID retrieves a course by id
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	err := r.db.QueryRow(ctx, `
		SELECT id, book_id, name FROM courses WHERE id = $1`, id).
		Scan(&course.ID, &course.BookID, &course.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &course, nil
}

// UpdateCourse renames a course
func (r *CourseRepository) UpdateCourse(ctx context.Context, id int64, name string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE courses SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// DeleteCourse removes a course and its sub-courses via cascade
func (r *CourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// ListByBook retrieves a book's courses with their sub-courses attached.
// The dashboard walks the result in this course-then-subcourse order.
func (r *CourseRepository) ListByBook(ctx context.Context, bookID int64) ([]*models.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, book_id, name
		FROM courses
		WHERE book_id = $1
		ORDER BY id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	byID := make(map[int64]*models.Course)
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.BookID, &course.Name); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, &course)
		byID[course.ID] = &course
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subRows, err := r.db.Query(ctx, `
		SELECT sc.id, sc.course_id, sc.name, sc.subject, sc.alwaycourse, sc.in_subject_count, sc.is_subject_freeform
		FROM sub_courses sc
		JOIN courses c ON sc.course_id = c.id
		WHERE c.book_id = $1
		ORDER BY sc.id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("error querying sub-courses: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		sub, err := scanSubCourse(subRows)
		if err != nil {
			return nil, err
		}
		if course, ok := byID[sub.CourseID]; ok {
			course.SubCourses = append(course.SubCourses, sub)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// CreateSubCourse inserts a new sub-course under a course
func (r *CourseRepository) CreateSubCourse(ctx context.Context, sub *models.SubCourse) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO sub_courses (course_id, name, subject, alwaycourse, in_subject_count, is_subject_freeform)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		sub.CourseID, sub.Name, sub.Subject, sub.AlwayCourse, sub.InSubjectCount, sub.IsSubjectFreeform).
		Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("error creating sub-course: %w", err)
	}
	return nil
}

// GetSubCourseByID retrieves a sub-course by id
func (r *CourseRepository) GetSubCourseByID(ctx context.Context, id int64) (*models.SubCourse, error) {
	sub, err := scanSubCourse(r.db.QueryRow(ctx, `
		SELECT id, course_id, name, subject, alwaycourse, in_subject_count, is_subject_freeform
		FROM sub_courses
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubCourseNotFound
		}
		return nil, err
	}
	return sub, nil
}

// UpdateSubCourse persists a fully resolved sub-course
func (r *CourseRepository) UpdateSubCourse(ctx context.Context, sub *models.SubCourse) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE sub_courses
		SET name = $1, subject = $2, alwaycourse = $3, in_subject_count = $4, is_subject_freeform = $5
		WHERE id = $6`,
		sub.Name, sub.Subject, sub.AlwayCourse, sub.InSubjectCount, sub.IsSubjectFreeform, sub.ID)
	if err != nil {
		return fmt.Errorf("error updating sub-course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrSubCourseNotFound
	}
	return nil
}

// DeleteSubCourse removes a sub-course
func (r *CourseRepository) DeleteSubCourse(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM sub_courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting sub-course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrSubCourseNotFound
	}
	return nil
}

// ListSubCoursesByBook retrieves all sub-courses of a book, optionally
// restricted to one subject. Used by per-subject completion accounting.
func (r *CourseRepository) ListSubCoursesByBook(ctx context.Context, bookID int64, subject *string) ([]*models.SubCourse, error) {
	query := `
		SELECT sc.id, sc.course_id, sc.name, sc.subject, sc.alwaycourse, sc.in_subject_count, sc.is_subject_freeform
		FROM sub_courses sc
		JOIN courses c ON sc.course_id = c.id
		WHERE c.book_id = $1`
	args := []any{bookID}
	if subject != nil {
		query += ` AND sc.subject = $2`
		args = append(args, *subject)
	}
	query += ` ORDER BY sc.id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sub-courses: %w", err)
	}
	defer rows.Close()

	var subs []*models.SubCourse
	for rows.Next() {
		sub, err := scanSubCourse(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subs, nil
}

func scanSubCourse(row pgx.Row) (*models.SubCourse, error) {
	var sub models.SubCourse
	err := row.Scan(
		&sub.ID,
		&sub.CourseID,
		&sub.Name,
		&sub.Subject,
		&sub.AlwayCourse,
		&sub.InSubjectCount,
		&sub.IsSubjectFreeform,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning sub-course row: %w", err)
	}
	return &sub, nil
}
