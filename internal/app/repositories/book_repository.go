package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
)

// Book error types
var (
	ErrBookNotFound   = errors.New("experience book not found")
	ErrPrefixNotFound = errors.New("book prefix not found")
	ErrFieldNotFound  = errors.New("experience field not found")
)

// BookRepository handles database operations for experience books, their
// cohort prefixes and dynamic field definitions
type BookRepository struct {
	db *pgxpool.Pool
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *pgxpool.Pool) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a new experience book
func (r *BookRepository) Create(ctx context.Context, book *models.ExperienceBook) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO experience_books (title, description)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		book.Title, book.Description).Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating experience book: %w", err)
	}
	return nil
}

// GetByID retrieves an experience book by id
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.ExperienceBook, error) {
	var book models.ExperienceBook
	err := r.db.QueryRow(ctx, `
		SELECT id, title, description, created_at
		FROM experience_books
		WHERE id = $1`, id).
		Scan(&book.ID, &book.Title, &book.Description, &book.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("error retrieving experience book: %w", err)
	}
	return &book, nil
}

// List retrieves all experience books ordered by creation time
func (r *BookRepository) List(ctx context.Context) ([]*models.ExperienceBook, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, created_at
		FROM experience_books
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("error querying experience books: %w", err)
	}
	defer rows.Close()

	var books []*models.ExperienceBook
	for rows.Next() {
		var book models.ExperienceBook
		if err := rows.Scan(&book.ID, &book.Title, &book.Description, &book.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning experience book row: %w", err)
		}
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return books, nil
}

// Update applies non-nil fields to an existing book
func (r *BookRepository) Update(ctx context.Context, id int64, title, description *string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE experience_books
		SET title = COALESCE($1, title), description = COALESCE($2, description)
		WHERE id = $3`,
		title, description, id)
	if err != nil {
		return fmt.Errorf("error updating experience book: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete removes a book. Courses, sub-courses, prefixes, fields and logged
// experiences go with it via ON DELETE CASCADE.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM experience_books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting experience book: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}

// ListPrefixes retrieves the cohort prefixes of a book
func (r *BookRepository) ListPrefixes(ctx context.Context, bookID int64) ([]*models.BookPrefix, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, book_id, prefix
		FROM book_prefixes
		WHERE book_id = $1
		ORDER BY prefix`, bookID)
	if err != nil {
		return nil, fmt.Errorf("error querying book prefixes: %w", err)
	}
	defer rows.Close()

	var prefixes []*models.BookPrefix
	for rows.Next() {
		var prefix models.BookPrefix
		if err := rows.Scan(&prefix.ID, &prefix.BookID, &prefix.Prefix); err != nil {
			return nil, fmt.Errorf("error scanning book prefix row: %w", err)
		}
		prefixes = append(prefixes, &prefix)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prefixes, nil
}

// CreatePrefix adds a cohort prefix to a book
func (r *BookRepository) CreatePrefix(ctx context.Context, prefix *models.BookPrefix) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO book_prefixes (book_id, prefix)
		VALUES ($1, $2)
		RETURNING id`,
		prefix.BookID, prefix.Prefix).Scan(&prefix.ID)
	if err != nil {
		return fmt.Errorf("error creating book prefix: %w", err)
	}
	return nil
}

// DeletePrefix removes a cohort prefix
func (r *BookRepository) DeletePrefix(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM book_prefixes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting book prefix: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPrefixNotFound
	}
	return nil
}

// ListFields retrieves the dynamic field definitions of a book
func (r *BookRepository) ListFields(ctx context.Context, bookID int64) ([]*models.ExperienceField, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, book_id, label, type
		FROM experience_fields
		WHERE book_id = $1
		ORDER BY id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("error querying experience fields: %w", err)
	}
	defer rows.Close()

	var fields []*models.ExperienceField
	for rows.Next() {
		var field models.ExperienceField
		if err := rows.Scan(&field.ID, &field.BookID, &field.Label, &field.Type); err != nil {
			return nil, fmt.Errorf("error scanning experience field row: %w", err)
		}
		fields = append(fields, &field)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return fields, nil
}
