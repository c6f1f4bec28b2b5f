package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/db"
)

// Experience error types
var (
	ErrExperienceNotFound = errors.New("experience not found")
)

// ExperienceRepository handles database operations for logged experiences
// and their dynamic field values
type ExperienceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewExperienceRepository creates a new experience repository
func NewExperienceRepository(pool *pgxpool.Pool) *ExperienceRepository {
	return &ExperienceRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an experience together with its field values in one
// transaction. The caller assigns the UUID beforehand.
func (r *ExperienceRepository) Create(ctx context.Context, exp *models.StudentExperience) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO student_experiences
				(id, book_id, student_id, course_id, sub_course_id, sub_course_name,
				 subject, approver_role, approver_name, status, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)
			RETURNING created_at`,
			exp.ID, exp.BookID, exp.StudentID, exp.CourseID, exp.SubCourseID, exp.SubCourseName,
			exp.Subject, exp.ApproverRole, exp.ApproverName, exp.Status).
			Scan(&exp.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating experience: %w", err)
		}

		return insertFieldValues(ctx, tx, exp.ID, exp.FieldValues)
	})
}

func insertFieldValues(ctx context.Context, tx pgx.Tx, experienceID string, values []*models.FieldValue) error {
	for _, fv := range values {
		err := tx.QueryRow(ctx, `
			INSERT INTO field_values (experience_id, field_id, value)
			VALUES ($1, $2, $3)
			RETURNING id`,
			experienceID, fv.FieldID, fv.Value).Scan(&fv.ID)
		if err != nil {
			return fmt.Errorf("error creating field value: %w", err)
		}
		fv.ExperienceID = experienceID
	}
	return nil
}

const experienceSelect = `
	SELECT se.id, se.book_id, se.student_id, se.course_id, se.sub_course_id,
	       se.sub_course_name, se.subject, se.approver_role, se.approver_name,
	       se.status, se.is_deleted, se.created_at
	FROM student_experiences se
`

func scanExperience(row pgx.Row) (*models.StudentExperience, error) {
	var exp models.StudentExperience
	err := row.Scan(
		&exp.ID,
		&exp.BookID,
		&exp.StudentID,
		&exp.CourseID,
		&exp.SubCourseID,
		&exp.SubCourseName,
		&exp.Subject,
		&exp.ApproverRole,
		&exp.ApproverName,
		&exp.Status,
		&exp.IsDeleted,
		&exp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("error retrieving experience: %w", err)
	}
	return &exp, nil
}

// GetByID retrieves an experience regardless of deletion state
func (r *ExperienceRepository) GetByID(ctx context.Context, id string) (*models.StudentExperience, error) {
	return scanExperience(r.db.QueryRow(ctx, experienceSelect+` WHERE se.id = $1`, id))
}

// LoadFieldValues attaches field values (with their definitions) to the
// given experiences.
func (r *ExperienceRepository) LoadFieldValues(ctx context.Context, exps []*models.StudentExperience) error {
	if len(exps) == 0 {
		return nil
	}

	ids := make([]string, 0, len(exps))
	byID := make(map[string]*models.StudentExperience, len(exps))
	for _, exp := range exps {
		ids = append(ids, exp.ID)
		byID[exp.ID] = exp
	}

	rows, err := r.db.Query(ctx, `
		SELECT fv.id, fv.experience_id, fv.field_id, fv.value, ef.book_id, ef.label, ef.type
		FROM field_values fv
		JOIN experience_fields ef ON fv.field_id = ef.id
		WHERE fv.experience_id = ANY($1)
		ORDER BY fv.id`, ids)
	if err != nil {
		return fmt.Errorf("error querying field values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fv models.FieldValue
		var field models.ExperienceField
		if err := rows.Scan(&fv.ID, &fv.ExperienceID, &fv.FieldID, &fv.Value,
			&field.BookID, &field.Label, &field.Type); err != nil {
			return fmt.Errorf("error scanning field value row: %w", err)
		}
		field.ID = fv.FieldID
		fv.Field = &field
		if exp, ok := byID[fv.ExperienceID]; ok {
			exp.FieldValues = append(exp.FieldValues, &fv)
		}
	}

	return rows.Err()
}

// UpdateStatus sets the status of one experience unconditionally
func (r *ExperienceRepository) UpdateStatus(ctx context.Context, id string, status models.ExperienceStatus) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE student_experiences SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating experience status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// UpdateStatusOwned sets the status of the experiences that are still PENDING
// and addressed to the given approver name. Ids that are missing, already
// processed or addressed elsewhere are skipped; the affected count is returned.
func (r *ExperienceRepository) UpdateStatusOwned(ctx context.Context, ids []string, approverName string, status models.ExperienceStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE student_experiences
		SET status = $1
		WHERE id = ANY($2) AND status = $3 AND approver_name = $4 AND is_deleted = false`,
		status, ids, models.StatusPending, approverName)
	if err != nil {
		return 0, fmt.Errorf("error updating experience statuses: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// SetDeleted soft-deletes an experience
func (r *ExperienceRepository) SetDeleted(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE student_experiences SET is_deleted = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error soft-deleting experience: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// Delete removes an experience and its field values permanently
func (r *ExperienceRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM student_experiences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting experience: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// ReplaceOwnContent updates the approver routing of a PENDING experience and,
// when newValues is non-nil, replaces its field values wholesale.
func (r *ExperienceRepository) ReplaceOwnContent(ctx context.Context, id string, approverName *string, newValues []*models.FieldValue) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if approverName != nil {
			cmdTag, err := tx.Exec(ctx, `
				UPDATE student_experiences SET approver_name = $1 WHERE id = $2`,
				*approverName, id)
			if err != nil {
				return fmt.Errorf("error updating experience approver: %w", err)
			}
			if cmdTag.RowsAffected() == 0 {
				return ErrExperienceNotFound
			}
		}

		if newValues == nil {
			return nil
		}

		if _, err := tx.Exec(ctx, `DELETE FROM field_values WHERE experience_id = $1`, id); err != nil {
			return fmt.Errorf("error clearing field values: %w", err)
		}
		return insertFieldValues(ctx, tx, id, newValues)
	})
}

func (r *ExperienceRepository) searchWhere(search string) squirrel.Sqlizer {
	pattern := "%" + strings.TrimSpace(search) + "%"
	return squirrel.Or{
		squirrel.ILike{"u.name": pattern},
		squirrel.ILike{"sp.student_id": pattern},
		squirrel.ILike{"se.sub_course_name": pattern},
	}
}

func orderClause(sortBy, order string) string {
	column := "se.created_at"
	switch sortBy {
	case "subCourseName":
		column = "se.sub_course_name"
	case "studentName":
		column = "u.name"
	}
	dir := "DESC"
	if strings.EqualFold(order, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", column, dir)
}

// listPage runs the count plus page queries for a built filter and scans the
// experience rows with the student relation attached.
func (r *ExperienceRepository) listPage(ctx context.Context, where squirrel.And, sortBy, order string, offset uint64, limit int) ([]*models.StudentExperience, int64, error) {
	base := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		return b.From("student_experiences se").
			Join("student_profiles sp ON se.student_id = sp.id").
			Join("users u ON sp.user_id = u.id").
			Where(where)
	}

	countSql, countArgs, err := base(r.sb.Select("COUNT(*)")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count experiences: %w", err)
	}

	pageSelect := base(r.sb.Select(
		"se.id", "se.book_id", "se.student_id", "se.course_id", "se.sub_course_id",
		"se.sub_course_name", "se.subject", "se.approver_role", "se.approver_name",
		"se.status", "se.is_deleted", "se.created_at",
		"sp.student_id AS student_code", "u.name")).
		OrderBy(orderClause(sortBy, order))
	if limit > 0 {
		pageSelect = pageSelect.Offset(offset).Limit(uint64(limit))
	}

	querySql, queryArgs, err := pageSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query experiences: %w", err)
	}
	defer rows.Close()

	var exps []*models.StudentExperience
	for rows.Next() {
		var exp models.StudentExperience
		var profile models.StudentProfile
		var user models.User
		err := rows.Scan(
			&exp.ID, &exp.BookID, &exp.StudentID, &exp.CourseID, &exp.SubCourseID,
			&exp.SubCourseName, &exp.Subject, &exp.ApproverRole, &exp.ApproverName,
			&exp.Status, &exp.IsDeleted, &exp.CreatedAt,
			&profile.StudentID, &user.Name,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan experience row: %w", err)
		}
		profile.ID = exp.StudentID
		profile.User = &user
		exp.Student = &profile
		exps = append(exps, &exp)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return exps, total, nil
}

// ListPending retrieves the PENDING queue addressed to an approver name
func (r *ExperienceRepository) ListPending(ctx context.Context, approverName, search, sortBy, order string, offset uint64, limit int) ([]*models.StudentExperience, int64, error) {
	where := squirrel.And{
		squirrel.Eq{"se.approver_name": approverName},
		squirrel.Eq{"se.status": models.StatusPending},
		squirrel.Eq{"se.is_deleted": false},
	}
	if search != "" {
		where = append(where, r.searchWhere(search))
	}
	return r.listPage(ctx, where, sortBy, order, offset, limit)
}

// LogFilter restricts an approver's processed history.
type LogFilter struct {
	Status    *models.ExperienceStatus
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

// ListLogs retrieves the processed (CONFIRMED or CANCEL) records an approver
// name has handled.
func (r *ExperienceRepository) ListLogs(ctx context.Context, approverName string, f LogFilter, sortBy, order string, offset uint64, limit int) ([]*models.StudentExperience, int64, error) {
	where := squirrel.And{
		squirrel.Eq{"se.approver_name": approverName},
		squirrel.Eq{"se.is_deleted": false},
	}
	if f.Status != nil {
		where = append(where, squirrel.Eq{"se.status": *f.Status})
	} else {
		where = append(where, squirrel.Eq{"se.status": []models.ExperienceStatus{models.StatusConfirmed, models.StatusCancel}})
	}
	if f.StartDate != nil {
		where = append(where, squirrel.GtOrEq{"se.created_at": *f.StartDate})
	}
	if f.EndDate != nil {
		where = append(where, squirrel.LtOrEq{"se.created_at": *f.EndDate})
	}
	if f.Search != "" {
		where = append(where, r.searchWhere(f.Search))
	}
	return r.listPage(ctx, where, sortBy, order, offset, limit)
}

// StudentListFilter restricts a student's own experience listing.
type StudentListFilter struct {
	BookID int64
	Status *models.ExperienceStatus
	Search string
}

// ListForStudent retrieves a student's own non-deleted records
func (r *ExperienceRepository) ListForStudent(ctx context.Context, studentProfileID int64, f StudentListFilter, sortBy, order string, offset uint64, limit int) ([]*models.StudentExperience, int64, error) {
	where := squirrel.And{
		squirrel.Eq{"se.student_id": studentProfileID},
		squirrel.Eq{"se.is_deleted": false},
	}
	if f.BookID > 0 {
		where = append(where, squirrel.Eq{"se.book_id": f.BookID})
	}
	if f.Status != nil {
		where = append(where, squirrel.Eq{"se.status": *f.Status})
	}
	if f.Search != "" {
		pattern := "%" + strings.TrimSpace(f.Search) + "%"
		where = append(where, squirrel.ILike{"se.sub_course_name": pattern})
	}
	return r.listPage(ctx, where, sortBy, order, offset, limit)
}

// ConfirmedCountsByStudent groups the CONFIRMED, non-deleted records of a book
// over the given student profile ids. The result maps student profile id to
// sub-course name to count; aggregation joins on the denormalized name.
func (r *ExperienceRepository) ConfirmedCountsByStudent(ctx context.Context, bookID int64, studentIDs []int64) (map[int64]map[string]int, error) {
	counts := make(map[int64]map[string]int)
	if len(studentIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT student_id, sub_course_name, COUNT(*)
		FROM student_experiences
		WHERE book_id = $1 AND student_id = ANY($2)
		  AND status = $3 AND is_deleted = false
		GROUP BY student_id, sub_course_name`,
		bookID, studentIDs, models.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var studentID int64
		var name string
		var n int
		if err := rows.Scan(&studentID, &name, &n); err != nil {
			return nil, fmt.Errorf("error scanning confirmed count row: %w", err)
		}
		byName, ok := counts[studentID]
		if !ok {
			byName = make(map[string]int)
			counts[studentID] = byName
		}
		byName[name] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
