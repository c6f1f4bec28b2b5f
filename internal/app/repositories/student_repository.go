package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
)

// Student error types
var (
	ErrStudentNotFound = errors.New("student profile not found")
)

// StudentRepository handles database operations for student profiles
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByUserID retrieves a student profile by its owning user id
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	query := `
		SELECT sp.id, sp.user_id, sp.student_id, u.name
		FROM student_profiles sp
		JOIN users u ON sp.user_id = u.id
		WHERE sp.user_id = $1
	`

	var profile models.StudentProfile
	var user models.User
	err := r.db.QueryRow(ctx, query, userID).Scan(&profile.ID, &profile.UserID, &profile.StudentID, &user.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student profile: %w", err)
	}
	user.ID = userID
	profile.User = &user
	return &profile, nil
}

// ListActive retrieves all profiles of enabled student accounts that carry a
// student ID string. Cohort membership is decided against this set.
func (r *StudentRepository) ListActive(ctx context.Context) ([]*models.StudentProfile, error) {
	query := `
		SELECT sp.id, sp.user_id, sp.student_id, u.name
		FROM student_profiles sp
		JOIN users u ON sp.user_id = u.id
		WHERE u.status = $1 AND sp.student_id IS NOT NULL
	`

	rows, err := r.db.Query(ctx, query, models.UserStatusEnable)
	if err != nil {
		return nil, fmt.Errorf("error querying active students: %w", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// GetByIDs retrieves student profiles (with user names) for the given profile ids
func (r *StudentRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.StudentProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT sp.id, sp.user_id, sp.student_id, u.name
		FROM student_profiles sp
		JOIN users u ON sp.user_id = u.id
		WHERE sp.id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("error querying student profiles: %w", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// CohortFilter restricts the paged student listing.
type CohortFilter struct {
	Prefixes []string
	Search   string
}

func (r *StudentRepository) cohortWhere(f CohortFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"u.role": models.RoleStudent}}

	if len(f.Prefixes) == 0 {
		// no prefixes means an empty cohort, not an unrestricted one
		where = append(where, squirrel.Expr("1 = 0"))
	} else {
		prefixOr := squirrel.Or{}
		for _, p := range f.Prefixes {
			prefixOr = append(prefixOr, squirrel.ILike{"sp.student_id": p + "%"})
		}
		where = append(where, prefixOr)
	}

	if f.Search != "" {
		pattern := "%" + strings.TrimSpace(f.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"sp.student_id": pattern},
			squirrel.ILike{"u.name": pattern},
		})
	}

	return where
}

// CountCohort counts student profiles matching the cohort filter
func (r *StudentRepository) CountCohort(ctx context.Context, f CohortFilter) (int64, error) {
	countSql, countArgs, err := r.sb.Select("COUNT(*)").
		From("student_profiles sp").
		Join("users u ON sp.user_id = u.id").
		Where(r.cohortWhere(f)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count cohort query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count cohort: %w", err)
	}
	return total, nil
}

// ListCohort retrieves student profiles matching the cohort filter. When
// limit is 0 the whole cohort is returned unpaged (used for in-process
// percent sorting).
func (r *StudentRepository) ListCohort(ctx context.Context, f CohortFilter, sortBy, order string, offset uint64, limit int) ([]*models.StudentProfile, error) {
	baseSelect := r.sb.Select("sp.id", "sp.user_id", "sp.student_id", "u.name").
		From("student_profiles sp").
		Join("users u ON sp.user_id = u.id").
		Where(r.cohortWhere(f))

	if limit > 0 {
		dir := "ASC"
		if strings.EqualFold(order, "desc") {
			dir = "DESC"
		}
		column := "sp.student_id"
		if sortBy == "name" {
			column = "u.name"
		}
		baseSelect = baseSelect.OrderBy(fmt.Sprintf("%s %s", column, dir)).
			Offset(offset).
			Limit(uint64(limit))
	}

	querySql, queryArgs, err := baseSelect.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list cohort query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort: %w", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func scanProfiles(rows pgx.Rows) ([]*models.StudentProfile, error) {
	var profiles []*models.StudentProfile
	for rows.Next() {
		var profile models.StudentProfile
		var user models.User
		if err := rows.Scan(&profile.ID, &profile.UserID, &profile.StudentID, &user.Name); err != nil {
			return nil, fmt.Errorf("failed to scan student profile row: %w", err)
		}
		user.ID = profile.UserID
		profile.User = &user
		profiles = append(profiles, &profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
