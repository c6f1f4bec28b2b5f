package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository instances for injection
type Repositories struct {
	User       *UserRepository
	Student    *StudentRepository
	Approver   *ApproverRepository
	Book       *BookRepository
	Course     *CourseRepository
	Experience *ExperienceRepository
	Setting    *SettingRepository
}

// NewRepositories creates all repositories over a shared pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:       NewUserRepository(pool),
		Student:    NewStudentRepository(pool),
		Approver:   NewApproverRepository(pool),
		Book:       NewBookRepository(pool),
		Course:     NewCourseRepository(pool),
		Experience: NewExperienceRepository(pool),
		Setting:    NewSettingRepository(pool),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
