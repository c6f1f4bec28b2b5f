package services

import (
	"context"
	"time"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/auth"
)

// The services depend on narrow store interfaces rather than the concrete
// repositories so tests can substitute in-memory fakes. The repositories
// package satisfies all of them.

// UserStore reads and writes user accounts.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// StudentStore reads student profiles and cohort listings.
type StudentStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
	ListActive(ctx context.Context) ([]*models.StudentProfile, error)
	CountCohort(ctx context.Context, f repositories.CohortFilter) (int64, error)
	ListCohort(ctx context.Context, f repositories.CohortFilter, sortBy, order string, offset uint64, limit int) ([]*models.StudentProfile, error)
}

// ApproverStore reads approver profiles and persists PIN lockout state.
type ApproverStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.ApproverProfile, error)
	GetByDisplayName(ctx context.Context, name string) (*models.ApproverProfile, error)
	UpdatePinState(ctx context.Context, profileID int64, failCount int, lockedUntil *time.Time) error
	ListByRole(ctx context.Context, role models.Role) ([]*models.ApproverProfile, error)
}

// BookStore manages experience books, prefixes and field definitions.
type BookStore interface {
	Create(ctx context.Context, book *models.ExperienceBook) error
	GetByID(ctx context.Context, id int64) (*models.ExperienceBook, error)
	List(ctx context.Context) ([]*models.ExperienceBook, error)
	Update(ctx context.Context, id int64, title, description *string) error
	Delete(ctx context.Context, id int64) error
	ListPrefixes(ctx context.Context, bookID int64) ([]*models.BookPrefix, error)
	CreatePrefix(ctx context.Context, prefix *models.BookPrefix) error
	DeletePrefix(ctx context.Context, id int64) error
	ListFields(ctx context.Context, bookID int64) ([]*models.ExperienceField, error)
}

// CourseStore manages courses and sub-courses.
type CourseStore interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, name string) error
	DeleteCourse(ctx context.Context, id int64) error
	ListByBook(ctx context.Context, bookID int64) ([]*models.Course, error)
	CreateSubCourse(ctx context.Context, sub *models.SubCourse) error
	GetSubCourseByID(ctx context.Context, id int64) (*models.SubCourse, error)
	UpdateSubCourse(ctx context.Context, sub *models.SubCourse) error
	DeleteSubCourse(ctx context.Context, id int64) error
	ListSubCoursesByBook(ctx context.Context, bookID int64, subject *string) ([]*models.SubCourse, error)
}

// ExperienceStore manages logged experiences.
type ExperienceStore interface {
	Create(ctx context.Context, exp *models.StudentExperience) error
	GetByID(ctx context.Context, id string) (*models.StudentExperience, error)
	LoadFieldValues(ctx context.Context, exps []*models.StudentExperience) error
	UpdateStatus(ctx context.Context, id string, status models.ExperienceStatus) error
	UpdateStatusOwned(ctx context.Context, ids []string, approverName string, status models.ExperienceStatus) (int64, error)
	SetDeleted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ReplaceOwnContent(ctx context.Context, id string, approverName *string, newValues []*models.FieldValue) error
	ListPending(ctx context.Context, approverName, search, sortBy, order string, offset uint64, limit int) ([]*models.StudentExperience, int64, error)
	ListLogs(ctx context.Context, approverName string, f repositories.LogFilter, sortBy, order string, offset uint64, limit int) ([]*models.StudentExperience, int64, error)
	ListForStudent(ctx context.Context, studentProfileID int64, f repositories.StudentListFilter, sortBy, order string, offset uint64, limit int) ([]*models.StudentExperience, int64, error)
	ConfirmedCountsByStudent(ctx context.Context, bookID int64, studentIDs []int64) (map[int64]map[string]int, error)
}

// SettingStore manages the singleton admin settings row.
type SettingStore interface {
	Get(ctx context.Context) (*models.AdminSetting, error)
	SetExperienceCounting(ctx context.Context, enabled bool) error
}

// Services bundles all service instances for injection
type Services struct {
	Auth              *AuthService
	Requests          *RequestsService
	StudentExperience *StudentExperienceService
	Dashboard         *DashboardService
	CheckStudent      *CheckStudentService
	AdminSetting      *AdminSettingService
	Approver          *ApproverService
	Book              *BookService
}

// NewServices wires the services over the concrete repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService) *Services {
	return &Services{
		Auth:              NewAuthService(repos.User, jwtService),
		Requests:          NewRequestsService(repos.Approver, repos.Experience),
		StudentExperience: NewStudentExperienceService(repos.Student, repos.Approver, repos.Book, repos.Course, repos.Experience, repos.Setting),
		Dashboard:         NewDashboardService(repos.Student, repos.Book, repos.Course, repos.Experience),
		CheckStudent:      NewCheckStudentService(repos.Student, repos.Book, repos.Course, repos.Experience),
		AdminSetting:      NewAdminSettingService(repos.Setting),
		Approver:          NewApproverService(repos.Approver),
		Book:              NewBookService(repos.Book, repos.Course),
	}
}
