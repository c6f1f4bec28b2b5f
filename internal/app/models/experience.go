package models

import "time"

// ExperienceStatus is the lifecycle state of a logged experience.
type ExperienceStatus string

const (
	StatusPending   ExperienceStatus = "PENDING"
	StatusConfirmed ExperienceStatus = "CONFIRMED"
	StatusCancel    ExperienceStatus = "CANCEL"
)

// StudentExperience is one logged clinical-experience event. Approval routing
// keys off the approver's display name; sub_course_name is denormalized from
// the sub-course row so aggregation survives catalog edits.
type StudentExperience struct {
	ID            string           `json:"id" db:"id"` // UUID string
	BookID        int64            `json:"bookId" db:"book_id"`
	StudentID     int64            `json:"studentId" db:"student_id"`
	CourseID      int64            `json:"courseId" db:"course_id"`
	SubCourseID   int64            `json:"subCourseId" db:"sub_course_id"`
	SubCourseName string           `json:"subCourseName" db:"sub_course_name"`
	Subject       *string          `json:"subject,omitempty" db:"subject"`
	ApproverRole  Role             `json:"approverRole" db:"approver_role"`
	ApproverName  string           `json:"approverName" db:"approver_name"`
	Status        ExperienceStatus `json:"status" db:"status"`
	IsDeleted     bool             `json:"isDeleted" db:"is_deleted"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`

	// Relations, no db tags
	Student     *StudentProfile `json:"student,omitempty"`
	Course      *Course         `json:"course,omitempty"`
	SubCourse   *SubCourse      `json:"subCourse,omitempty"`
	FieldValues []*FieldValue   `json:"fieldValues,omitempty"`
}

// ExperienceField is a book-scoped dynamic form field definition.
type ExperienceField struct {
	ID     int64  `json:"id" db:"id"`
	BookID int64  `json:"bookId" db:"book_id"`
	Label  string `json:"label" db:"label"`
	Type   string `json:"type" db:"type"`
}

// FieldValue is a student's answer to one dynamic field on one experience.
type FieldValue struct {
	ID           int64            `json:"id" db:"id"`
	ExperienceID string           `json:"experienceId" db:"experience_id"`
	FieldID      int64            `json:"fieldId" db:"field_id"`
	Value        string           `json:"value" db:"value"`
	Field        *ExperienceField `json:"field,omitempty"` // Relation, no db tag
}
