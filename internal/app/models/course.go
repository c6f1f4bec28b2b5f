package models

// CountMode selects which required-count field on a sub-course governs
// completion accounting.
type CountMode string

const (
	// CountModeOverall uses the whole-curriculum requirement (alwaycourse).
	CountModeOverall CountMode = "OVERALL"
	// CountModeBySubject uses the per-subject requirement (in_subject_count).
	CountModeBySubject CountMode = "BY_SUBJECT"
)

// ParseCountMode maps a query-string value to a CountMode, defaulting to OVERALL.
func ParseCountMode(s string) CountMode {
	if s == string(CountModeBySubject) {
		return CountModeBySubject
	}
	return CountModeOverall
}

// Course belongs to exactly one ExperienceBook and owns a set of sub-courses.
type Course struct {
	ID         int64        `json:"id" db:"id"`
	BookID     int64        `json:"bookId" db:"book_id"`
	Name       string       `json:"name" db:"name"`
	SubCourses []*SubCourse `json:"subCourses,omitempty"` // Relation, no db tag
}

// SubCourse is the smallest curriculum unit carrying required-completion
// counts. Its name is unique within a course and is the join key used by
// logged experiences.
type SubCourse struct {
	ID                int64   `json:"id" db:"id"`
	CourseID          int64   `json:"courseId" db:"course_id"`
	Name              string  `json:"name" db:"name"`
	Subject           *string `json:"subject,omitempty" db:"subject"`
	AlwayCourse       int     `json:"alwaycourse" db:"alwaycourse"`
	InSubjectCount    int     `json:"inSubjectCount" db:"in_subject_count"`
	IsSubjectFreeform bool    `json:"isSubjectFreeform" db:"is_subject_freeform"`
}

// RequiredFor returns the required count governing the given mode. Zero means
// the sub-course is excluded from completion accounting.
func (s *SubCourse) RequiredFor(mode CountMode) int {
	if mode == CountModeBySubject {
		return s.InSubjectCount
	}
	return s.AlwayCourse
}
