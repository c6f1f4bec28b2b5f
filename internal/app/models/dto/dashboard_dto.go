package dto

// Subcategory is per-sub-course progress across the whole cohort.
type Subcategory struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Required         int    `json:"required"`
	TotalDone        int    `json:"totalDone"` // sum of per-student capped counts
	Percent          int    `json:"percent"`
	StudentCount     int    `json:"studentCount"`
	DoneStudentCount int    `json:"doneStudentCount"` // students meeting the required count
}

// CourseProgress aggregates its sub-courses; only sub-courses with a
// requirement under the active mode are listed.
type CourseProgress struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Percent          int           `json:"percent"`
	StudentCount     int           `json:"studentCount"`
	DoneStudentCount int           `json:"doneStudentCount"`
	Subcategories    []Subcategory `json:"subcategories"`
}

// OverallProgress is the book-wide rollup. Done is the average capped total
// per student.
type OverallProgress struct {
	Required int `json:"required"`
	Done     int `json:"done"`
	Percent  int `json:"percent"`
}

// DashboardData is the complete dashboard payload for one book and mode.
type DashboardData struct {
	TotalStudents     int              `json:"totalStudents"`
	CompletedStudents int              `json:"completedStudents"`
	OverallProgress   OverallProgress  `json:"overallProgress"`
	CourseProgress    []CourseProgress `json:"courseProgress"`
}

// CategoryStudent is one eligible student's standing against a single course
// or sub-course scope.
type CategoryStudent struct {
	ID        string `json:"id"` // external student ID string
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Status    string `json:"status"` // completed or incomplete
}

// StudentProgress is one row of the check-student listing.
type StudentProgress struct {
	ID        int64  `json:"id"` // user id
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

// CheckStudentQuery filters the check-student listing.
type CheckStudentQuery struct {
	ListQuery
	BookID int64
	// ProgressMode narrows sub-courses to one subject tag when it parses as
	// a subject id; otherwise the whole book counts.
	ProgressMode string
}
