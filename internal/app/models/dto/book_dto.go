package dto

// CreateBookRequest creates a new experience book.
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateBookRequest edits an experience book.
type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CreateCourseRequest adds a course to a book.
type CreateCourseRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateSubCourseRequest adds a sub-course to a course.
type CreateSubCourseRequest struct {
	Name              string  `json:"name" binding:"required"`
	Subject           *string `json:"subject,omitempty"`
	AlwayCourse       int     `json:"alwaycourse" binding:"min=0"`
	InSubjectCount    int     `json:"inSubjectCount" binding:"min=0"`
	IsSubjectFreeform bool    `json:"isSubjectFreeform"`
}

// UpdateSubCourseRequest edits a sub-course; nil fields keep current values.
type UpdateSubCourseRequest struct {
	Name              *string `json:"name,omitempty"`
	Subject           *string `json:"subject,omitempty"`
	AlwayCourse       *int    `json:"alwaycourse,omitempty"`
	InSubjectCount    *int    `json:"inSubjectCount,omitempty"`
	IsSubjectFreeform *bool   `json:"isSubjectFreeform,omitempty"`
}

// CreatePrefixRequest adds a cohort prefix to a book.
type CreatePrefixRequest struct {
	Prefix string `json:"prefix" binding:"required"`
}

// ApproverEntry is one row of the approver directory.
type ApproverEntry struct {
	ID           int64  `json:"id"` // user id
	ApproverName string `json:"approverName"`
}
