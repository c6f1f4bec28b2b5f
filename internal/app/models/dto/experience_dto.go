package dto

import "time"

// FieldValueInput is one dynamic-field answer supplied by a student.
type FieldValueInput struct {
	FieldID int64  `json:"fieldId" binding:"required"`
	Value   string `json:"value"`
}

// CreateExperienceRequest creates a new PENDING experience record.
type CreateExperienceRequest struct {
	BookID       int64             `json:"bookId" binding:"required"`
	SubCourseID  int64             `json:"subCourseId" binding:"required"`
	Subject      *string           `json:"subject,omitempty"`
	ApproverRole string            `json:"approverRole" binding:"required"`
	ApproverName string            `json:"approverName" binding:"required"`
	FieldValues  []FieldValueInput `json:"fieldValues"`
}

// UpdateExperienceRequest edits a PENDING experience owned by the caller.
// Field values are replaced wholesale, not merged.
type UpdateExperienceRequest struct {
	ApproverName *string           `json:"approverName,omitempty"`
	FieldValues  []FieldValueInput `json:"fieldValues,omitempty"`
}

// PinRequest carries the 6-digit approver PIN for a single confirm/reject.
type PinRequest struct {
	Pin string `json:"pin" binding:"required,len=6,numeric"`
}

// BulkPinRequest carries the PIN plus the batch of experience ids.
type BulkPinRequest struct {
	Pin string   `json:"pin" binding:"required,len=6,numeric"`
	IDs []string `json:"ids" binding:"required,min=1"`
}

// ConfirmByApproverRequest confirms a student's own record from the student
// page: the approver identified by display name enters their PIN there.
type ConfirmByApproverRequest struct {
	ApproverName string `json:"approverName" binding:"required"`
	Pin          string `json:"pin" binding:"required,len=6,numeric"`
}

// ConfirmBulkByApproverRequest is the bulk form of ConfirmByApproverRequest.
type ConfirmBulkByApproverRequest struct {
	ApproverName string   `json:"approverName" binding:"required"`
	Pin          string   `json:"pin" binding:"required,len=6,numeric"`
	IDs          []string `json:"ids" binding:"required,min=1"`
}

// ListQuery carries the shared paging/search/sort parameters.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	Order  string
}

// ExperienceListQuery filters a student's own experience listing.
type ExperienceListQuery struct {
	ListQuery
	BookID int64
	Status string // ALL, PENDING, CONFIRMED or CANCEL
}

// PendingListQuery filters the approver's pending queue.
type PendingListQuery struct {
	ListQuery
}

// LogListQuery filters the approver's processed history.
type LogListQuery struct {
	ListQuery
	Status    string // all, confirmed or cancel
	StartDate *time.Time
	EndDate   *time.Time
}
