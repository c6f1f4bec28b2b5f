package dto

import "time"

// APIResponse is the standard envelope for successful responses.
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// PagedResponse is the {total, data} shape the frontend consumes for lists.
type PagedResponse struct {
	Total int64       `json:"total"`
	Data  interface{} `json:"data"`
}

// AffectedResponse reports how many rows a bulk operation touched.
type AffectedResponse struct {
	Count int64 `json:"count"`
}

// ToggleResponse is the {enabled} shape used by admin settings.
type ToggleResponse struct {
	Enabled bool `json:"enabled"`
}
