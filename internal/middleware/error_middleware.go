package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
)

// notFoundErrors maps every not-found sentinel to 404
var notFoundErrors = []error{
	apperrors.ErrResourceNotFound,
	apperrors.ErrBookNotFound,
	apperrors.ErrCourseNotFound,
	apperrors.ErrSubCourseNotFound,
	apperrors.ErrStudentNotFound,
	apperrors.ErrApproverNotFound,
	apperrors.ErrExperienceNotFound,
}

// errorMessage prefers the CustomError message so user-facing text such as
// PIN attempt counts survives to the response.
func errorMessage(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.APIResponse{
		Error:     dto.NewErrorDetail(code, message),
		Timestamp: time.Now(),
	})
}

// HandleAPIError maps application errors to HTTP responses. Services raise
// taxonomy errors and never touch status codes themselves.
func HandleAPIError(c *gin.Context, err error) {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			respondError(c, 404, dto.ErrorCodeResourceNotFound, errorMessage(err, sentinel.Error()))
			return
		}
	}

	switch {
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, 403, dto.ErrorCodeForbidden, errorMessage(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, 401, dto.ErrorCodeInvalidCredentials, errorMessage(err, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respondError(c, 403, dto.ErrorCodeAccountDisabled, errorMessage(err, "Account is disabled"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, 401, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, 401, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondError(c, 401, dto.ErrorCodeUnauthorized, errorMessage(err, "Authentication required"))
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, 409, dto.ErrorCodeConflict, errorMessage(err, "Conflict"))
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondError(c, 400, dto.ErrorCodeValidationFailed, errorMessage(err, "Validation failed"))
	case errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, 400, dto.ErrorCodeBadRequest, errorMessage(err, "Bad request"))
	default:
		respondError(c, 500, dto.ErrorCodeInternalServer, "Internal server error")
	}
}
