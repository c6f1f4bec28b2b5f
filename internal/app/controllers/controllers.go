package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/middleware"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/helpers"
)

// requireUserID pulls the authenticated user id set by the JWT middleware.
// Writes the 401 response itself when the id is missing.
func requireUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return userID, true
}

// parseIDParam parses a numeric path parameter. Writes the 400 response
// itself when the value is not a number.
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label)
		errorDetail = errorDetail.WithDetails(label + " must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// parseListQuery reads the shared paging, search and sort query parameters.
func parseListQuery(ctx *gin.Context) dto.ListQuery {
	page, limit := helpers.ParsePaginationParams(ctx)
	return dto.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: ctx.Query("search"),
		SortBy: ctx.Query("sortBy"),
		Order:  ctx.Query("order"),
	}
}
