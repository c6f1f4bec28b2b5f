package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/services"
	"github.com/POPPROJECT/api-nurse-demo/internal/middleware"
)

// RequestsController serves the approver's request queue
type RequestsController struct {
	requestsService *services.RequestsService
}

// NewRequestsController creates a new RequestsController
func NewRequestsController(requestsService *services.RequestsService) *RequestsController {
	return &RequestsController{requestsService: requestsService}
}

// dateOnly is the format of startDate/endDate query parameters.
const dateOnly = "2006-01-02"

func parseDateQuery(ctx *gin.Context, name string) (*time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be formatted as YYYY-MM-DD")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return &t, true
}

// ListPending lists the acting approver's pending queue
// @Summary List pending requests
// @Description Lists PENDING experiences addressed to the acting approver
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search over student id, name and sub-course"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Pending requests"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /requests/pending [get]
func (c *RequestsController) ListPending(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	q := dto.PendingListQuery{ListQuery: parseListQuery(ctx)}
	exps, total, err := c.requestsService.ListPending(ctx, userID, q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.PagedResponse{Total: total, Data: exps},
		Timestamp: time.Now(),
	})
}

// ListLogs lists the acting approver's processed requests
// @Summary List request logs
// @Description Lists CONFIRMED and CANCEL experiences the acting approver has handled
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Filter to one status" Enums(all, confirmed, cancel)
// @Param startDate query string false "Updated on or after, YYYY-MM-DD"
// @Param endDate query string false "Updated on or before, YYYY-MM-DD"
// @Param search query string false "Search over student id, name and sub-course"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Request logs"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /requests/logs [get]
func (c *RequestsController) ListLogs(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	start, ok := parseDateQuery(ctx, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(ctx, "endDate")
	if !ok {
		return
	}

	q := dto.LogListQuery{
		ListQuery: parseListQuery(ctx),
		Status:    ctx.Query("status"),
		StartDate: start,
		EndDate:   end,
	}
	exps, total, err := c.requestsService.ListLogs(ctx, userID, q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.PagedResponse{Total: total, Data: exps},
		Timestamp: time.Now(),
	})
}

// Confirm confirms one pending request
// @Summary Confirm a request
// @Description Confirms a single pending experience after PIN validation
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Param request body dto.PinRequest true "Approver PIN"
// @Success 200 {object} dto.APIResponse "Request confirmed"
// @Failure 400 {object} dto.ErrorResponse "Invalid PIN or PIN locked"
// @Failure 404 {object} dto.ErrorResponse "No matching pending request"
// @Router /requests/{id}/confirm [post]
func (c *RequestsController) Confirm(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.PinRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	if err := c.requestsService.ConfirmOne(ctx, userID, ctx.Param("id"), req.Pin); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience confirmed"},
		Timestamp: time.Now(),
	})
}

// Reject rejects one pending request
// @Summary Reject a request
// @Description Rejects a single pending experience after PIN validation
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Param request body dto.PinRequest true "Approver PIN"
// @Success 200 {object} dto.APIResponse "Request rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid PIN or PIN locked"
// @Failure 404 {object} dto.ErrorResponse "No matching pending request"
// @Router /requests/{id}/reject [post]
func (c *RequestsController) Reject(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.PinRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	if err := c.requestsService.RejectOne(ctx, userID, ctx.Param("id"), req.Pin); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience rejected"},
		Timestamp: time.Now(),
	})
}

// ConfirmBulk confirms a batch of pending requests
// @Summary Confirm requests in bulk
// @Description Confirms a batch of pending experiences after a single PIN validation. Ineligible ids are skipped.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkPinRequest true "Approver PIN and experience ids"
// @Success 200 {object} dto.APIResponse{data=dto.AffectedResponse} "Affected count"
// @Failure 400 {object} dto.ErrorResponse "Invalid PIN or PIN locked"
// @Router /requests/confirm-bulk [post]
func (c *RequestsController) ConfirmBulk(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.BulkPinRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	affected, err := c.requestsService.ConfirmBulk(ctx, userID, req.IDs, req.Pin)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.AffectedResponse{Count: affected},
		Timestamp: time.Now(),
	})
}

// RejectBulk rejects a batch of pending requests
// @Summary Reject requests in bulk
// @Description Rejects a batch of pending experiences after a single PIN validation. Ineligible ids are skipped.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkPinRequest true "Approver PIN and experience ids"
// @Success 200 {object} dto.APIResponse{data=dto.AffectedResponse} "Affected count"
// @Failure 400 {object} dto.ErrorResponse "Invalid PIN or PIN locked"
// @Router /requests/reject-bulk [post]
func (c *RequestsController) RejectBulk(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.BulkPinRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	affected, err := c.requestsService.RejectBulk(ctx, userID, req.IDs, req.Pin)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.AffectedResponse{Count: affected},
		Timestamp: time.Now(),
	})
}
