package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/services"
	"github.com/POPPROJECT/api-nurse-demo/internal/middleware"
)

// StudentExperienceController handles the student's own experience records
type StudentExperienceController struct {
	experienceService *services.StudentExperienceService
}

// NewStudentExperienceController creates a new StudentExperienceController
func NewStudentExperienceController(experienceService *services.StudentExperienceService) *StudentExperienceController {
	return &StudentExperienceController{experienceService: experienceService}
}

// Create records a new experience
// @Summary Record an experience
// @Description Creates a new PENDING experience for the acting student
// @Tags experiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateExperienceRequest true "Experience data"
// @Success 201 {object} dto.APIResponse{data=models.StudentExperience} "Experience recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Recording disabled by admin"
// @Failure 404 {object} dto.ErrorResponse "Book, sub-course or approver not found"
// @Router /experiences [post]
func (c *StudentExperienceController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateExperienceRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	exp, err := c.experienceService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      exp,
		Timestamp: time.Now(),
	})
}

// ListOwn lists the acting student's experiences
// @Summary List own experiences
// @Description Lists the acting student's non-deleted experience records
// @Tags experiences
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param bookId query int false "Filter to one book"
// @Param status query string false "Status filter" Enums(ALL, PENDING, CONFIRMED, CANCEL)
// @Param search query string false "Search over sub-course and approver name"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Experiences"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Router /experiences [get]
func (c *StudentExperienceController) ListOwn(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	bookID, _ := strconv.ParseInt(ctx.Query("bookId"), 10, 64)
	q := dto.ExperienceListQuery{
		ListQuery: parseListQuery(ctx),
		BookID:    bookID,
		Status:    ctx.Query("status"),
	}

	exps, total, err := c.experienceService.ListOwn(ctx, userID, q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.PagedResponse{Total: total, Data: exps},
		Timestamp: time.Now(),
	})
}

// Update edits a pending experience
// @Summary Edit own experience
// @Description Edits the acting student's PENDING experience. Field values are replaced wholesale when present.
// @Tags experiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Param request body dto.UpdateExperienceRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse "Experience updated"
// @Failure 400 {object} dto.ErrorResponse "Experience is not pending"
// @Failure 403 {object} dto.ErrorResponse "Experience belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Experience not found"
// @Router /experiences/{id} [patch]
func (c *StudentExperienceController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateExperienceRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	if err := c.experienceService.UpdateOwn(ctx, userID, ctx.Param("id"), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience updated"},
		Timestamp: time.Now(),
	})
}

// Cancel cancels a pending experience
// @Summary Cancel own experience
// @Description Cancels the acting student's PENDING experience
// @Tags experiences
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Success 200 {object} dto.APIResponse "Experience cancelled"
// @Failure 400 {object} dto.ErrorResponse "Experience is not pending"
// @Failure 403 {object} dto.ErrorResponse "Experience belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Experience not found"
// @Router /experiences/{id}/cancel [post]
func (c *StudentExperienceController) Cancel(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	if err := c.experienceService.CancelOwn(ctx, userID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience cancelled"},
		Timestamp: time.Now(),
	})
}

// Delete soft-deletes an experience
// @Summary Delete own experience
// @Description Soft-deletes the acting student's experience. Confirmed records cannot be deleted.
// @Tags experiences
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Success 200 {object} dto.APIResponse "Experience deleted"
// @Failure 403 {object} dto.ErrorResponse "Confirmed experiences cannot be deleted"
// @Failure 404 {object} dto.ErrorResponse "Experience not found"
// @Router /experiences/{id} [delete]
func (c *StudentExperienceController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	if err := c.experienceService.DeleteOwn(ctx, userID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience deleted"},
		Timestamp: time.Now(),
	})
}

// AdminDelete removes an experience permanently
// @Summary Delete an experience (admin)
// @Description Permanently removes an experience record regardless of its state
// @Tags experiences
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Success 200 {object} dto.APIResponse "Experience removed"
// @Failure 404 {object} dto.ErrorResponse "Experience not found"
// @Router /admin/experiences/{id} [delete]
func (c *StudentExperienceController) AdminDelete(ctx *gin.Context) {
	if err := c.experienceService.AdminDelete(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience removed"},
		Timestamp: time.Now(),
	})
}

// Confirm confirms an experience via the direct PIN path
// @Summary Confirm an experience with a PIN
// @Description Confirms a pending experience after checking the acting approver's own PIN
// @Tags experiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Param request body dto.PinRequest true "Approver PIN"
// @Success 200 {object} dto.APIResponse "Experience confirmed"
// @Failure 400 {object} dto.ErrorResponse "Invalid PIN"
// @Failure 403 {object} dto.ErrorResponse "Acting user is not an approver"
// @Failure 404 {object} dto.ErrorResponse "Experience not found or not pending"
// @Router /experiences/{id}/confirm [post]
func (c *StudentExperienceController) Confirm(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.PinRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	if err := c.experienceService.Confirm(ctx, userID, ctx.Param("id"), req.Pin); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience confirmed"},
		Timestamp: time.Now(),
	})
}

// Reject rejects an experience via the direct PIN path
// @Summary Reject an experience with a PIN
// @Description Rejects a pending experience after checking the acting approver's own PIN
// @Tags experiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Param request body dto.PinRequest true "Approver PIN"
// @Success 200 {object} dto.APIResponse "Experience rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid PIN"
// @Failure 403 {object} dto.ErrorResponse "Acting user is not an approver"
// @Failure 404 {object} dto.ErrorResponse "Experience not found or not pending"
// @Router /experiences/{id}/reject [post]
func (c *StudentExperienceController) Reject(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.PinRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	if err := c.experienceService.Reject(ctx, userID, ctx.Param("id"), req.Pin); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience rejected"},
		Timestamp: time.Now(),
	})
}

// ConfirmByApprover confirms own experience from the student page
// @Summary Confirm own experience by approver
// @Description The approver named on the record enters their PIN on the student's page. Failures count toward the PIN lockout.
// @Tags experiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Experience ID"
// @Param request body dto.ConfirmByApproverRequest true "Approver name and PIN"
// @Success 200 {object} dto.APIResponse "Experience confirmed"
// @Failure 400 {object} dto.ErrorResponse "Invalid PIN, PIN locked or name mismatch"
// @Failure 404 {object} dto.ErrorResponse "Experience or approver not found"
// @Router /experiences/{id}/confirm-by-approver [post]
func (c *StudentExperienceController) ConfirmByApprover(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.ConfirmByApproverRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	if err := c.experienceService.ConfirmByApprover(ctx, userID, ctx.Param("id"), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Experience confirmed"},
		Timestamp: time.Now(),
	})
}

// ConfirmBulkByApprover confirms a batch of own experiences
// @Summary Confirm own experiences in bulk by approver
// @Description Confirms a batch of the acting student's records after one PIN validation. Ineligible ids are skipped.
// @Tags experiences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConfirmBulkByApproverRequest true "Approver name, PIN and experience ids"
// @Success 200 {object} dto.APIResponse{data=dto.AffectedResponse} "Affected count"
// @Failure 400 {object} dto.ErrorResponse "Invalid PIN or PIN locked"
// @Failure 404 {object} dto.ErrorResponse "Approver not found"
// @Router /experiences/confirm-bulk-by-approver [post]
func (c *StudentExperienceController) ConfirmBulkByApprover(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.ConfirmBulkByApproverRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	affected, err := c.experienceService.ConfirmBulkByApprover(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.AffectedResponse{Count: affected},
		Timestamp: time.Now(),
	})
}
