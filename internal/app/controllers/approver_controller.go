package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/services"
	"github.com/POPPROJECT/api-nurse-demo/internal/middleware"
)

// ApproverController serves the approver directory and the approver's own profile
type ApproverController struct {
	approverService *services.ApproverService
}

// NewApproverController creates a new ApproverController
func NewApproverController(approverService *services.ApproverService) *ApproverController {
	return &ApproverController{approverService: approverService}
}

// ListByRole lists the enabled approvers of one role
// @Summary List approvers
// @Description Lists the enabled approvers of one role for the student's approver picker
// @Tags approvers
// @Produce json
// @Security BearerAuth
// @Param role query string true "Approver role" Enums(APPROVER_IN, APPROVER_OUT)
// @Success 200 {object} dto.APIResponse{data=[]dto.ApproverEntry} "Directory entries"
// @Failure 400 {object} dto.ErrorResponse "Invalid role"
// @Router /approvers [get]
func (c *ApproverController) ListByRole(ctx *gin.Context) {
	entries, err := c.approverService.ListByRole(ctx, models.Role(ctx.Query("role")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      entries,
		Timestamp: time.Now(),
	})
}

// GetOwnProfile returns the acting approver's profile
// @Summary Get own approver profile
// @Description Returns the acting approver's profile including the PIN lockout state. The PIN itself is never serialized.
// @Tags approvers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.ApproverProfile} "Approver profile"
// @Failure 404 {object} dto.ErrorResponse "Approver not found"
// @Router /approvers/me [get]
func (c *ApproverController) GetOwnProfile(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.approverService.GetOwnProfile(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      profile,
		Timestamp: time.Now(),
	})
}
