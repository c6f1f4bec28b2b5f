package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/services"
	"github.com/POPPROJECT/api-nurse-demo/internal/middleware"
)

// AdminSettingController handles the global admin settings
type AdminSettingController struct {
	settingService *services.AdminSettingService
}

// NewAdminSettingController creates a new AdminSettingController
func NewAdminSettingController(settingService *services.AdminSettingService) *AdminSettingController {
	return &AdminSettingController{settingService: settingService}
}

// GetExperienceCounting reads the recording toggle
// @Summary Get experience counting state
// @Description Reports whether students may currently record new experiences
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ToggleResponse} "Current state"
// @Router /settings/experience-counting [get]
func (c *AdminSettingController) GetExperienceCounting(ctx *gin.Context) {
	enabled, err := c.settingService.GetExperienceCounting(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.ToggleResponse{Enabled: enabled},
		Timestamp: time.Now(),
	})
}

// ToggleExperienceCounting flips the recording toggle
// @Summary Toggle experience counting
// @Description Flips whether students may record new experiences and returns the new state
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ToggleResponse} "New state"
// @Router /settings/experience-counting/toggle [post]
func (c *AdminSettingController) ToggleExperienceCounting(ctx *gin.Context) {
	enabled, err := c.settingService.ToggleExperienceCounting(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.ToggleResponse{Enabled: enabled},
		Timestamp: time.Now(),
	})
}
