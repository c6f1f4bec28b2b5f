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

// DashboardController serves cohort-wide progress aggregation
type DashboardController struct {
	dashboardService *services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// GetDashboard returns the progress dashboard of one book
// @Summary Get book dashboard
// @Description Computes cohort-wide completion statistics for one book under the selected counting mode
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID" Format(int64)
// @Param mode query string false "Counting mode" Enums(OVERALL, BY_SUBJECT) default(OVERALL)
// @Success 200 {object} dto.APIResponse{data=dto.DashboardData} "Dashboard data"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID"
// @Router /dashboard/books/{bookId} [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	bookID, ok := parseIDParam(ctx, "bookId", "book ID")
	if !ok {
		return
	}

	mode := models.ParseCountMode(ctx.Query("mode"))
	data, err := c.dashboardService.GetDashboard(ctx, bookID, mode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	})
}

// StudentsForCategory lists per-student standing for one course or sub-course
// @Summary List students for a category
// @Description Lists every cohort member's standing against one course or one sub-course
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param bookId path int true "Book ID" Format(int64)
// @Param categoryId path int true "Course or sub-course ID" Format(int64)
// @Param type query string false "Category scope" Enums(course, subcategory) default(course)
// @Param mode query string false "Counting mode" Enums(OVERALL, BY_SUBJECT) default(OVERALL)
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryStudent} "Per-student standing"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Router /dashboard/books/{bookId}/categories/{categoryId}/students [get]
func (c *DashboardController) StudentsForCategory(ctx *gin.Context) {
	bookID, ok := parseIDParam(ctx, "bookId", "book ID")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(ctx, "categoryId", "category ID")
	if !ok {
		return
	}

	categoryType := services.CategoryType(ctx.DefaultQuery("type", string(services.CategoryCourse)))
	if categoryType != services.CategoryCourse && categoryType != services.CategorySubcategory {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid category type")
		errorDetail = errorDetail.WithDetails("type must be course or subcategory")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	mode := models.ParseCountMode(ctx.Query("mode"))
	students, err := c.dashboardService.StudentsForCategory(ctx, bookID, categoryID, categoryType, mode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      students,
		Timestamp: time.Now(),
	})
}
