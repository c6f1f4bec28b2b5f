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

// CheckStudentController serves the per-student progress listing
type CheckStudentController struct {
	checkStudentService *services.CheckStudentService
}

// NewCheckStudentController creates a new CheckStudentController
func NewCheckStudentController(checkStudentService *services.CheckStudentService) *CheckStudentController {
	return &CheckStudentController{checkStudentService: checkStudentService}
}

// List returns the progress of every eligible student of a book
// @Summary Check student progress
// @Description Lists every eligible student of a book with their capped done count and completion percentage
// @Tags check-student
// @Produce json
// @Security BearerAuth
// @Param bookId query int true "Book ID" Format(int64)
// @Param progressMode query string false "Numeric subject id narrows counting to that subject; anything else counts the whole book"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search over student id and name"
// @Param sortBy query string false "Sort field, percent sorts in-process over the whole cohort"
// @Param order query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Student progress rows"
// @Failure 400 {object} dto.ErrorResponse "Missing bookId"
// @Router /check-student [get]
func (c *CheckStudentController) List(ctx *gin.Context) {
	bookID, _ := strconv.ParseInt(ctx.Query("bookId"), 10, 64)
	q := dto.CheckStudentQuery{
		ListQuery:    parseListQuery(ctx),
		BookID:       bookID,
		ProgressMode: ctx.Query("progressMode"),
	}

	rows, total, err := c.checkStudentService.List(ctx, q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.PagedResponse{Total: total, Data: rows},
		Timestamp: time.Now(),
	})
}
