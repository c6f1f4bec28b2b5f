package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/services"
	"github.com/POPPROJECT/api-nurse-demo/internal/middleware"
)

// BookController manages experience books and their curriculum structure
type BookController struct {
	bookService *services.BookService
}

// NewBookController creates a new BookController
func NewBookController(bookService *services.BookService) *BookController {
	return &BookController{bookService: bookService}
}

// ListBooks lists all experience books
// @Summary List books
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ExperienceBook} "Books"
// @Router /books [get]
func (c *BookController) ListBooks(ctx *gin.Context) {
	books, err := c.bookService.ListBooks(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      books,
		Timestamp: time.Now(),
	})
}

// GetBook returns one book with its courses and sub-courses
// @Summary Get book details
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=models.ExperienceBook} "Book with courses"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [get]
func (c *BookController) GetBook(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "book ID")
	if !ok {
		return
	}

	book, err := c.bookService.GetBook(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      book,
		Timestamp: time.Now(),
	})
}

// CreateBook creates a new experience book
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookRequest true "Book data"
// @Success 201 {object} dto.APIResponse{data=models.ExperienceBook} "Book created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /books [post]
func (c *BookController) CreateBook(ctx *gin.Context) {
	var req dto.CreateBookRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	book, err := c.bookService.CreateBook(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      book,
		Timestamp: time.Now(),
	})
}

// UpdateBook edits an experience book
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID" Format(int64)
// @Param request body dto.UpdateBookRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse "Book updated"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [patch]
func (c *BookController) UpdateBook(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "book ID")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	if err := c.bookService.UpdateBook(ctx, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Book updated"},
		Timestamp: time.Now(),
	})
}

// DeleteBook removes a book and everything attached to it
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID" Format(int64)
// @Success 200 {object} dto.APIResponse "Book deleted"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id} [delete]
func (c *BookController) DeleteBook(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "book ID")
	if !ok {
		return
	}

	if err := c.bookService.DeleteBook(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Book deleted"},
		Timestamp: time.Now(),
	})
}

// ListFields lists the dynamic field definitions of a book
// @Summary List book fields
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=[]models.ExperienceField} "Field definitions"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/fields [get]
func (c *BookController) ListFields(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "book ID")
	if !ok {
		return
	}

	fields, err := c.bookService.ListFields(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      fields,
		Timestamp: time.Now(),
	})
}

// CreateCourse adds a course to a book
// @Summary Create a course
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID" Format(int64)
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/courses [post]
func (c *BookController) CreateCourse(ctx *gin.Context) {
	bookID, ok := parseIDParam(ctx, "id", "book ID")
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	course, err := c.bookService.CreateCourse(ctx, bookID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// UpdateCourse renames a course
// @Summary Update a course
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64)
// @Param request body dto.CreateCourseRequest true "New name"
// @Success 200 {object} dto.APIResponse "Course updated"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [patch]
func (c *BookController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course ID")
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	if err := c.bookService.UpdateCourse(ctx, id, req.Name); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Course updated"},
		Timestamp: time.Now(),
	})
}

// DeleteCourse removes a course and its sub-courses
// @Summary Delete a course
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64)
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *BookController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course ID")
	if !ok {
		return
	}

	if err := c.bookService.DeleteCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Course deleted"},
		Timestamp: time.Now(),
	})
}

// CreateSubCourse adds a sub-course to a course
// @Summary Create a sub-course
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID" Format(int64)
// @Param request body dto.CreateSubCourseRequest true "Sub-course data"
// @Success 201 {object} dto.APIResponse{data=models.SubCourse} "Sub-course created"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/subcourses [post]
func (c *BookController) CreateSubCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id", "course ID")
	if !ok {
		return
	}

	var req dto.CreateSubCourseRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	sub, err := c.bookService.CreateSubCourse(ctx, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      sub,
		Timestamp: time.Now(),
	})
}

// UpdateSubCourse edits a sub-course
// @Summary Update a sub-course
// @Description Edits a sub-course. Omitted fields keep their current values.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sub-course ID" Format(int64)
// @Param request body dto.UpdateSubCourseRequest true "Changed fields"
// @Success 200 {object} dto.APIResponse{data=models.SubCourse} "Sub-course updated"
// @Failure 400 {object} dto.ErrorResponse "Negative required count"
// @Failure 404 {object} dto.ErrorResponse "Sub-course not found"
// @Router /subcourses/{id} [patch]
func (c *BookController) UpdateSubCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "sub-course ID")
	if !ok {
		return
	}

	var req dto.UpdateSubCourseRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	sub, err := c.bookService.UpdateSubCourse(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      sub,
		Timestamp: time.Now(),
	})
}

// DeleteSubCourse removes a sub-course
// @Summary Delete a sub-course
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sub-course ID" Format(int64)
// @Success 200 {object} dto.APIResponse "Sub-course deleted"
// @Failure 404 {object} dto.ErrorResponse "Sub-course not found"
// @Router /subcourses/{id} [delete]
func (c *BookController) DeleteSubCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "sub-course ID")
	if !ok {
		return
	}

	if err := c.bookService.DeleteSubCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Sub-course deleted"},
		Timestamp: time.Now(),
	})
}

// ListPrefixes lists the cohort prefixes of a book
// @Summary List book prefixes
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=[]models.BookPrefix} "Prefixes"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/prefixes [get]
func (c *BookController) ListPrefixes(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "book ID")
	if !ok {
		return
	}

	prefixes, err := c.bookService.ListPrefixes(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      prefixes,
		Timestamp: time.Now(),
	})
}

// CreatePrefix adds a cohort prefix to a book
// @Summary Create a book prefix
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID" Format(int64)
// @Param request body dto.CreatePrefixRequest true "Prefix data"
// @Success 201 {object} dto.APIResponse{data=models.BookPrefix} "Prefix created"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /books/{id}/prefixes [post]
func (c *BookController) CreatePrefix(ctx *gin.Context) {
	bookID, ok := parseIDParam(ctx, "id", "book ID")
	if !ok {
		return
	}

	var req dto.CreatePrefixRequest
	if !middleware.ValidateBody(ctx, &req) {
		return
	}

	prefix, err := c.bookService.CreatePrefix(ctx, bookID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      prefix,
		Timestamp: time.Now(),
	})
}

// DeletePrefix removes a cohort prefix
// @Summary Delete a book prefix
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prefix ID" Format(int64)
// @Success 200 {object} dto.APIResponse "Prefix deleted"
// @Failure 404 {object} dto.ErrorResponse "Prefix not found"
// @Router /prefixes/{id} [delete]
func (c *BookController) DeletePrefix(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "prefix ID")
	if !ok {
		return
	}

	if err := c.bookService.DeletePrefix(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Prefix deleted"},
		Timestamp: time.Now(),
	})
}
