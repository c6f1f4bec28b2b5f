package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/controllers"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/models/dto"
	"github.com/POPPROJECT/api-nurse-demo/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	experienceController *controllers.StudentExperienceController,
	requestsController *controllers.RequestsController,
	dashboardController *controllers.DashboardController,
	checkStudentController *controllers.CheckStudentController,
	settingController *controllers.AdminSettingController,
	approverController *controllers.ApproverController,
	bookController *controllers.BookController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	approverRoles := []string{string(models.RoleApproverIn), string(models.RoleApproverOut)}
	managerRoles := []string{string(models.RoleAdmin), string(models.RoleExperienceManager)}
	staffRoles := append(append([]string{}, approverRoles...), managerRoles...)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		// Approver directory, used by the student's approver picker
		authenticated.GET("/approvers", approverController.ListByRole)

		// Experience recording toggle is readable by everyone signed in
		authenticated.GET("/settings/experience-counting", settingController.GetExperienceCounting)

		// Student experience routes
		experiences := authenticated.Group("/experiences")
		{
			// Direct PIN confirm/reject works from any signed-in session
			experiences.POST("/:id/confirm", experienceController.Confirm)
			experiences.POST("/:id/reject", experienceController.Reject)

			studentOnly := experiences.Group("")
			studentOnly.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				studentOnly.POST("", experienceController.Create)
				studentOnly.GET("", experienceController.ListOwn)
				studentOnly.PATCH("/:id", experienceController.Update)
				studentOnly.DELETE("/:id", experienceController.Delete)
				studentOnly.POST("/:id/cancel", experienceController.Cancel)
				studentOnly.POST("/:id/confirm-by-approver", experienceController.ConfirmByApprover)
				studentOnly.POST("/confirm-bulk-by-approver", experienceController.ConfirmBulkByApprover)
			}
		}

		// Approver request queue
		requests := authenticated.Group("/requests")
		requests.Use(authMiddleware.RoleRequired(approverRoles...))
		{
			requests.GET("/pending", requestsController.ListPending)
			requests.GET("/logs", requestsController.ListLogs)
			requests.POST("/:id/confirm", requestsController.Confirm)
			requests.POST("/:id/reject", requestsController.Reject)
			requests.POST("/confirm-bulk", requestsController.ConfirmBulk)
			requests.POST("/reject-bulk", requestsController.RejectBulk)
		}

		authenticated.GET("/approvers/me",
			authMiddleware.RoleRequired(approverRoles...), approverController.GetOwnProfile)

		// Progress views for approvers and curriculum managers
		progress := authenticated.Group("")
		progress.Use(authMiddleware.RoleRequired(staffRoles...))
		{
			progress.GET("/dashboard/books/:bookId", dashboardController.GetDashboard)
			progress.GET("/dashboard/books/:bookId/categories/:categoryId/students", dashboardController.StudentsForCategory)
			progress.GET("/check-student", checkStudentController.List)
		}

		// Curriculum catalog. Reads are open to any signed-in user, writes
		// need a manager role.
		books := authenticated.Group("/books")
		{
			books.GET("", bookController.ListBooks)
			books.GET("/:id", bookController.GetBook)
			books.GET("/:id/fields", bookController.ListFields)
			books.GET("/:id/prefixes", bookController.ListPrefixes)

			booksManaged := books.Group("")
			booksManaged.Use(authMiddleware.RoleRequired(managerRoles...))
			{
				booksManaged.POST("", bookController.CreateBook)
				booksManaged.PATCH("/:id", bookController.UpdateBook)
				booksManaged.DELETE("/:id", bookController.DeleteBook)
				booksManaged.POST("/:id/courses", bookController.CreateCourse)
				booksManaged.POST("/:id/prefixes", bookController.CreatePrefix)
			}
		}

		managed := authenticated.Group("")
		managed.Use(authMiddleware.RoleRequired(managerRoles...))
		{
			managed.PATCH("/courses/:id", bookController.UpdateCourse)
			managed.DELETE("/courses/:id", bookController.DeleteCourse)
			managed.POST("/courses/:id/subcourses", bookController.CreateSubCourse)
			managed.PATCH("/subcourses/:id", bookController.UpdateSubCourse)
			managed.DELETE("/subcourses/:id", bookController.DeleteSubCourse)
			managed.DELETE("/prefixes/:id", bookController.DeletePrefix)

			managed.POST("/settings/experience-counting/toggle", settingController.ToggleExperienceCounting)
			managed.DELETE("/admin/experiences/:id", experienceController.AdminDelete)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
