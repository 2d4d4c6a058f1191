package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campuskit/enrollment-service/internal/auth"
	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/services"
	"github.com/campuskit/enrollment-service/internal/utils"
)

type HandlerManager struct {
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	authMiddleware    *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMgr *auth.Manager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		userHandler:       NewUserHandler(serviceManager.User(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		authMiddleware:    NewJWTAuthMiddleware(authMgr, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// User routes
		users := v1.Group("/users")
		{
			// Signup is open; the handler still needs the principal when one
			// exists, to gate admin-role grants.
			users.POST("", hm.authMiddleware.OptionalAuthMiddleware(), hm.userHandler.CreateUser)
			users.POST("/auth", hm.userHandler.Login)

			authed := users.Group("", hm.authMiddleware.AuthMiddleware())
			{
				authed.GET("", hm.userHandler.ListUsers)
				authed.GET("/:id", hm.userHandler.GetUser)
				authed.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.UpdateUser)
				authed.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.DeleteUser)
			}
		}

		// Course routes
		courses := v1.Group("/courses")
		courses.Use(hm.authMiddleware.AuthMiddleware())
		{
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.DeleteCourse)

			courses.GET("/:id/enrollments", hm.courseHandler.GetCourseRoster)
			courses.GET("/:id/enrollments/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleTeacher), hm.courseHandler.ExportCourseRoster)
		}

		// Enrollment routes
		enrollments := v1.Group("/enrollments")
		enrollments.Use(hm.authMiddleware.AuthMiddleware())
		{
			enrollments.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleStudent), hm.enrollmentHandler.CreateEnrollment)
			enrollments.GET("", hm.enrollmentHandler.ListEnrollments)
			enrollments.DELETE("/:id", hm.enrollmentHandler.DeleteEnrollment)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "enrollment-service",
		})
	})
}
