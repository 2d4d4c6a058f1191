package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/enrollment-service/internal/services"
	"github.com/campuskit/enrollment-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// CreateEnrollment enrolls a student in a course
// @Summary Create enrollment
// @Description Enrolls a student in a course; both fields are identifier tokens
// @Tags enrollments
// @Accept json
// @Produce json
// @Param enrollment body services.CreateEnrollmentRequest true "Enrollment data"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /enrollments [post]
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req services.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating enrollment")

	enrollment, err := h.enrollmentService.Create(c.Request.Context(), &req, principalFromContext(c))
	if err != nil {
		// The course came from a body token here, so a missing course is a
		// client error, not a 404.
		if errors.Is(err, services.ErrCourseNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: err.Error(),
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// ListEnrollments lists enrollments with optional filtering
// @Summary List enrollments
// @Description Lists enrollments, optionally filtered by student, course, and teacher tokens
// @Tags enrollments
// @Produce json
// @Param student query string false "Student identifier token"
// @Param course query string false "Course identifier token"
// @Param teacher query string false "Teacher identifier token"
// @Success 200 {array} models.Enrollment
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	h.LogRequest(c, "Listing enrollments")

	enrollments, err := h.enrollmentService.List(c.Request.Context(), services.EnrollmentListFilters{
		Student: queryAlias(c, "student", "alumno"),
		Course:  queryAlias(c, "course", "curso"),
		Teacher: queryAlias(c, "teacher", "docente"),
	})
	if err != nil {
		h.handleFilterError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// DeleteEnrollment removes an enrollment
// @Summary Delete enrollment
// @Description Deletes an enrollment; admins any, students their own, teachers those of their courses
// @Tags enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	enrollmentID := c.Param("id")
	h.LogRequest(c, "Deleting enrollment", "enrollment_id", enrollmentID)

	if err := h.enrollmentService.Delete(c.Request.Context(), enrollmentID, principalFromContext(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "enrollment deleted"})
}
