package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/enrollment-service/internal/services"
	"github.com/campuskit/enrollment-service/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// CreateCourse creates a new course
// @Summary Create course
// @Description Creates a course; the teacher field is an identifier token (id, email, or name)
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating course", "class_code", req.ClassCode)

	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListCourses lists courses with optional filtering
// @Summary List courses
// @Description Lists courses, optionally filtered by teacher token and name substring
// @Tags courses
// @Produce json
// @Param teacher query string false "Teacher identifier token (id, email, or name)"
// @Param name query string false "Filter by name substring"
// @Success 200 {array} models.Course
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	courses, err := h.courseService.List(c.Request.Context(), services.CourseListFilters{
		Teacher: queryAlias(c, "teacher", "docente"),
		Name:    queryAlias(c, "name", "nombre"),
	})
	if err != nil {
		h.handleFilterError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse retrieves a course by ID
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Getting course", "course_id", courseID)

	course, err := h.courseService.GetByID(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse updates an existing course
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param course body services.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID := c.Param("id")

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating course", "course_id", courseID)

	course, err := h.courseService.Update(c.Request.Context(), courseID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course
// @Summary Delete course
// @Description Deletes a course; refused while enrollments still reference it
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Deleting course", "course_id", courseID)

	if err := h.courseService.Delete(c.Request.Context(), courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

// GetCourseRoster lists the students enrolled in a course
// @Summary Get course roster
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {array} models.CourseRosterEntry
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/enrollments [get]
func (h *CourseHandler) GetCourseRoster(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Getting course roster", "course_id", courseID)

	roster, err := h.courseService.Roster(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// ExportCourseRoster downloads the course roster as an XLSX workbook
// @Summary Export course roster
// @Tags courses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Course ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/enrollments/export [get]
func (h *CourseHandler) ExportCourseRoster(c *gin.Context) {
	courseID := c.Param("id")
	h.LogRequest(c, "Exporting course roster", "course_id", courseID)

	content, filename, err := h.courseService.ExportRoster(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
