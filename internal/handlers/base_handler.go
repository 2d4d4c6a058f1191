package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/enrollment-service/internal/services"
	"github.com/campuskit/enrollment-service/internal/utils"
	"github.com/campuskit/enrollment-service/internal/validator"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse wraps list payloads that carry extra metadata.
type SuccessResponse struct {
	Data any `json:"data"`
}

// BaseHandler provides shared logging and error translation for handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c, h.logger).Error(msg, args...)
}

// handleServiceError translates a service error into an HTTP response.
//
// Resolution failures on body tokens (student, teacher) are client errors:
// the request named something that does not exist. Not-found on a path id
// is a 404. Among conflicts only a taken email is a true 409; the rest
// (class code, capacity, duplicate enrollment, blocked delete) report 400
// with their machine-readable code.
// handleFilterError translates errors from list endpoints, where every
// token arrives as a query filter. A filter naming a student, teacher or
// course that does not exist is a 404 on the filter target, not a bad
// request. Everything else falls through to handleServiceError.
func (h *BaseHandler) handleFilterError(c *gin.Context, err error) {
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
		return
	}
	h.handleServiceError(c, err)
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: ve,
		})
		return
	}

	var ae *services.AmbiguousError
	if errors.As(err, &ae) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: ae.Error(),
		})
		return
	}

	if errors.Is(err, services.ErrStudentNotFound) || errors.Is(err, services.ErrTeacherNotFound) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	if ce, ok := services.AsConflict(err); ok {
		status := http.StatusBadRequest
		if ce.Code == services.ConflictEmailTaken {
			status = http.StatusConflict
		}
		c.JSON(status, ErrorResponse{
			Message: ce.Message,
			Code:    ce.Code,
		})
		return
	}

	if services.IsPermission(err) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	if errors.Is(err, services.ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	h.LogError(c, err, "Unhandled service error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}
