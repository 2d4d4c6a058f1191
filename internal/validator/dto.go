package validator

import (
	"github.com/campuskit/enrollment-service/internal/models"
)

// UserCreateRequest represents the signup request body.
type UserCreateRequest struct {
	Name     string          `json:"name" validate:"required,min=3,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

// UserUpdateRequest represents a user profile update; every field is
// optional.
type UserUpdateRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=3,max=100"`
	Email    *string          `json:"email" validate:"omitempty,email"`
	Password *string          `json:"password" validate:"omitempty,min=6"`
	Role     *models.UserRole `json:"role" validate:"omitempty,user_role"`
}

// LoginRequest represents the credential exchange body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CourseCreateRequest represents the course creation body. Teacher is a
// loosely-typed identifier token (stored id, email, or name).
type CourseCreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Teacher     string `json:"teacher" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	ClassCode   int    `json:"class_code" validate:"required,class_code"`
}

// CourseUpdateRequest represents a course update; every field is optional.
type CourseUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty"`
	Teacher     *string `json:"teacher" validate:"omitempty"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ClassCode   *int    `json:"class_code" validate:"omitempty,class_code"`
}

// EnrollmentCreateRequest carries two loosely-typed identifier tokens: the
// student (id, email, or name) and the course (id, class code, or name).
type EnrollmentCreateRequest struct {
	Student string `json:"student" validate:"required"`
	Course  string `json:"course" validate:"required"`
}
