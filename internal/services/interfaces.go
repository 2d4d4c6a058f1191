package services

import (
	"context"

	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateUserRequest = validator.UserCreateRequest
type UpdateUserRequest = validator.UserUpdateRequest
type LoginRequest = validator.LoginRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateEnrollmentRequest = validator.EnrollmentCreateRequest

type LoginResponse struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user"`
}

// UserListFilters are the query-string filters on GET /users.
type UserListFilters struct {
	Role string
	Name string
}

// CourseListFilters are the query-string filters on GET /courses. Teacher
// is a loosely-typed identifier token.
type CourseListFilters struct {
	Teacher string
	Name    string
}

// EnrollmentListFilters are the query-string filters on GET /enrollments.
// All three are loosely-typed identifier tokens.
type EnrollmentListFilters struct {
	Student string
	Course  string
	Teacher string
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest, principal Principal) (*models.PublicUser, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetByID(ctx context.Context, id string) (*models.PublicUser, error)
	List(ctx context.Context, filters UserListFilters) ([]*models.PublicUser, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.PublicUser, error)
	Delete(ctx context.Context, id string) error
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filters CourseListFilters) ([]*models.Course, error)
	Update(ctx context.Context, id string, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	Roster(ctx context.Context, courseID string) ([]*models.CourseRosterEntry, error)
	// ExportRoster renders the course roster as an XLSX workbook and
	// returns the file contents plus a suggested filename.
	ExportRoster(ctx context.Context, courseID string) ([]byte, string, error)
}

type EnrollmentService interface {
	Create(ctx context.Context, req *CreateEnrollmentRequest, principal Principal) (*models.Enrollment, error)
	List(ctx context.Context, filters EnrollmentListFilters) ([]*models.Enrollment, error)
	Delete(ctx context.Context, id string, principal Principal) error
}

// ServiceManager owns the service instances and their shared dependencies.
type ServiceManager interface {
	User() UserService
	Course() CourseService
	Enrollment() EnrollmentService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
