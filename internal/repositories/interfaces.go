package repositories

import (
	"context"

	"github.com/campuskit/enrollment-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role *models.UserRole
	// Name is matched as a case-insensitive substring.
	Name *string
}

type CourseFilters struct {
	// TeacherIDs filters to courses taught by any of the given teachers
	// (a teacher-name filter can resolve to several users).
	TeacherIDs []string
	// Name is matched as a case-insensitive substring.
	Name *string
}

type EnrollmentFilters struct {
	StudentID *string
	// CourseIDs filters to enrollments in any of the given courses.
	CourseIDs []string
}

// ===== ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDAndRole returns not-found when the id exists under a
	// different role; callers cannot tell the two cases apart.
	GetByIDAndRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailAndRole(ctx context.Context, email string, role models.UserRole) (*models.User, error)
	// SearchByName matches a case-insensitive substring, optionally
	// filtered to one role. All matches are returned; the caller decides
	// whether more than one is acceptable.
	SearchByName(ctx context.Context, name string, role *models.UserRole) ([]*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	GetByClassCode(ctx context.Context, code int) (*models.Course, error)
	// GetByName is an exact, case-insensitive match.
	GetByName(ctx context.Context, name string) (*models.Course, error)
	// SearchByName matches a case-insensitive substring.
	SearchByName(ctx context.Context, name string) ([]*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// ClassCodeTaken reports whether any course other than excludeID
	// already uses the code. Pass excludeID == "" when creating.
	ClassCodeTaken(ctx context.Context, code int, excludeID string) (bool, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id string) (*models.Enrollment, error)
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	List(ctx context.Context, filters EnrollmentFilters) ([]*models.Enrollment, error)
	// ListByCourse returns a course's enrollments with students expanded,
	// newest first.
	ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	Delete(ctx context.Context, id string) error
}
