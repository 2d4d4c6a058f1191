package repositories

import "context"

// Repository aggregates the per-entity repositories behind one handle that
// gets injected into the services.
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager owns the repository lifecycle: connect and migrate at
// startup, shut down at exit.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
