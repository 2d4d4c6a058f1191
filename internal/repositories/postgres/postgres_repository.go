package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/repositories"
)

// RepositoryConfig carries the connections repositories are built from.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

type postgresRepository struct {
	db          *gorm.DB
	redisClient *redis.Client

	user       repositories.UserRepository
	course     repositories.CourseRepository
	enrollment repositories.EnrollmentRepository
}

func (r *postgresRepository) User() repositories.UserRepository             { return r.user }
func (r *postgresRepository) Course() repositories.CourseRepository         { return r.course }
func (r *postgresRepository) Enrollment() repositories.EnrollmentRepository { return r.enrollment }

func (r *postgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *postgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type repositoryManager struct {
	config RepositoryConfig
	repo   *postgresRepository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

// Initialize migrates the schema and builds the entity repositories. The
// unique indexes created here (users.email, courses.class_code, and the
// composite enrollment index) are the last line of defense against
// concurrent conflicting writes.
func (m *repositoryManager) Initialize() error {
	db := m.config.DB

	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	m.repo = &postgresRepository{
		db:          db,
		redisClient: m.config.RedisClient,
		user:        NewUserPostgreSQL(db, m.config.RedisClient),
		course:      NewCoursePostgreSQL(db, m.config.RedisClient),
		enrollment:  NewEnrollmentPostgreSQL(db, m.config.RedisClient),
	}
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
