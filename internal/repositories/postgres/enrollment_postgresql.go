package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campuskit/enrollment-service/internal/cache"
	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts the enrollment. The composite unique index on
// (student_id, course_id) decides the winner of concurrent duplicate
// creates; the violation surfaces untranslated for the service to remap.
func (r *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return err
	}
	cache.SafeDelete(ctx, r.cacheManager.Exists, existsCacheKey(enrollment.StudentID, enrollment.CourseID))
	return nil
}

func existsCacheKey(studentID, courseID string) string {
	return fmt.Sprintf("enrollment:%s:%s", studentID, courseID)
}

func (r *EnrollmentPostgreSQL) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Preload("Course.Teacher").
		First(&enrollment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists checks whether the student already holds an enrollment in the
// course, with a short-lived cache in front of the count. Create and
// Delete drop the cached answer for the pair they touch.
func (r *EnrollmentPostgreSQL) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	cacheKey := existsCacheKey(studentID, courseID)
	var exists bool

	err := r.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment existence: %w", err)
		}
		return count > 0, nil
	})
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *EnrollmentPostgreSQL) List(ctx context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Preload("Student").
		Preload("Course").
		Preload("Course.Teacher")
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if len(filters.CourseIDs) > 0 {
		query = query.Where("course_id IN ?", filters.CourseIDs)
	}

	var enrollments []*models.Enrollment
	if err := query.Order("enrolled_at DESC").Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *EnrollmentPostgreSQL) ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list course enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count course enrollments: %w", err)
	}
	return count, nil
}

func (r *EnrollmentPostgreSQL) Delete(ctx context.Context, id string) error {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).Select("id", "student_id", "course_id").First(&enrollment, "id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&models.Enrollment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeDelete(ctx, r.cacheManager.Exists, existsCacheKey(enrollment.StudentID, enrollment.CourseID))
	return nil
}
