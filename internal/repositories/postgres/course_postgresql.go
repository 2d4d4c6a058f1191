package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campuskit/enrollment-service/internal/cache"
	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		// Uniqueness violations bubble up untranslated so the service can
		// remap them to the class-code conflict.
		return err
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Course, "list:*")
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Course, "count")
	return nil
}

// GetByID retrieves a course with its teacher expanded, with caching.
func (r *CoursePostgreSQL) GetByID(ctx context.Context, id string) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var course models.Course

	err := r.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		err := r.db.WithContext(ctx).
			Preload("Teacher").
			First(&dbCourse, "id = ?", id).Error
		if err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CoursePostgreSQL) GetByClassCode(ctx context.Context, code int) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("class_code = ?", code).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CoursePostgreSQL) GetByName(ctx context.Context, name string) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("LOWER(name) = LOWER(?)", name).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CoursePostgreSQL) SearchByName(ctx context.Context, name string) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("name ILIKE ?", "%"+name+"%").
		Order("name ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	return courses, nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{}).Preload("Teacher")
	if len(filters.TeacherIDs) > 0 {
		query = query.Where("teacher_id IN ?", filters.TeacherIDs)
	}
	if filters.Name != nil {
		query = query.Where("name ILIKE ?", "%"+*filters.Name+"%")
	}

	var courses []*models.Course
	if err := query.Order("created_at ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"name":        course.Name,
			"description": course.Description,
			"teacher_id":  course.TeacherID,
			"date":        course.Date,
			"class_code":  course.ClassCode,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeDelete(ctx, r.cacheManager.Course, fmt.Sprintf("id:%s", course.ID))
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Course, "list:*")
	return nil
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeDelete(ctx, r.cacheManager.Course, fmt.Sprintf("id:%s", id))
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Course, "list:*")
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Course, "count")
	return nil
}

func (r *CoursePostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}

func (r *CoursePostgreSQL) ClassCodeTaken(ctx context.Context, code int, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{}).Where("class_code = ?", code)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check class code: %w", err)
	}
	return count > 0, nil
}
