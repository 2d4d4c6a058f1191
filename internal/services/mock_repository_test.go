package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/repositories"
)

// mockRepository is an in-memory repositories.Repository for service
// tests. It mirrors the storage semantics the services rely on: not-found
// as gorm.ErrRecordNotFound, uniqueness violations as ErrDuplicateKey.
type mockRepository struct {
	users       *mockUserRepo
	courses     *mockCourseRepo
	enrollments *mockEnrollmentRepo
}

func newMockRepository() *mockRepository {
	users := &mockUserRepo{byID: make(map[string]*models.User)}
	courses := &mockCourseRepo{byID: make(map[string]*models.Course)}
	enrollments := &mockEnrollmentRepo{byID: make(map[string]*models.Enrollment), users: users, courses: courses}
	return &mockRepository{users: users, courses: courses, enrollments: enrollments}
}

func (m *mockRepository) User() repositories.UserRepository             { return m.users }
func (m *mockRepository) Course() repositories.CourseRepository         { return m.courses }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository { return m.enrollments }
func (m *mockRepository) Ping(ctx context.Context) error                { return nil }
func (m *mockRepository) Close() error                                  { return nil }

// ===== USERS =====

type mockUserRepo struct {
	byID map[string]*models.User
}

func (r *mockUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.byID[user.ID] = user
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByIDAndRole(_ context.Context, id string, role models.UserRole) (*models.User, error) {
	if u, ok := r.byID[id]; ok && u.Role == role {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByEmailAndRole(_ context.Context, email string, role models.UserRole) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email && u.Role == role {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) SearchByName(_ context.Context, name string, role *models.UserRole) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.byID {
		if !strings.Contains(strings.ToLower(u.Name), strings.ToLower(name)) {
			continue
		}
		if role != nil && u.Role != *role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockUserRepo) List(_ context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.byID {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.Name != nil && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(*filters.Name)) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, u := range r.byID {
		if u.ID != user.ID && u.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	r.byID[user.ID] = user
	return nil
}

func (r *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

// ===== COURSES =====

type mockCourseRepo struct {
	byID map[string]*models.Course
}

func (r *mockCourseRepo) Create(_ context.Context, course *models.Course) error {
	for _, c := range r.byID {
		if c.ClassCode == course.ClassCode {
			return repositories.ErrDuplicateKey
		}
	}
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	r.byID[course.ID] = course
	return nil
}

func (r *mockCourseRepo) GetByID(_ context.Context, id string) (*models.Course, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) GetByClassCode(_ context.Context, code int) (*models.Course, error) {
	for _, c := range r.byID {
		if c.ClassCode == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) GetByName(_ context.Context, name string) (*models.Course, error) {
	for _, c := range r.byID {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) SearchByName(_ context.Context, name string) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range r.byID {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockCourseRepo) List(_ context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range r.byID {
		if len(filters.TeacherIDs) > 0 && !containsString(filters.TeacherIDs, c.TeacherID) {
			continue
		}
		if filters.Name != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*filters.Name)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := r.byID[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, c := range r.byID {
		if c.ID != course.ID && c.ClassCode == course.ClassCode {
			return repositories.ErrDuplicateKey
		}
	}
	r.byID[course.ID] = course
	return nil
}

func (r *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *mockCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *mockCourseRepo) ClassCodeTaken(_ context.Context, code int, excludeID string) (bool, error) {
	for _, c := range r.byID {
		if c.ClassCode == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ===== ENROLLMENTS =====

type mockEnrollmentRepo struct {
	byID    map[string]*models.Enrollment
	users   *mockUserRepo
	courses *mockCourseRepo
}

func (r *mockEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	for _, e := range r.byID {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return repositories.ErrDuplicateKey
		}
	}
	if enrollment.ID == "" {
		enrollment.ID = uuid.New().String()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	r.byID[enrollment.ID] = enrollment
	return nil
}

func (r *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*models.Enrollment, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.expand(e)
	return e, nil
}

func (r *mockEnrollmentRepo) Exists(_ context.Context, studentID, courseID string) (bool, error) {
	for _, e := range r.byID {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockEnrollmentRepo) List(_ context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, e := range r.byID {
		if filters.StudentID != nil && e.StudentID != *filters.StudentID {
			continue
		}
		if len(filters.CourseIDs) > 0 && !containsString(filters.CourseIDs, e.CourseID) {
			continue
		}
		r.expand(e)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledAt.After(out[j].EnrolledAt) })
	return out, nil
}

func (r *mockEnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	return r.List(ctx, repositories.EnrollmentFilters{CourseIDs: []string{courseID}})
}

func (r *mockEnrollmentRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var count int64
	for _, e := range r.byID {
		if e.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (r *mockEnrollmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *mockEnrollmentRepo) expand(e *models.Enrollment) {
	if u, ok := r.users.byID[e.StudentID]; ok {
		e.Student = u
	}
	if c, ok := r.courses.byID[e.CourseID]; ok {
		e.Course = c
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
