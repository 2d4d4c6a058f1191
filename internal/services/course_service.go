package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/campuskit/enrollment-service/internal/events"
	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/repositories"
	"github.com/campuskit/enrollment-service/internal/utils"
	"github.com/campuskit/enrollment-service/internal/validator"
)

const courseDateLayout = "2006-01-02"

type courseService struct {
	repo      repositories.Repository
	resolver  *Resolver
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewCourseService(repo repositories.Repository, resolver *Resolver, v *validator.Validator, publisher events.EventPublisher, logger utils.Logger) CourseService {
	return &courseService{
		repo:      repo,
		resolver:  resolver,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// Create opens a new course. The teacher field is a loosely-typed token;
// it must resolve to exactly one user holding the teacher role. Both the
// capacity ceiling and the class-code check are friendly pre-checks; the
// unique index on class_code is the race backstop.
func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.GetBusinessValidator().ValidateCourseCreate(req); err != nil {
		return nil, err
	}

	teacher, err := s.resolver.ResolveUser(ctx, req.Teacher, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Course().Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxCourses {
		return nil, NewConflictError(ConflictCourseCapacity, "course limit of %d reached", models.MaxCourses)
	}

	taken, err := s.repo.Course().ClassCodeTaken(ctx, req.ClassCode, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewConflictError(ConflictClassCodeTaken, "class code %d is already in use", req.ClassCode)
	}

	date, err := time.Parse(courseDateLayout, req.Date)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: "date", Tag: "datetime", Message: "date must be in YYYY-MM-DD format"}}
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   teacher.ID,
		Date:        datatypes.Date(date),
		ClassCode:   req.ClassCode,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError(ConflictClassCodeTaken, "class code %d is already in use", req.ClassCode)
		}
		return nil, err
	}
	course.Teacher = teacher

	s.publishEvent(ctx, events.TypeCourseCreated, map[string]interface{}{
		"course_id":  course.ID,
		"teacher_id": teacher.ID,
		"class_code": course.ClassCode,
	})

	s.logger.Info("course created", "course_id", course.ID, "class_code", course.ClassCode)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrCourseNotFound
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// List returns courses matching the optional filters. The teacher filter
// is a loosely-typed token; a name token matching several teachers means
// "taught by any of them". A teacher token resolving to nobody fails the
// request with the teacher not-found error.
func (s *courseService) List(ctx context.Context, filters CourseListFilters) ([]*models.Course, error) {
	repoFilters := repositories.CourseFilters{}
	if filters.Name != "" {
		name := filters.Name
		repoFilters.Name = &name
	}

	if filters.Teacher != "" {
		teachers, err := s.resolver.ResolveUsersFilter(ctx, filters.Teacher, models.RoleTeacher)
		if err != nil {
			return nil, err
		}
		for _, t := range teachers {
			repoFilters.TeacherIDs = append(repoFilters.TeacherIDs, t.ID)
		}
	}

	return s.repo.Course().List(ctx, repoFilters)
}

func (s *courseService) Update(ctx context.Context, id string, req *UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.GetBusinessValidator().ValidateCourseUpdate(req); err != nil {
		return nil, err
	}

	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Teacher != nil {
		teacher, err := s.resolver.ResolveUser(ctx, *req.Teacher, models.RoleTeacher)
		if err != nil {
			return nil, err
		}
		course.TeacherID = teacher.ID
		course.Teacher = teacher
	}
	if req.Date != nil {
		date, err := time.Parse(courseDateLayout, *req.Date)
		if err != nil {
			return nil, validator.ValidationErrors{{Field: "date", Tag: "datetime", Message: "date must be in YYYY-MM-DD format"}}
		}
		course.Date = datatypes.Date(date)
	}
	if req.ClassCode != nil && *req.ClassCode != course.ClassCode {
		taken, err := s.repo.Course().ClassCodeTaken(ctx, *req.ClassCode, course.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, NewConflictError(ConflictClassCodeTaken, "class code %d is already in use", *req.ClassCode)
		}
		course.ClassCode = *req.ClassCode
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError(ConflictClassCodeTaken, "class code %d is already in use", course.ClassCode)
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	s.logger.Info("course updated", "course_id", course.ID)
	return course, nil
}

// Delete removes a course, refusing while any enrollment still references
// it. The enrollment count is reported so the caller knows how much is in
// the way.
func (s *courseService) Delete(ctx context.Context, id string) error {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.Enrollment().CountByCourse(ctx, course.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return NewConflictError(ConflictCourseHasEnrollments, "cannot delete course: %d enrollment(s) reference it", count)
	}

	if err := s.repo.Course().Delete(ctx, course.ID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return err
	}

	s.logger.Info("course deleted", "course_id", course.ID)
	return nil
}

// Roster lists the students enrolled in a course, newest enrollment first.
func (s *courseService) Roster(ctx context.Context, courseID string) ([]*models.CourseRosterEntry, error) {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment().ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	roster := make([]*models.CourseRosterEntry, 0, len(enrollments))
	for _, e := range enrollments {
		entry := &models.CourseRosterEntry{
			EnrollmentID: e.ID,
			EnrolledAt:   e.EnrolledAt,
		}
		if e.Student != nil {
			entry.Student = e.Student.Public()
		}
		roster = append(roster, entry)
	}
	return roster, nil
}

// ExportRoster renders the course roster as an XLSX workbook.
func (s *courseService) ExportRoster(ctx context.Context, courseID string) ([]byte, string, error) {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	roster, err := s.Roster(ctx, course.ID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Course")
	f.SetCellValue(sheet, "B1", course.Name)
	f.SetCellValue(sheet, "A2", "Class Code")
	f.SetCellValue(sheet, "B2", course.ClassCode)

	headers := []string{"Student", "Email", "Enrolled At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheet, cell, h)
	}

	for i, entry := range roster {
		row := i + 5
		if entry.Student != nil {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.Student.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.Student.Email)
		}
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), entry.EnrolledAt.Format(time.RFC3339))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render roster workbook: %w", err)
	}

	filename := fmt.Sprintf("roster_class_%d.xlsx", course.ClassCode)
	return buf.Bytes(), filename, nil
}

func (s *courseService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}
