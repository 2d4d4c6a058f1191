package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/campuskit/enrollment-service/internal/events"
	"github.com/campuskit/enrollment-service/internal/models"
	"github.com/campuskit/enrollment-service/internal/repositories"
	"github.com/campuskit/enrollment-service/internal/utils"
	"github.com/campuskit/enrollment-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	resolver  *Resolver
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewEnrollmentService(repo repositories.Repository, resolver *Resolver, v *validator.Validator, publisher events.EventPublisher, logger utils.Logger) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		resolver:  resolver,
		validator: v,
		publisher: publisher,
		logger:    logger,
	}
}

// Create enrolls a student in a course. Both fields are loosely-typed
// tokens; each must resolve to exactly one record before anything is
// written. The steps run in a fixed order: resolve student, resolve
// course, check ownership against the resolved student, check for a
// duplicate, persist. The duplicate pre-check is friendly; the composite
// unique index on (student_id, course_id) is the race backstop.
func (s *enrollmentService) Create(ctx context.Context, req *CreateEnrollmentRequest, principal Principal) (*models.Enrollment, error) {
	if err := s.validator.GetBusinessValidator().ValidateEnrollmentCreate(req); err != nil {
		return nil, err
	}

	student, err := s.resolver.ResolveUser(ctx, req.Student, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	course, err := s.resolver.ResolveCourse(ctx, req.Course)
	if err != nil {
		return nil, err
	}

	// Ownership is checked against the resolved student, never the raw
	// token: a student naming themself by email or name is still allowed.
	if err := authorizeStudentTarget(principal, student.ID, "enroll"); err != nil {
		return nil, err
	}

	exists, err := s.repo.Enrollment().Exists(ctx, student.ID, course.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewConflictError(ConflictDuplicateEnrollment, "student %s is already enrolled in course %s", student.Name, course.Name)
	}

	enrollment := &models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
	}

	if err := s.repo.Enrollment().Create(ctx, enrollment); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError(ConflictDuplicateEnrollment, "student %s is already enrolled in course %s", student.Name, course.Name)
		}
		return nil, err
	}
	enrollment.Student = student
	enrollment.Course = course

	s.publishEvent(ctx, events.TypeEnrollmentCreated, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"student_id":    student.ID,
		"course_id":     course.ID,
	})

	s.logger.Info("enrollment created", "enrollment_id", enrollment.ID, "student_id", student.ID, "course_id", course.ID)
	return enrollment, nil
}

// List returns enrollments matching the optional filters, newest first.
// Every filter is a loosely-typed token. A filter token that resolves to
// no student, teacher or course fails the request with the matching
// not-found error.
func (s *enrollmentService) List(ctx context.Context, filters EnrollmentListFilters) ([]*models.Enrollment, error) {
	repoFilters := repositories.EnrollmentFilters{}

	if filters.Student != "" {
		student, err := s.resolver.ResolveUser(ctx, filters.Student, models.RoleStudent)
		if err != nil {
			return nil, err
		}
		repoFilters.StudentID = &student.ID
	}

	courseIDs, empty, err := s.resolveCourseFilter(ctx, filters)
	if err != nil {
		return nil, err
	}
	if empty {
		return []*models.Enrollment{}, nil
	}
	repoFilters.CourseIDs = courseIDs

	return s.repo.Enrollment().List(ctx, repoFilters)
}

// resolveCourseFilter turns the course and teacher filter tokens into the
// set of course ids an enrollment must belong to. When both are present
// the sets intersect. The empty result reports that the filters cannot
// match any enrollment.
func (s *enrollmentService) resolveCourseFilter(ctx context.Context, filters EnrollmentListFilters) (ids []string, empty bool, err error) {
	var courseIDs []string

	if filters.Course != "" {
		courses, err := s.resolver.ResolveCoursesFilter(ctx, filters.Course)
		if err != nil {
			return nil, false, err
		}
		for _, c := range courses {
			courseIDs = append(courseIDs, c.ID)
		}
	}

	if filters.Teacher != "" {
		teachers, err := s.resolver.ResolveUsersFilter(ctx, filters.Teacher, models.RoleTeacher)
		if err != nil {
			return nil, false, err
		}
		teacherIDs := make([]string, 0, len(teachers))
		for _, t := range teachers {
			teacherIDs = append(teacherIDs, t.ID)
		}

		taught, err := s.repo.Course().List(ctx, repositories.CourseFilters{TeacherIDs: teacherIDs})
		if err != nil {
			return nil, false, err
		}
		if len(taught) == 0 {
			return nil, true, nil
		}

		if courseIDs == nil {
			for _, c := range taught {
				courseIDs = append(courseIDs, c.ID)
			}
		} else {
			taughtSet := make(map[string]bool, len(taught))
			for _, c := range taught {
				taughtSet[c.ID] = true
			}
			intersection := courseIDs[:0]
			for _, id := range courseIDs {
				if taughtSet[id] {
					intersection = append(intersection, id)
				}
			}
			if len(intersection) == 0 {
				return nil, true, nil
			}
			courseIDs = intersection
		}
	}

	return courseIDs, false, nil
}

// Delete removes an enrollment. Admins may remove any, students their
// own, teachers those of their own courses.
func (s *enrollmentService) Delete(ctx context.Context, id string, principal Principal) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrEnrollmentNotFound
	}

	enrollment, err := s.repo.Enrollment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	if err := authorizeEnrollmentDelete(principal, enrollment); err != nil {
		return err
	}

	if err := s.repo.Enrollment().Delete(ctx, enrollment.ID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	s.publishEvent(ctx, events.TypeEnrollmentDeleted, map[string]interface{}{
		"enrollment_id": enrollment.ID,
		"student_id":    enrollment.StudentID,
		"course_id":     enrollment.CourseID,
	})

	s.logger.Info("enrollment deleted", "enrollment_id", enrollment.ID, "deleted_by", principal.ID)
	return nil
}

func (s *enrollmentService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}
