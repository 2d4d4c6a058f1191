package services

import (
	"github.com/campuskit/enrollment-service/internal/models"
)

// Principal is the authenticated actor behind a request. A zero Principal
// means the request carried no credential (signup is the only mutating
// endpoint where that is allowed).
type Principal struct {
	ID   string
	Role models.UserRole
}

func (p Principal) Authenticated() bool {
	return p.ID != ""
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// authorizeStudentTarget enforces the ownership restriction on actions a
// student principal may invoke: the resolved target student must be the
// principal themself. The check runs after resolution on purpose: the
// restriction is against the resolved identity, not the raw token.
func authorizeStudentTarget(p Principal, targetStudentID, action string) error {
	if p.Role != models.RoleStudent {
		return nil
	}
	if p.ID == targetStudentID {
		return nil
	}
	return NewPermissionError(p.ID, "enrollment", action, "students may only "+action+" for themselves")
}

// authorizeEnrollmentDelete decides who may remove an enrollment: an
// admin, the enrolled student, or the teacher of the enrollment's course.
func authorizeEnrollmentDelete(p Principal, enrollment *models.Enrollment) error {
	switch p.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleStudent:
		if p.ID == enrollment.StudentID {
			return nil
		}
		return NewPermissionError(p.ID, "enrollment", "delete", "students may only unenroll themselves")
	case models.RoleTeacher:
		if enrollment.Course != nil && p.ID == enrollment.Course.TeacherID {
			return nil
		}
		return NewPermissionError(p.ID, "enrollment", "delete", "teachers may only remove enrollments from their own courses")
	default:
		return NewPermissionError(p.ID, "enrollment", "delete", "role not permitted")
	}
}

// authorizeAdminRoleGrant enforces that only an authenticated admin may
// create a user holding the admin role, independent of the open signup
// gate for students and teachers.
func authorizeAdminRoleGrant(p Principal, requested models.UserRole) error {
	if requested != models.RoleAdmin {
		return nil
	}
	if p.Authenticated() && p.IsAdmin() {
		return nil
	}
	return NewPermissionError(p.ID, "user", "create", "only admins may create admin users")
}
