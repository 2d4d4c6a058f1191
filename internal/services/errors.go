package services

import (
	"errors"
	"fmt"

	"github.com/campuskit/enrollment-service/internal/validator"
)

// Sentinel errors for absent or unusable targets. Role-filtered lookups
// deliberately collapse "does not exist" and "exists under another role"
// into the same not-found error.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrStudentNotFound    = errors.New("student does not exist or is not valid")
	ErrTeacherNotFound    = errors.New("teacher does not exist or is not valid")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
)

// Machine-readable conflict codes, so clients do not have to match on
// message text.
const (
	ConflictEmailTaken           = "EMAIL_TAKEN"
	ConflictClassCodeTaken       = "CLASS_CODE_TAKEN"
	ConflictCourseCapacity       = "COURSE_CAPACITY"
	ConflictDuplicateEnrollment  = "DUPLICATE_ENROLLMENT"
	ConflictCourseHasEnrollments = "COURSE_HAS_ENROLLMENTS"
)

// ConflictError reports a uniqueness or capacity violation.
type ConflictError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(code, format string, args ...interface{}) *ConflictError {
	return &ConflictError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// PermissionError reports a role gate or ownership violation.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s: %s", e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// AmbiguousError reports that a non-exact lookup matched more than one
// record where exactly one was required.
type AmbiguousError struct {
	Kind    string
	Token   string
	Matches int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s identifier %q is ambiguous: %d matches", e.Kind, e.Token, e.Matches)
}

// ===== CLASSIFICATION HELPERS (used by the HTTP layer) =====

func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrTeacherNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}

func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

func IsAmbiguous(err error) bool {
	var ae *AmbiguousError
	return errors.As(err, &ae)
}

func IsValidation(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}
