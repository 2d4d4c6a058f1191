package models

import (
	"time"
)

type Enrollment struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`

	// The composite unique index rejects the second of two concurrent
	// creates for the same (student, course) pair.
	StudentID string `json:"student_id" gorm:"not null;size:36;uniqueIndex:idx_enrollments_student_course"`
	CourseID  string `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_enrollments_student_course"`

	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	EnrolledAt time.Time `json:"enrolled_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// CourseRosterEntry is the shape returned when listing the students
// enrolled in a single course.
type CourseRosterEntry struct {
	EnrollmentID string      `json:"enrollment_id"`
	Student      *PublicUser `json:"student"`
	EnrolledAt   time.Time   `json:"enrolled_at"`
}
