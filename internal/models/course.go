package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// MaxCourses is the system-wide course capacity ceiling.
	MaxCourses = 15

	// Class codes are small integers handed out to students; the range is
	// fixed independently of the capacity ceiling.
	MinClassCode = 1
	MaxClassCode = 15
)

type Course struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"not null"`

	TeacherID string `json:"teacher_id" gorm:"not null;size:36;index"`
	Teacher   *User  `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`

	Date datatypes.Date `json:"date" gorm:"not null"`

	// ClassCode is an alternate lookup key; the unique index is the race
	// backstop for concurrent creates with the same code.
	ClassCode int `json:"class_code" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}
