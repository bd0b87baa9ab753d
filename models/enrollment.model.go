package models

import (
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus is the closed set of enrollment states.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentWithdrawn EnrollmentStatus = "WITHDRAWN"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentWithdrawn, EnrollmentSuspended:
		return true
	}
	return false
}

// Member reports whether the status counts toward a course's enrollment_count.
func (s EnrollmentStatus) Member() bool {
	return s == EnrollmentActive || s == EnrollmentCompleted
}

// enrollmentTransitions is the single source of truth for allowed status
// changes. COMPLETED and SUSPENDED rows can only leave their state through
// the instructor/admin override path, never through self-service enrollment.
var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentActive:    {EnrollmentCompleted, EnrollmentWithdrawn, EnrollmentSuspended},
	EnrollmentWithdrawn: {EnrollmentActive, EnrollmentSuspended},
	EnrollmentSuspended: {EnrollmentActive, EnrollmentWithdrawn},
	EnrollmentCompleted: {EnrollmentSuspended},
}

// CanTransition reports whether an enrollment may move between two states.
func CanTransition(from, to EnrollmentStatus) bool {
	for _, next := range enrollmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Enrollment tracks a student's membership and progress in a course.
// At most one row exists per (user, course) pair; withdrawing keeps the row
// around so re-enrollment reactivates it in place with progress intact.
type Enrollment struct {
	gorm.Model
	UserID           uint             `json:"user_id" gorm:"uniqueIndex:idx_enrollments_user_course;not null"`
	CourseID         uint             `json:"course_id" gorm:"uniqueIndex:idx_enrollments_user_course;not null"`
	Status           EnrollmentStatus `json:"status" gorm:"type:varchar(16);default:'ACTIVE'"`
	EnrolledAt       *time.Time       `json:"enrolled_at"`
	CompletedAt      *time.Time       `json:"completed_at"`
	Progress         float64          `json:"progress" gorm:"type:decimal(5,2);default:0"`
	CompletedModules int              `json:"completed_modules" gorm:"default:0"`
	LastAccessed     *time.Time       `json:"last_accessed"`

	User   *User   `json:"student,omitempty" gorm:"foreignKey:UserID"`
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
