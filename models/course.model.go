package models

import "gorm.io/gorm"

// CourseStatus is the closed set of course lifecycle states.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "DRAFT"
	CoursePublished CourseStatus = "PUBLISHED"
	CourseArchived  CourseStatus = "ARCHIVED"
	CourseRejected  CourseStatus = "REJECTED"
)

// Course represents a learning course owned by an instructor.
// EnrollmentCount is a cached counter over the enrollment ledger and is only
// ever written by the enrollment service.
type Course struct {
	gorm.Model
	Title           string       `json:"title" gorm:"not null"`
	Intro           string       `json:"course_intro" gorm:"default:''"`
	Description     string       `json:"description" gorm:"type:text"`
	InstructorID    uint         `json:"instructor_id" gorm:"index;not null"`
	Status          CourseStatus `json:"status" gorm:"type:varchar(16);default:'DRAFT'"`
	IsActive        bool         `json:"is_active" gorm:"default:true"`
	EnrollmentCount int          `json:"enrollment_count" gorm:"default:0"`
	Rating          uint         `json:"rating" gorm:"default:0"`
	ThumbnailURL    string       `json:"thumbnail_url" gorm:"default:''"`
	IsDeleted       bool         `gorm:"default:false"`

	Instructor *User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
}

// Enrollable reports whether the course accepts new enrollments.
func (c *Course) Enrollable() bool {
	return c.Status == CoursePublished && c.IsActive
}
