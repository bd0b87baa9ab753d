package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Module represents a section within a course. The number of modules a course
// owns is the denominator for enrollment progress.
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"default:''"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `gorm:"default:false"`
}

// Lesson is an ordered unit of content inside a module. Content holds the
// rendered blocks (text, video refs, attachments) as raw JSON.
type Lesson struct {
	gorm.Model
	ModuleID   uint           `json:"module_id" gorm:"index;not null"`
	Title      string         `json:"title" gorm:"not null"`
	Content    datatypes.JSON `json:"content"`
	OrderIndex int            `json:"order_index" gorm:"default:0"`
	IsDeleted  bool           `gorm:"default:false"`
}
