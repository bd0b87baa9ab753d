package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// Account approval states. Instructor signups stay PENDING until an admin
// approves them; students and admins are APPROVED from the start.
const (
	UserPending  = "PENDING"
	UserApproved = "APPROVED"
)

type User struct {
	gorm.Model
	Name         string     `json:"name" gorm:"default:''"`
	Email        string     `json:"email" gorm:"unique;not null"`
	Password     string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"type:varchar(16);default:'STUDENT'"`
	Status       string     `json:"status" gorm:"type:varchar(16);default:'APPROVED'"`
	Bio          string     `json:"bio" gorm:"default:''"`
	ProfileImage string     `json:"profile_image" gorm:"default:''"`
	LastLogin    *time.Time `json:"last_login"`
	IsDeleted    bool       `gorm:"default:false"`
}
