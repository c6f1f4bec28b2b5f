package models

import (
	"time"
)

// Role defines the access level of a user account.
type Role string

const (
	RoleStudent           Role = "STUDENT"
	RoleApproverIn        Role = "APPROVER_IN"
	RoleApproverOut       Role = "APPROVER_OUT"
	RoleAdmin             Role = "ADMIN"
	RoleExperienceManager Role = "EXPERIENCE_MANAGER"
)

// UserStatus marks whether an account may sign in and count toward cohorts.
type UserStatus string

const (
	UserStatusEnable  UserStatus = "ENABLE"
	UserStatusDisable UserStatus = "DISABLE"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64      `json:"id" db:"id" example:"1"`
	Email     string     `json:"email" db:"email" example:"nurse@university.ac.th"`
	Password  string     `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Name      string     `json:"name" db:"name" example:"Somchai Jaidee"`
	Role      Role       `json:"role" db:"role" example:"STUDENT"`
	Status    UserStatus `json:"status" db:"status" example:"ENABLE"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsApprover reports whether the role is one of the approver roles.
func (r Role) IsApprover() bool {
	return r == RoleApproverIn || r == RoleApproverOut
}
