package models

import "time"

// StudentProfile links a user account to an external student ID. The ID
// string drives prefix-based cohort eligibility.
type StudentProfile struct {
	ID        int64   `json:"id" db:"id"`
	UserID    int64   `json:"userId" db:"user_id"`
	StudentID *string `json:"studentId" db:"student_id"` // Pointer: nullable until assigned
	User      *User   `json:"user,omitempty"`            // Relation, no db tag
}

// ApproverProfile holds the PIN credential and lockout state of an approver.
// The lockout fields are mutated exclusively by the PIN guard.
type ApproverProfile struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"userId" db:"user_id"`
	Pin            string     `json:"-" db:"pin"` // 6-digit PIN, equality-compared
	PinFailCount   int        `json:"pinFailCount" db:"pin_fail_count"`
	PinLockedUntil *time.Time `json:"pinLockedUntil,omitempty" db:"pin_locked_until"`
	User           *User      `json:"user,omitempty"` // Relation, no db tag
}

// Locked reports whether the profile is inside a lockout window at now.
func (p *ApproverProfile) Locked(now time.Time) bool {
	return p.PinLockedUntil != nil && p.PinLockedUntil.After(now)
}
