package models

import "time"

// ExperienceBook is a curriculum container owning courses and cohort prefixes.
type ExperienceBook struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Courses     []*Course `json:"courses,omitempty"` // Relation, no db tag
}

// BookPrefix scopes which students count toward a book's statistics:
// a student belongs to the cohort iff their student ID starts with the prefix.
type BookPrefix struct {
	ID     int64  `json:"id" db:"id"`
	BookID int64  `json:"bookId" db:"book_id"`
	Prefix string `json:"prefix" db:"prefix"`
}
