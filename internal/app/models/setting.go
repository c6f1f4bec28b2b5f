package models

// AdminSetting is the singleton settings row (id = 1).
type AdminSetting struct {
	ID                          int64 `json:"id" db:"id"`
	IsExperienceCountingEnabled bool  `json:"isExperienceCountingEnabled" db:"is_experience_counting_enabled"`
}
