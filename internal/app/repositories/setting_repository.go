package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
)

// SettingRepository handles the singleton admin settings row
type SettingRepository struct {
	db *pgxpool.Pool
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get retrieves the settings row, creating it with defaults on first use
func (r *SettingRepository) Get(ctx context.Context) (*models.AdminSetting, error) {
	var setting models.AdminSetting
	err := r.db.QueryRow(ctx, `
		INSERT INTO admin_settings (id, is_experience_counting_enabled)
		VALUES (1, true)
		ON CONFLICT (id) DO UPDATE SET id = admin_settings.id
		RETURNING id, is_experience_counting_enabled`).
		Scan(&setting.ID, &setting.IsExperienceCountingEnabled)
	if err != nil {
		return nil, fmt.Errorf("error retrieving admin settings: %w", err)
	}
	return &setting, nil
}

// SetExperienceCounting flips the experience-counting toggle
func (r *SettingRepository) SetExperienceCounting(ctx context.Context, enabled bool) error {
	_, err := r.db.Exec(ctx, `
		UPDATE admin_settings SET is_experience_counting_enabled = $1 WHERE id = 1`, enabled)
	if err != nil {
		return fmt.Errorf("error updating admin settings: %w", err)
	}
	return nil
}
