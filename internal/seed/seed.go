package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/app/repositories"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/auth"
)

const defaultAdminEmail = "admin@nursebook.local"

// CreateDefaultData makes sure a fresh database has an admin account and the
// settings row. Safe to call on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := repositories.NewRepositories(dbPool)

	var finalErr error

	// Settings row is created lazily on first read.
	if _, err := repos.Setting.Get(ctx); err != nil {
		lgr.Error().Err(err).Msg("Error ensuring admin settings row")
		finalErr = errors.Join(finalErr, err)
	}

	_, err := repos.User.GetByEmail(ctx, defaultAdminEmail)
	if err == nil {
		return finalErr
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking for default admin user")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Creating default admin user...")
	hashed, err := auth.HashPassword("Admin123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &models.User{
		Email:    defaultAdminEmail,
		Password: hashed,
		Name:     "Administrator",
		Role:     models.RoleAdmin,
		Status:   models.UserStatusEnable,
	}
	if err := repos.User.Create(ctx, admin); err != nil && !errors.Is(err, repositories.ErrEmailExists) {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
