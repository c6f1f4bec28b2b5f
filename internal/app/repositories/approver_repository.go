package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
)

// Approver error types
var (
	ErrApproverNotFound = errors.New("approver profile not found")
)

// ApproverRepository handles database operations for approver profiles
type ApproverRepository struct {
	db *pgxpool.Pool
}

// NewApproverRepository creates a new approver repository
func NewApproverRepository(db *pgxpool.Pool) *ApproverRepository {
	return &ApproverRepository{db: db}
}

const approverSelect = `
	SELECT ap.id, ap.user_id, ap.pin, ap.pin_fail_count, ap.pin_locked_until,
	       u.id, u.name, u.role, u.status
	FROM approver_profiles ap
	JOIN users u ON ap.user_id = u.id
`

func scanApprover(row pgx.Row) (*models.ApproverProfile, error) {
	var profile models.ApproverProfile
	var user models.User
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Pin,
		&profile.PinFailCount,
		&profile.PinLockedUntil,
		&user.ID,
		&user.Name,
		&user.Role,
		&user.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApproverNotFound
		}
		return nil, fmt.Errorf("error retrieving approver profile: %w", err)
	}
	profile.User = &user
	return &profile, nil
}

// GetByUserID retrieves an approver profile by its owning user id
func (r *ApproverRepository) GetByUserID(ctx context.Context, userID int64) (*models.ApproverProfile, error) {
	return scanApprover(r.db.QueryRow(ctx, approverSelect+` WHERE ap.user_id = $1`, userID))
}

// GetByDisplayName retrieves an approver profile by the user's display name.
// Display names are unique by construction; this backs the name-keyed
// approval routing.
func (r *ApproverRepository) GetByDisplayName(ctx context.Context, name string) (*models.ApproverProfile, error) {
	return scanApprover(r.db.QueryRow(ctx, approverSelect+` WHERE u.name = $1`, name))
}

// UpdatePinState persists the failure counter and lockout timestamp
func (r *ApproverRepository) UpdatePinState(ctx context.Context, profileID int64, failCount int, lockedUntil *time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE approver_profiles
		SET pin_fail_count = $1, pin_locked_until = $2
		WHERE id = $3`,
		failCount, lockedUntil, profileID)
	if err != nil {
		return fmt.Errorf("error updating pin state: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrApproverNotFound
	}
	return nil
}

// ListByRole retrieves all approver profiles whose user carries the given role
func (r *ApproverRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.ApproverProfile, error) {
	rows, err := r.db.Query(ctx, approverSelect+` WHERE u.role = $1 ORDER BY u.name`, role)
	if err != nil {
		return nil, fmt.Errorf("error querying approvers by role: %w", err)
	}
	defer rows.Close()

	var profiles []*models.ApproverProfile
	for rows.Next() {
		profile, err := scanApprover(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
