package services

import (
	"context"
	"fmt"
	"time"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
)

// PinStateStore persists the failure counter and lockout timestamp of an
// approver profile.
type PinStateStore interface {
	UpdatePinState(ctx context.Context, profileID int64, failCount int, lockedUntil *time.Time) error
}

// PinGuard validates a submitted PIN against an approver profile while
// enforcing a failure threshold with a cooldown window. Each approval flow
// instantiates its own guard with its own threshold.
type PinGuard struct {
	MaxFail  int
	Cooldown time.Duration

	now func() time.Time // injectable for tests
}

// NewPinGuard creates a guard with the given threshold and cooldown
func NewPinGuard(maxFail int, cooldown time.Duration) PinGuard {
	return PinGuard{MaxFail: maxFail, Cooldown: cooldown, now: time.Now}
}

func (g PinGuard) clock() time.Time {
	if g.now != nil {
		return g.now()
	}
	return time.Now()
}

func lockedError(remaining time.Duration) error {
	minutes := int64((remaining + time.Minute - 1) / time.Minute)
	return apperrors.NewBadRequestError(
		fmt.Sprintf("PIN is locked. Try again in %d minute(s)", minutes))
}

// Validate checks the submitted PIN against the profile. Failures increment
// the persisted counter; reaching the threshold resets the counter and opens
// a lockout window. The new state is persisted before the error is returned.
func (g PinGuard) Validate(ctx context.Context, store PinStateStore, profile *models.ApproverProfile, pin string) error {
	now := g.clock()

	if profile.Locked(now) {
		return lockedError(profile.PinLockedUntil.Sub(now))
	}

	if pin != profile.Pin {
		failCount := profile.PinFailCount + 1
		if failCount >= g.MaxFail {
			lockedUntil := now.Add(g.Cooldown)
			if err := store.UpdatePinState(ctx, profile.ID, 0, &lockedUntil); err != nil {
				return err
			}
			profile.PinFailCount = 0
			profile.PinLockedUntil = &lockedUntil
			return lockedError(g.Cooldown)
		}

		if err := store.UpdatePinState(ctx, profile.ID, failCount, profile.PinLockedUntil); err != nil {
			return err
		}
		profile.PinFailCount = failCount
		return apperrors.NewBadRequestError(
			fmt.Sprintf("Invalid PIN. %d attempt(s) remaining", g.MaxFail-failCount))
	}

	// expired lockouts and stale counters clear on success
	if profile.PinFailCount != 0 || profile.PinLockedUntil != nil {
		if err := store.UpdatePinState(ctx, profile.ID, 0, nil); err != nil {
			return err
		}
		profile.PinFailCount = 0
		profile.PinLockedUntil = nil
	}

	return nil
}
