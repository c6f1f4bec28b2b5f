package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
)

func guardAt(t time.Time, maxFail int, cooldown time.Duration) PinGuard {
	g := NewPinGuard(maxFail, cooldown)
	g.now = func() time.Time { return t }
	return g
}

func TestPinGuard_WrongPinIncrementsAndPersists(t *testing.T) {
	store := newMockApproverStore()
	profile := store.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	guard := guardAt(time.Now(), 5, time.Hour)

	err := guard.Validate(context.Background(), store, profile, "000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 attempt(s) remaining")
	assert.Equal(t, 1, profile.PinFailCount)
	assert.Nil(t, profile.PinLockedUntil)
	assert.Equal(t, 1, store.updates)
}

func TestPinGuard_ThresholdLocksAndResetsCounter(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newMockApproverStore()
	profile := store.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	profile.PinFailCount = 4
	guard := guardAt(now, 5, time.Hour)

	err := guard.Validate(context.Background(), store, profile, "000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "60 minute(s)")

	// counter resets when the lock opens
	assert.Equal(t, 0, profile.PinFailCount)
	require.NotNil(t, profile.PinLockedUntil)
	assert.Equal(t, now.Add(time.Hour), *profile.PinLockedUntil)
}

func TestPinGuard_LockedRejectsEvenCorrectPin(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newMockApproverStore()
	profile := store.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	lockedUntil := now.Add(90 * time.Second)
	profile.PinLockedUntil = &lockedUntil
	guard := guardAt(now, 5, time.Hour)

	err := guard.Validate(context.Background(), store, profile, "123456")
	require.Error(t, err)
	// 90s remaining rounds up to 2 minutes
	assert.Contains(t, err.Error(), "2 minute(s)")
	assert.Equal(t, 0, store.updates)
}

func TestPinGuard_ExpiredLockClearsOnSuccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newMockApproverStore()
	profile := store.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	expired := now.Add(-time.Minute)
	profile.PinLockedUntil = &expired
	guard := guardAt(now, 5, time.Hour)

	err := guard.Validate(context.Background(), store, profile, "123456")
	require.NoError(t, err)
	assert.Nil(t, profile.PinLockedUntil)
	assert.Equal(t, 0, profile.PinFailCount)
	assert.Equal(t, 1, store.updates)
}

func TestPinGuard_SuccessResetsCounter(t *testing.T) {
	store := newMockApproverStore()
	profile := store.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	profile.PinFailCount = 3
	guard := guardAt(time.Now(), 5, time.Hour)

	err := guard.Validate(context.Background(), store, profile, "123456")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.PinFailCount)
}

func TestPinGuard_CleanSuccessSkipsPersistence(t *testing.T) {
	store := newMockApproverStore()
	profile := store.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	guard := guardAt(time.Now(), 5, time.Hour)

	err := guard.Validate(context.Background(), store, profile, "123456")
	require.NoError(t, err)
	assert.Equal(t, 0, store.updates)
}

func TestPinGuard_StudentFlowLocksAfterThree(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newMockApproverStore()
	profile := store.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	guard := guardAt(now, 3, 30*time.Minute)

	ctx := context.Background()
	require.Error(t, guard.Validate(ctx, store, profile, "000000"))
	require.Error(t, guard.Validate(ctx, store, profile, "000000"))
	err := guard.Validate(ctx, store, profile, "000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "30 minute(s)")
	require.NotNil(t, profile.PinLockedUntil)
	assert.Equal(t, now.Add(30*time.Minute), *profile.PinLockedUntil)
}
