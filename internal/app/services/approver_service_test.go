package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/POPPROJECT/api-nurse-demo/internal/app/models"
	"github.com/POPPROJECT/api-nurse-demo/internal/pkg/apperrors"
)

func TestApprovers_ListByRole(t *testing.T) {
	approvers := newMockApproverStore()
	approvers.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	approvers.add(2, 11, "Dr. B", "123456", models.RoleApproverIn)
	approvers.add(3, 12, "Dr. C", "123456", models.RoleApproverOut)
	svc := NewApproverService(approvers)

	entries, err := svc.ListByRole(context.Background(), models.RoleApproverIn)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Dr. A", entries[0].ApproverName)
	assert.Equal(t, int64(10), entries[0].ID)
	assert.Equal(t, "Dr. B", entries[1].ApproverName)
}

func TestApprovers_ListByRole_HidesDisabled(t *testing.T) {
	approvers := newMockApproverStore()
	approvers.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	disabled := approvers.add(2, 11, "Dr. B", "123456", models.RoleApproverIn)
	disabled.User.Status = models.UserStatusDisable
	svc := NewApproverService(approvers)

	entries, err := svc.ListByRole(context.Background(), models.RoleApproverIn)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Dr. A", entries[0].ApproverName)
}

func TestApprovers_ListByRole_RejectsNonApproverRole(t *testing.T) {
	svc := NewApproverService(newMockApproverStore())

	_, err := svc.ListByRole(context.Background(), models.RoleStudent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestApprovers_GetOwnProfile(t *testing.T) {
	approvers := newMockApproverStore()
	approvers.add(1, 10, "Dr. A", "123456", models.RoleApproverIn)
	svc := NewApproverService(approvers)

	profile, err := svc.GetOwnProfile(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	assert.Equal(t, "Dr. A", profile.User.Name)
}

func TestApprovers_GetOwnProfile_NotAnApprover(t *testing.T) {
	svc := NewApproverService(newMockApproverStore())

	_, err := svc.GetOwnProfile(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrApproverNotFound))
}
