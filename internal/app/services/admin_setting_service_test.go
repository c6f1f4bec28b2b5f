package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_ToggleExperienceCounting(t *testing.T) {
	store := &mockSettingStore{enabled: true}
	svc := NewAdminSettingService(store)

	enabled, err := svc.GetExperienceCounting(context.Background())
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = svc.ToggleExperienceCounting(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.False(t, store.enabled)

	enabled, err = svc.ToggleExperienceCounting(context.Background())
	require.NoError(t, err)
	assert.True(t, enabled)
}
