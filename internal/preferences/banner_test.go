package preferences

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/directory-client/internal/persistence"
)

func TestBanner_Dismissal(t *testing.T) {
	ctx := context.Background()
	b := NewBanner(persistence.NewMemory())

	assert.False(t, b.BannerDismissed(ctx))
	require.NoError(t, b.DismissBanner(ctx))
	assert.True(t, b.BannerDismissed(ctx))
}

func TestBanner_MigrationNoticeWeeklyCadence(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemory()
	b := NewBanner(store)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, b.ShouldShowMigrationNotice(ctx, now), "never dismissed")

	require.NoError(t, b.DismissMigrationNotice(ctx, now))
	assert.False(t, b.ShouldShowMigrationNotice(ctx, now.Add(6*24*time.Hour)))
	assert.True(t, b.ShouldShowMigrationNotice(ctx, now.Add(7*24*time.Hour)))

	require.NoError(t, store.Set(ctx, KeyMigrationNoticeLastShown, "yesterday"))
	assert.True(t, b.ShouldShowMigrationNotice(ctx, now), "unparseable timestamp")
}

func TestBanner_DoesNotTouchCredential(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemory()
	require.NoError(t, store.Set(ctx, "token", "a.b.c"))

	b := NewBanner(store)
	require.NoError(t, b.DismissBanner(ctx))
	require.NoError(t, b.DismissMigrationNotice(ctx, time.Now()))

	val, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", val)
}
