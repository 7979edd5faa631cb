// Package preferences stores UI preference entries next to the credential.
// They have no bearing on session correctness.
package preferences

import (
	"context"
	"time"

	"github.com/spec-kit/directory-client/internal/persistence"
)

const (
	KeyBetaBannerDismissed      = "beta_banner_dismissed"
	KeyMigrationNoticeLastShown = "migration_notice_last_shown"
	MigrationNoticeInterval     = 7 * 24 * time.Hour
)

// Banner tracks dismissal of the beta banner and the migration notice.
type Banner struct {
	store persistence.Store
}

// NewBanner binds preferences to store.
func NewBanner(store persistence.Store) *Banner {
	return &Banner{store: store}
}

// DismissBanner hides the beta banner for good.
func (b *Banner) DismissBanner(ctx context.Context) error {
	return b.store.Set(ctx, KeyBetaBannerDismissed, "true")
}

// BannerDismissed reports whether the beta banner was dismissed. Unreadable
// entries count as not dismissed.
func (b *Banner) BannerDismissed(ctx context.Context) bool {
	val, err := b.store.Get(ctx, KeyBetaBannerDismissed)
	return err == nil && val == "true"
}

// DismissMigrationNotice records when the notice was last acknowledged.
func (b *Banner) DismissMigrationNotice(ctx context.Context, now time.Time) error {
	return b.store.Set(ctx, KeyMigrationNoticeLastShown, now.UTC().Format(time.RFC3339))
}

// ShouldShowMigrationNotice is true when the notice was never dismissed, the
// stored timestamp is unreadable, or a week has passed since.
func (b *Banner) ShouldShowMigrationNotice(ctx context.Context, now time.Time) bool {
	val, err := b.store.Get(ctx, KeyMigrationNoticeLastShown)
	if err != nil {
		return true
	}
	last, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return true
	}
	return now.Sub(last) >= MigrationNoticeInterval
}
