package apiclient

import (
	"context"
	"net/http"

	"github.com/spec-kit/directory-client/internal/domain"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

// ListFavorites returns the signed-in consumer's favourite advertisers.
func (c *Client) ListFavorites(ctx context.Context) ([]domain.AdvertiserSummary, error) {
	var out []domain.AdvertiserSummary
	if err := c.do(ctx, call{method: http.MethodGet, path: "/user/favorites", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// IsFavorite reports whether advertiserID is among the consumer's favourites.
func (c *Client) IsFavorite(ctx context.Context, advertiserID int64) (bool, error) {
	if advertiserID <= 0 {
		return false, apperrors.NewValidationError("advertiser id must be positive", nil)
	}
	var out struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: idPath("/user/favorites/%d", advertiserID), out: &out}); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}

func (c *Client) AddFavorite(ctx context.Context, advertiserID int64) error {
	if advertiserID <= 0 {
		return apperrors.NewValidationError("advertiser id must be positive", nil)
	}
	return c.do(ctx, call{method: http.MethodPost, path: idPath("/user/favorites/%d", advertiserID)})
}

func (c *Client) RemoveFavorite(ctx context.Context, advertiserID int64) error {
	if advertiserID <= 0 {
		return apperrors.NewValidationError("advertiser id must be positive", nil)
	}
	return c.do(ctx, call{method: http.MethodDelete, path: idPath("/user/favorites/%d", advertiserID)})
}
