package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spec-kit/directory-client/internal/domain"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

// SearchAdvertisers lists active advertisers matching filter.
func (c *Client) SearchAdvertisers(ctx context.Context, filter domain.SearchFilter) ([]domain.AdvertiserSummary, error) {
	query := url.Values{}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query.Set("query", q)
	}
	if filter.CategoryID > 0 {
		query.Set("category_id", strconv.FormatInt(filter.CategoryID, 10))
	}
	if filter.CityID > 0 {
		query.Set("city_id", strconv.FormatInt(filter.CityID, 10))
	}

	var out []domain.AdvertiserSummary
	if err := c.do(ctx, call{method: http.MethodGet, path: "/advertiser/", query: query, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAdvertiser fetches a full advertiser profile.
func (c *Client) GetAdvertiser(ctx context.Context, id int64) (*domain.Advertiser, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("advertiser id must be positive", nil)
	}
	var out domain.Advertiser
	if err := c.do(ctx, call{method: http.MethodGet, path: idPath("/advertiser/%d", id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// TopAdvertisers returns the ten most recently joined advertisers.
func (c *Client) TopAdvertisers(ctx context.Context) ([]domain.AdvertiserSummary, error) {
	var out []domain.AdvertiserSummary
	if err := c.do(ctx, call{method: http.MethodGet, path: "/advertiser/top10", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// ListReviews returns the reviews of an advertiser.
func (c *Client) ListReviews(ctx context.Context, advertiserID int64) ([]domain.Review, error) {
	if advertiserID <= 0 {
		return nil, apperrors.NewValidationError("advertiser id must be positive", nil)
	}
	var out []domain.Review
	if err := c.do(ctx, call{method: http.MethodGet, path: idPath("/advertiser/%d/reviews", advertiserID), out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview posts a rating from 1 to 5 with a non-empty comment.
func (c *Client) CreateReview(ctx context.Context, advertiserID int64, rating int, comment string) error {
	if advertiserID <= 0 {
		return apperrors.NewValidationError("advertiser id must be positive", nil)
	}
	if rating < 1 || rating > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}
	if strings.TrimSpace(comment) == "" {
		return apperrors.NewValidationError("comment required", nil)
	}
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   idPath("/advertiser/%d/reviews", advertiserID),
		body:   reviewRequest{Rating: rating, Comment: strings.TrimSpace(comment)},
	})
}
