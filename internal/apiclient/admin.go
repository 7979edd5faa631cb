package apiclient

import (
	"context"
	"net/http"

	"github.com/spec-kit/directory-client/internal/domain"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

// AdminStats fetches dashboard counters.
func (c *Client) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var out domain.AdminStats
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/stats", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPricing returns the active plan prices.
func (c *Client) ListPricing(ctx context.Context) ([]domain.PlanPricing, error) {
	var out []domain.PlanPricing
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/pricing", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

type pricingRequest struct {
	PlanType domain.PlanType `json:"plan_type"`
	Price    float64         `json:"price"`
}

// UpdatePricing sets the price of a plan.
func (c *Client) UpdatePricing(ctx context.Context, plan domain.PlanType, price float64) (string, error) {
	if _, err := domain.ParsePlanType(string(plan)); err != nil {
		return "", apperrors.NewValidationError(err.Error(), nil)
	}
	if price <= 0 {
		return "", apperrors.NewValidationError("price must be greater than zero", map[string]any{"price": price})
	}
	var resp messageResponse
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/admin/pricing",
		body:   pricingRequest{PlanType: plan, Price: price},
		out:    &resp,
	}); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListReports returns moderation reports.
func (c *Client) ListReports(ctx context.Context) ([]domain.Report, error) {
	var out []domain.Report
	if err := c.do(ctx, call{method: http.MethodGet, path: "/admin/reports", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ResolveReport(ctx context.Context, reportID int64) error {
	if reportID <= 0 {
		return apperrors.NewValidationError("report id must be positive", nil)
	}
	return c.do(ctx, call{method: http.MethodPut, path: idPath("/admin/reports/%d/resolve", reportID)})
}

// ToggleAdvertiser flips an advertiser's active flag.
func (c *Client) ToggleAdvertiser(ctx context.Context, advertiserID int64) error {
	if advertiserID <= 0 {
		return apperrors.NewValidationError("advertiser id must be positive", nil)
	}
	return c.do(ctx, call{method: http.MethodPut, path: idPath("/admin/advertisers/%d/toggle_active", advertiserID)})
}
