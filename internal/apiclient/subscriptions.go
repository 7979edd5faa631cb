package apiclient

import (
	"context"
	"net/http"

	"github.com/spec-kit/directory-client/internal/domain"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

// ListPlans returns the public plan catalogue keyed by plan type.
func (c *Client) ListPlans(ctx context.Context) (map[string]domain.Plan, error) {
	out := map[string]domain.Plan{}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/advertiser/plans", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

// Subscribe starts a subscription and returns the gateway details to display.
func (c *Client) Subscribe(ctx context.Context, plan domain.PlanType) (*domain.SubscriptionIntent, error) {
	if _, err := domain.ParsePlanType(string(plan)); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	var out domain.SubscriptionIntent
	if err := c.do(ctx, call{method: http.MethodPost, path: "/advertiser/subscribe/" + string(plan), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentInfo returns manual payment instructions for plan.
func (c *Client) PaymentInfo(ctx context.Context, plan domain.PlanType) (*domain.PaymentInfo, error) {
	if _, err := domain.ParsePlanType(string(plan)); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	var out domain.PaymentInfo
	if err := c.do(ctx, call{method: http.MethodGet, path: "/advertiser/payment-info/" + string(plan), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

type confirmPaymentRequest struct {
	PlanType      domain.PlanType `json:"plan_type"`
	PaymentMethod string          `json:"payment_method"`
}

// ConfirmPayment tells the API a manual payment was made.
func (c *Client) ConfirmPayment(ctx context.Context, plan domain.PlanType, method string) (*domain.PaymentConfirmation, error) {
	if _, err := domain.ParsePlanType(string(plan)); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if method == "" {
		return nil, apperrors.NewValidationError("payment method required", nil)
	}
	var out domain.PaymentConfirmation
	if err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/advertiser/confirm-payment",
		body:   confirmPaymentRequest{PlanType: plan, PaymentMethod: method},
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscriptionStatus returns the signed-in advertiser's tier.
func (c *Client) SubscriptionStatus(ctx context.Context) (*domain.SubscriptionStatus, error) {
	var out domain.SubscriptionStatus
	if err := c.do(ctx, call{method: http.MethodGet, path: "/advertiser/subscription-status", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
