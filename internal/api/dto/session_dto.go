package dto

import (
	"time"

	"github.com/spec-kit/directory-client/internal/domain"
)

// LoginRequest payload for POST /session/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenRequest payload for POST /session/token.
type TokenRequest struct {
	Token string `json:"token"`
}

// SessionResponse describes the console's current session.
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	UserID        *string    `json:"user_id"`
	Role          string     `json:"role,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// NewSessionResponse renders an identity, nil meaning anonymous.
func NewSessionResponse(identity *domain.Identity) SessionResponse {
	if identity == nil {
		return SessionResponse{}
	}
	id := identity.ID.String()
	return SessionResponse{
		Authenticated: true,
		UserID:        &id,
		Role:          identity.Role.String(),
		ExpiresAt:     identity.ExpiresAt,
	}
}

// PricingUpdateRequest payload for POST /admin/pricing.
type PricingUpdateRequest struct {
	PlanType string  `json:"plan_type"`
	Price    float64 `json:"price"`
}
