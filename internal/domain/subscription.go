package domain

import "fmt"

// PlanType names a paid subscription tier.
type PlanType string

const (
	PlanMonthly    PlanType = "monthly"
	PlanSemiannual PlanType = "semiannual"
	PlanAnnual     PlanType = "annual"
)

// ParsePlanType validates a plan name.
func ParsePlanType(raw string) (PlanType, error) {
	switch p := PlanType(raw); p {
	case PlanMonthly, PlanSemiannual, PlanAnnual:
		return p, nil
	}
	return "", fmt.Errorf("unknown plan %q: must be monthly, semiannual, or annual", raw)
}

// Plan is one entry of the public plan catalogue.
type Plan struct {
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	Description       string  `json:"description,omitempty"`
	PaymentURL        string  `json:"payment_url,omitempty"`
	MonthlyEquivalent float64 `json:"monthly_equivalent,omitempty"`
	SavingsAmount     float64 `json:"savings_amount,omitempty"`
	SavingsPercentage float64 `json:"savings_percentage,omitempty"`
}

// PlanPricing is an admin-managed price row.
type PlanPricing struct {
	ID        int64   `json:"id"`
	PlanType  string  `json:"plan_type"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	UpdatedAt string  `json:"updated_at"`
}

// SubscriptionIntent is what the API hands back when an advertiser picks a
// plan. The gateway URLs are displayed, never followed by the client.
type SubscriptionIntent struct {
	Plan            Plan   `json:"plan"`
	UserEmail       string `json:"user_email"`
	UserName        string `json:"user_name"`
	ReferenceID     string `json:"reference_id"`
	RedirectURL     string `json:"redirect_url"`
	NotificationURL string `json:"notification_url"`
}

// PaymentInfo carries the manual payment instructions for a plan.
type PaymentInfo struct {
	PlanType       string         `json:"plan_type"`
	Amount         float64        `json:"amount"`
	PaymentMethods PaymentMethods `json:"payment_methods"`
}

// PaymentMethods lists the instructions per payment method.
type PaymentMethods struct {
	Pix    *PixInstructions `json:"pix,omitempty"`
	Boleto map[string]any   `json:"boleto,omitempty"`
}

// PixInstructions is the PIX key shown to the advertiser.
type PixInstructions struct {
	Key         string `json:"key"`
	KeyType     string `json:"key_type,omitempty"`
	Beneficiary string `json:"beneficiary,omitempty"`
}

// PaymentConfirmation acknowledges a manual payment.
type PaymentConfirmation struct {
	Message   string `json:"message"`
	PaymentID string `json:"payment_id"`
}

// SubscriptionStatus is an advertiser's current tier.
type SubscriptionStatus struct {
	Status            string   `json:"status"`
	Plan              *string  `json:"plan"`
	IsActive          bool     `json:"is_active"`
	ExpiresAt         *string  `json:"expires_at"`
	LastPaymentDate   *string  `json:"last_payment_date,omitempty"`
	LastPaymentAmount *float64 `json:"last_payment_amount,omitempty"`
	Message           string   `json:"message,omitempty"`
}
