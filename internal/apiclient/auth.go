package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/spec-kit/directory-client/internal/domain"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges email and password for a bearer credential.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", apperrors.NewValidationError("email and password required", nil)
	}
	var resp loginResponse
	if err := c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      loginRequest{Email: email, Password: password},
		out:       &resp,
		anonymous: true,
	}); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", apperrors.NewRequestFailed(http.StatusOK, "login response carried no access_token")
	}
	return resp.AccessToken, nil
}

// RegisterAdvertiser creates an advertiser account and returns the API's
// confirmation message.
func (c *Client) RegisterAdvertiser(ctx context.Context, reg domain.AdvertiserRegistration) (string, error) {
	missing := []string{}
	for field, val := range map[string]string{
		"email":         reg.Email,
		"password":      reg.Password,
		"name":          reg.Name,
		"birth_date":    reg.BirthDate,
		"cpf":           reg.CPF,
		"business_name": reg.BusinessName,
	} {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return "", apperrors.NewValidationError("required fields missing", map[string]any{"missing": missing})
	}

	var resp messageResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: reg, out: &resp, anonymous: true}); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// RegisterConsumer creates a consumer account.
func (c *Client) RegisterConsumer(ctx context.Context, reg domain.ConsumerRegistration) (string, error) {
	if strings.TrimSpace(reg.Email) == "" || reg.Password == "" || strings.TrimSpace(reg.Name) == "" {
		return "", apperrors.NewValidationError("email, password and name required", nil)
	}
	var resp messageResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/user/register", body: reg, out: &resp, anonymous: true}); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// BetaStatus reports whether the platform runs in beta mode.
func (c *Client) BetaStatus(ctx context.Context) (*domain.BetaStatus, error) {
	var status domain.BetaStatus
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/beta-status", out: &status}); err != nil {
		return nil, err
	}
	return &status, nil
}
