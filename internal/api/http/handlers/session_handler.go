package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directory-client/internal/api/dto"
	"github.com/spec-kit/directory-client/internal/apiclient"
	"github.com/spec-kit/directory-client/internal/session"
)

// SessionHandler exposes the console's session: who is signed in, and
// signing in and out.
type SessionHandler struct {
	sessions *session.Manager
	api      *apiclient.Client
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *session.Manager, api *apiclient.Client) *SessionHandler {
	return &SessionHandler{sessions: sessions, api: api}
}

// Get handles GET /session.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(h.sessions.Snapshot().Identity)})
}

// Login handles POST /session/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	credential, err := h.api.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.establish(c, credential)
}

// LoginWithToken handles POST /session/token, adopting a credential obtained
// elsewhere.
func (h *SessionHandler) LoginWithToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Token) == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}
	return h.establish(c, strings.TrimSpace(req.Token))
}

// A credential that does not decode leaves the session anonymous; the body
// reports that rather than an error status.
func (h *SessionHandler) establish(c *fiber.Ctx, credential string) error {
	snap := h.sessions.Login(c.UserContext(), credential)
	status := http.StatusOK
	if snap.Authenticated() {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": dto.NewSessionResponse(snap.Identity)})
}

// Logout handles DELETE /session.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.UserContext())
	return c.SendStatus(http.StatusNoContent)
}
