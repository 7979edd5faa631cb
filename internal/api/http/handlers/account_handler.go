package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directory-client/internal/apiclient"
)

// AccountHandler serves role-specific views of the signed-in user.
type AccountHandler struct {
	api *apiclient.Client
}

// NewAccountHandler constructs handler.
func NewAccountHandler(api *apiclient.Client) *AccountHandler {
	return &AccountHandler{api: api}
}

// Favorites handles GET /me/favorites.
func (h *AccountHandler) Favorites(c *fiber.Ctx) error {
	list, err := h.api.ListFavorites(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Subscription handles GET /advertiser/subscription.
func (h *AccountHandler) Subscription(c *fiber.Ctx) error {
	status, err := h.api.SubscriptionStatus(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": status})
}
