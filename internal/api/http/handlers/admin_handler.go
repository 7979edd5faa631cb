package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directory-client/internal/api/dto"
	"github.com/spec-kit/directory-client/internal/apiclient"
	"github.com/spec-kit/directory-client/internal/domain"
)

// AdminHandler exposes the admin dashboard.
type AdminHandler struct {
	api *apiclient.Client
}

// NewAdminHandler constructs handler.
func NewAdminHandler(api *apiclient.Client) *AdminHandler {
	return &AdminHandler{api: api}
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.api.AdminStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Pricing handles GET /admin/pricing.
func (h *AdminHandler) Pricing(c *fiber.Ctx) error {
	list, err := h.api.ListPricing(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// UpdatePricing handles POST /admin/pricing.
func (h *AdminHandler) UpdatePricing(c *fiber.Ctx) error {
	var req dto.PricingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	plan := domain.PlanType(strings.ToLower(strings.TrimSpace(req.PlanType)))
	message, err := h.api.UpdatePricing(c.UserContext(), plan, req.Price)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": message}})
}
