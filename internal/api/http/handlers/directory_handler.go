package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directory-client/internal/apiclient"
	"github.com/spec-kit/directory-client/internal/domain"
)

// DirectoryHandler proxies the public advertiser listings.
type DirectoryHandler struct {
	api *apiclient.Client
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(api *apiclient.Client) *DirectoryHandler {
	return &DirectoryHandler{api: api}
}

// Search handles GET /directory/advertisers.
func (h *DirectoryHandler) Search(c *fiber.Ctx) error {
	filter := domain.SearchFilter{
		Query:      c.Query("query"),
		CategoryID: int64(c.QueryInt("category_id")),
		CityID:     int64(c.QueryInt("city_id")),
	}
	list, err := h.api.SearchAdvertisers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

// Show handles GET /directory/advertisers/:id.
func (h *DirectoryHandler) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(http.StatusBadRequest, "invalid advertiser id")
	}
	adv, err := h.api.GetAdvertiser(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adv})
}

// Top handles GET /directory/top.
func (h *DirectoryHandler) Top(c *fiber.Ctx) error {
	list, err := h.api.TopAdvertisers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}
