package handler

import (
	"go-parts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AssetHandler struct {
	service service.AssetService
}

func NewAssetHandler(s service.AssetService) *AssetHandler {
	return &AssetHandler{service: s}
}

// GET /api/v1/assets
func (h *AssetHandler) GetAssets(c *fiber.Ctx) error {
	assets, err := h.service.GetAllAssets(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(assets)
}

// GET /api/v1/assets/:tag
func (h *AssetHandler) GetAsset(c *fiber.Ctx) error {
	asset, err := h.service.GetAsset(c.UserContext(), c.Params("tag"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(asset)
}

// POST /api/v1/assets
func (h *AssetHandler) CreateAsset(c *fiber.Ctx) error {
	var req service.CreateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	asset, err := h.service.CreateAsset(c.UserContext(), actorOf(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Asset created", "data": asset})
}
