package handler

import (
	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PartHandler struct {
	service service.PartService
}

func NewPartHandler(s service.PartService) *PartHandler {
	return &PartHandler{service: s}
}

// availability reads the optional location and building query parameters.
func availability(c *fiber.Ctx) (service.Availability, error) {
	var at service.Availability
	err := c.QueryParser(&at)
	return at, err
}

// GetParts lists catalog entries matching the query with their availability
// GET /api/v1/parts
func (h *PartHandler) GetParts(c *fiber.Ctx) error {
	var filter model.PartFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query"})
	}
	at, err := availability(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query"})
	}

	parts, err := h.service.GetParts(c.UserContext(), actorOf(c), filter, at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(parts)
}

// GET /api/v1/parts/search
func (h *PartHandler) Search(c *fiber.Ctx) error {
	var req service.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query"})
	}
	at, err := availability(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query"})
	}
	req.Availability = at

	result, err := h.service.Search(c.UserContext(), actorOf(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GET /api/v1/parts/distinct?key=manufacturer
func (h *PartHandler) Distinct(c *fiber.Ctx) error {
	values, err := h.service.Distinct(c.UserContext(), c.Query("key"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(values)
}

// GetPart accepts an NXID or the part's id
// GET /api/v1/parts/:id
func (h *PartHandler) GetPart(c *fiber.Ctx) error {
	at, err := availability(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query"})
	}
	part, err := h.service.GetPartByID(c.UserContext(), actorOf(c), c.Params("id"), at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(part)
}

// POST /api/v1/parts
func (h *PartHandler) CreatePart(c *fiber.Ctx) error {
	var req service.CreatePartRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	part, err := h.service.CreatePart(c.UserContext(), actorOf(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Part created", "data": part})
}

// PUT /api/v1/parts/:id
func (h *PartHandler) UpdatePart(c *fiber.Ctx) error {
	var part model.Part
	if err := c.BodyParser(&part); err != nil {
		return invalidJSON(c)
	}

	updated, err := h.service.UpdatePart(c.UserContext(), actorOf(c), c.Params("id"), &part)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Part updated", "data": updated})
}

// DELETE /api/v1/parts/:nxid
func (h *PartHandler) DeletePart(c *fiber.Ctx) error {
	removed, err := h.service.DeletePart(c.UserContext(), actorOf(c), c.Params("nxid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Part deleted", "records_removed": removed})
}

// UserInventory lists what a user holds. Without user_id it is the caller's
// own inventory.
// GET /api/v1/inventory
func (h *PartHandler) UserInventory(c *fiber.Ctx) error {
	items, err := h.service.UserInventory(c.UserContext(), actorOf(c), c.Query("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
