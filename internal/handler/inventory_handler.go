package handler

import (
	"go-parts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// POST /api/v1/checkout
func (h *InventoryHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if err := h.service.Checkout(c.UserContext(), actorOf(c), &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Checked out"})
}

// POST /api/v1/checkin
func (h *InventoryHandler) Checkin(c *fiber.Ctx) error {
	var req service.CheckinRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if err := h.service.Checkin(c.UserContext(), actorOf(c), &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Checked in"})
}

// POST /api/v1/parts/add
func (h *InventoryHandler) AddToInventory(c *fiber.Ctx) error {
	var req service.AddToInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	records, err := h.service.AddToInventory(c.UserContext(), actorOf(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Added to inventory", "data": records})
}

// POST /api/v1/part-records/move
func (h *InventoryHandler) MoveRecords(c *fiber.Ctx) error {
	var req service.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	moved, err := h.service.MoveRecords(c.UserContext(), actorOf(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Records moved", "moved": moved})
}
