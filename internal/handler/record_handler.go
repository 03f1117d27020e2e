package handler

import (
	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RecordHandler struct {
	service service.ChainService
}

func NewRecordHandler(s service.ChainService) *RecordHandler {
	return &RecordHandler{service: s}
}

// GetCurrent lists current records of a part, optionally narrowed further
// GET /api/v1/part-records?nxid=PNX0000001
func (h *RecordHandler) GetCurrent(c *fiber.Ctx) error {
	var filter model.RecordFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query"})
	}

	records, err := h.service.CurrentRecords(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(records)
}

// GET /api/v1/part-records/distinct?key=owner
func (h *RecordHandler) Distinct(c *fiber.Ctx) error {
	var filter model.RecordFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query"})
	}

	values, err := h.service.Distinct(c.UserContext(), c.Query("key"), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(values)
}

// GET /api/v1/part-records/:id/history
func (h *RecordHandler) History(c *fiber.Ctx) error {
	history, err := h.service.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}
