package handler

import (
	"go-pos-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

type receiveEntryRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

type receiveStockRequest struct {
	Entries []receiveEntryRequest `json:"entries"`
}

func (h *StockHandler) ReceiveStock(c *fiber.Ctx) error {
	var req receiveStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	entries := make([]service.ReceiveEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		productID, err := uuid.Parse(e.ProductID)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID: " + e.ProductID})
		}
		entries = append(entries, service.ReceiveEntry{ProductID: productID, Quantity: e.Quantity})
	}

	results, err := h.service.ReceiveStock(entries)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{"message": "Stock received", "results": results})
}

func (h *StockHandler) GetLedger(c *fiber.Ctx) error {
	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		productID = &id
	}

	limit := c.QueryInt("limit", 100)
	events, err := h.service.GetLedger(productID, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(events)
}
