package handler

import (
	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

type saleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  float64         `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type processSaleRequest struct {
	PaymentMethod string            `json:"payment_method"`
	Items         []saleLineRequest `json:"items"`
}

func (h *SaleHandler) ProcessSale(c *fiber.Ctx) error {
	var req processSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	lines := make([]service.SaleLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID: " + item.ProductID})
		}
		lines = append(lines, service.SaleLine{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	sale, err := h.service.ProcessSale(lines, model.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale processed", "data": sale})
}

func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.GetAllSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSale(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sale)
}
