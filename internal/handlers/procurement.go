package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/opsdesk/internal/commerce"
)

// ProcurementHandler proxies inbound stock purchases to the commerce API.
type ProcurementHandler struct {
	commerce *commerce.Client
}

// NewProcurementHandler creates a new ProcurementHandler.
func NewProcurementHandler(client *commerce.Client) *ProcurementHandler {
	return &ProcurementHandler{commerce: client}
}

// List returns procurement records, optionally filtered by status.
func (h *ProcurementHandler) List(c *fiber.Ctx) error {
	procurements, err := h.commerce.ListProcurements(c.Query("status"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "data": procurements})
}

type createProcurementRequest struct {
	VendorID string                     `json:"vendor_id"`
	Items    []commerce.ProcurementItem `json:"items"`
}

// Create registers a new procurement.
func (h *ProcurementHandler) Create(c *fiber.Ctx) error {
	var req createProcurementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.VendorID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "vendor_id is required")
	}
	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "items are required")
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "every item needs a product_id and positive quantity")
		}
	}

	procurement, err := h.commerce.CreateProcurement(commerce.Procurement{
		VendorID: req.VendorID,
		Items:    req.Items,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": procurement})
}
