package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/opsdesk/internal/commerce"
	"github.com/example/opsdesk/internal/search"
)

// ProductHandler serves catalog lookups. Searches go through the typeahead
// guard so rapid keystrokes coalesce into few upstream calls and a slow
// response for an earlier query can never replace a newer result.
type ProductHandler struct {
	commerce  *commerce.Client
	typeahead *search.Typeahead
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(client *commerce.Client, typeahead *search.Typeahead) *ProductHandler {
	return &ProductHandler{commerce: client, typeahead: typeahead}
}

// Search runs a catalog typeahead search.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	body, err := h.typeahead.Lookup(c.Context(), query)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// Get fetches one product with its variants.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.commerce.GetProduct(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "data": product})
}
