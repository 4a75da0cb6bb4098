package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/opsdesk/internal/commerce"
	"github.com/example/opsdesk/internal/utils"
)

// CustomerHandler proxies customer and business-profile lookups to the
// commerce API.
type CustomerHandler struct {
	commerce *commerce.Client
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(client *commerce.Client) *CustomerHandler {
	return &CustomerHandler{commerce: client}
}

// Search looks up B2C customers by name or phone.
func (h *CustomerHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	customers, err := h.commerce.SearchCustomers(query)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(fiber.Map{"success": true, "data": customers})
}

// Get fetches one customer with its addresses.
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	customer, err := h.commerce.GetCustomer(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "data": customer})
}

// SearchBusinessProfiles looks up B2B profiles by name or GSTIN.
func (h *CustomerHandler) SearchBusinessProfiles(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	profiles, err := h.commerce.SearchBusinessProfiles(query)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(fiber.Map{"success": true, "data": profiles})
}

// GetBusinessProfile fetches one B2B profile with its addresses.
func (h *CustomerHandler) GetBusinessProfile(c *fiber.Ctx) error {
	profile, err := h.commerce.GetBusinessProfile(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "data": profile})
}

type createProfileRequest struct {
	BusinessName string             `json:"business_name"`
	GSTIN        string             `json:"gstin"`
	ContactName  string             `json:"contact_name"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email"`
	Addresses    []commerce.Address `json:"addresses"`
}

// CreateBusinessProfile validates the GSTIN locally, then registers the
// profile on the commerce API.
func (h *CustomerHandler) CreateBusinessProfile(c *fiber.Ctx) error {
	var req createProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.BusinessName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "business_name is required")
	}

	gstin := strings.ToUpper(strings.TrimSpace(req.GSTIN))
	if !utils.ValidGSTIN(gstin) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid GSTIN")
	}
	if req.Phone != "" && !utils.ValidPhone(req.Phone) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
	}

	profile, err := h.commerce.CreateBusinessProfile(commerce.BusinessProfile{
		BusinessName: req.BusinessName,
		GSTIN:        gstin,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Addresses:    req.Addresses,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": profile})
}
