package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/opsdesk/internal/models"
)

// SettingsHandler manages the console's named registries (couriers, payment
// modes, order tags).
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

func validRegistry(registry string) bool {
	switch registry {
	case models.RegistryCouriers, models.RegistryPaymentModes, models.RegistryOrderTags:
		return true
	}
	return false
}

// List returns the active entries of one registry in display order.
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	registry := c.Params("registry")
	if !validRegistry(registry) {
		return fiber.NewError(fiber.StatusNotFound, "unknown registry")
	}

	query := h.db.Where("registry = ?", registry)
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var entries []models.Setting
	if err := query.Order("display_order asc, created_at asc").Find(&entries).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": entries})
}

type settingRequest struct {
	Key          string   `json:"key"`
	Label        string   `json:"label"`
	Value        string   `json:"value"`
	Options      []string `json:"options"`
	DisplayOrder int      `json:"display_order"`
}

// Create adds an entry to a registry.
func (h *SettingsHandler) Create(c *fiber.Ctx) error {
	registry := c.Params("registry")
	if !validRegistry(registry) {
		return fiber.NewError(fiber.StatusNotFound, "unknown registry")
	}

	var req settingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Key == "" || req.Label == "" {
		return fiber.NewError(fiber.StatusBadRequest, "key and label are required")
	}

	var count int64
	if err := h.db.Model(&models.Setting{}).
		Where("registry = ? AND key = ?", registry, req.Key).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "entry with this key already exists")
	}

	entry := models.Setting{
		Registry:     registry,
		Key:          req.Key,
		Label:        req.Label,
		Value:        req.Value,
		Options:      pq.StringArray(req.Options),
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": entry})
}

type updateSettingRequest struct {
	Label        *string   `json:"label"`
	Value        *string   `json:"value"`
	Options      *[]string `json:"options"`
	DisplayOrder *int      `json:"display_order"`
	IsActive     *bool     `json:"is_active"`
}

// Update applies a partial update to a registry entry.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	entry, err := h.load(c.Params("registry"), c.Params("id"))
	if err != nil {
		return err
	}

	var req updateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Label != nil {
		entry.Label = *req.Label
	}
	if req.Value != nil {
		entry.Value = *req.Value
	}
	if req.Options != nil {
		entry.Options = pq.StringArray(*req.Options)
	}
	if req.DisplayOrder != nil {
		entry.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	if err := h.db.Save(entry).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": entry})
}

// Delete removes a registry entry.
func (h *SettingsHandler) Delete(c *fiber.Ctx) error {
	entry, err := h.load(c.Params("registry"), c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.db.Delete(entry).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SettingsHandler) load(registry, rawID string) (*models.Setting, error) {
	if !validRegistry(registry) {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown registry")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var entry models.Setting
	if err := h.db.First(&entry, "id = ? AND registry = ?", id, registry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "entry not found")
		}
		return nil, err
	}
	return &entry, nil
}
