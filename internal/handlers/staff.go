package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/opsdesk/internal/models"
	"github.com/example/opsdesk/internal/utils"
)

// StaffHandler manages console operator accounts.
type StaffHandler struct {
	db *gorm.DB
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{db: db}
}

type createStaffRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleManager || role == models.RoleOperator
}

// Create registers a new staff account.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req createStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone and password are required")
	}
	if !utils.ValidPhone(req.Phone) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
	}
	if req.Role == "" {
		req.Role = models.RoleOperator
	}
	if !validRole(req.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	staff := models.StaffUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DisplayName:  req.DisplayName,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if staff.DisplayName == "" {
		staff.DisplayName = staff.FirstName
	}

	if err := h.db.Create(&staff).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "staff with this phone already exists")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": staff})
}

// List returns paginated staff accounts.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.StaffUser{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var staff []models.StaffUser
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&staff).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    staff,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns one staff account.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	staff, err := h.load(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": staff})
}

type updateStaffRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	Role        *string `json:"role"`
	Password    *string `json:"password"`
	IsActive    *bool   `json:"is_active"`
}

// Update applies a partial update to a staff account.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	staff, err := h.load(c.Params("id"))
	if err != nil {
		return err
	}

	var req updateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.FirstName != nil {
		staff.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		staff.LastName = *req.LastName
	}
	if req.DisplayName != nil {
		staff.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		staff.Email = *req.Email
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid role")
		}
		staff.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return err
		}
		staff.PasswordHash = hash
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := h.db.Save(staff).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": staff})
}

// Delete deactivates a staff account. Accounts are never hard-deleted so
// draft history keeps its author.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	staff, err := h.load(c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.db.Model(staff).Update("is_active", false).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *StaffHandler) load(rawID string) (*models.StaffUser, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var staff models.StaffUser
	if err := h.db.First(&staff, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "staff not found")
		}
		return nil, err
	}
	return &staff, nil
}
