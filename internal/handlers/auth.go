package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/opsdesk/internal/config"
	"github.com/example/opsdesk/internal/middleware"
	"github.com/example/opsdesk/internal/models"
	"github.com/example/opsdesk/internal/utils"
)

// AuthHandler handles staff authentication.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login authenticates a staff member by phone and password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone and password are required")
	}

	var staff models.StaffUser
	if err := h.db.First(&staff, "phone = ?", req.Phone).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	if !staff.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "account is disabled")
	}
	if !utils.CheckPassword(staff.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, staff.ID, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token": token,
			"staff": staff,
		},
	})
}

// Me returns the authenticated staff member.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	staffID, ok := middleware.GetCurrentStaffID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var staff models.StaffUser
	if err := h.db.First(&staff, "id = ?", staffID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "staff not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": staff})
}
