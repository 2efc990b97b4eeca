package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civnet/issue-service/internal/api/dto"
	"github.com/civnet/issue-service/internal/auth"
	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/service"
	apperrors "github.com/civnet/issue-service/pkg/util/errorutil"
)

// AdminHandler exposes admin account management endpoints.
type AdminHandler struct {
	admins *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admins: adminService}
}

// Roster GET /admin/users.
func (h *AdminHandler) Roster(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	roster, err := h.admins.Roster(c.Context(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.AdminRosterEntry, 0, len(roster))
	for _, entry := range roster {
		items = append(items, dto.AdminRosterEntry{
			User:           userResponse(&entry.User),
			RespondedCount: entry.RespondedCount,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /admin/users.
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	role := domain.RoleAdmin
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
		}
		role = parsed
	}

	admin, err := h.admins.CreateAdmin(c.Context(), principal, service.AdminCreateInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.Name,
		Role:        role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(admin)})
}

// Demote PUT /admin/users/:id/demote.
func (h *AdminHandler) Demote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.admins.Demote(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}
