package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/auth"
)

// AuthHandler serves /auth.
type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterRoutes mounts the public auth routes on the unprotected router.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/auth/register", h.Register)
	router.Post("/auth/login", h.Login)
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	role := model.UserRole(body.Role)
	if role == "" {
		role = model.UserRoleViewer
	}
	id, err := h.auth.Register(c.UserContext(), body.Email, body.Password, role, body.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	token, err := h.auth.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}
