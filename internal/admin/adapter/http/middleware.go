package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/auth"
	"github.com/lhpaul/finadmin/internal/shared/contextkeys"
	"github.com/lhpaul/finadmin/internal/shared/errors"
)

const claimsLocal = "auth_claims"

// RequestID assigns every request an id, echoed in the X-Request-ID header
// and attached to the request context for log correlation.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.SetUserContext(contextkeys.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

// AuthMiddleware guards routes with bearer-token authentication.
type AuthMiddleware struct {
	auth *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{auth: authService}
}

// Protect validates the Authorization header and stores the claims for
// downstream handlers.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return respondError(c, errors.NewUnauthorizedError("missing bearer token"))
		}
		claims, err := m.auth.Validate(token)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(claimsLocal, claims)
		ctx := contextkeys.WithUserID(c.UserContext(), claims.UserID)
		if claims.CompanyID != "" {
			ctx = contextkeys.WithCompanyID(ctx, claims.CompanyID)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequireRole additionally restricts a route to one role. Must run after
// Protect.
func (m *AuthMiddleware) RequireRole(role model.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return respondError(c, errors.NewUnauthorizedError("missing bearer token"))
		}
		if claims.Role != role {
			return respondError(c, errors.NewForbiddenError("insufficient role"))
		}
		return c.Next()
	}
}

// ClaimsFrom returns the validated claims stored by Protect, or nil.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsLocal).(*auth.Claims)
	return claims
}
