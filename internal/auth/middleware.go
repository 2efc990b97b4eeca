package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/civnet/issue-service/internal/domain"
	"github.com/civnet/issue-service/internal/repository"
	apperrors "github.com/civnet/issue-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the verified identity attached to a request. Every
// component downstream of the middleware receives a Principal, never a raw
// token.
type Principal struct {
	ID    string
	Email string
	Role  domain.Role
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. The user row is
// reloaded on every request so a role change (e.g. an admin demotion) takes
// effect immediately rather than when the token expires.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.NewStoreFailure(err)
	}

	c.Locals(principalKey, &Principal{ID: user.ID, Email: user.Email, Role: user.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireAction ensures the authenticated principal may perform the action.
func RequireAction(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !Allows(principal.Role, action) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
