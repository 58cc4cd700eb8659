package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/pkg/utils"
	"go.uber.org/zap"
)

const (
	LocalEmail = "email"
	LocalRole  = "role"
)

type credentialVerifier interface {
	Verify(authHeader string) (*utils.Claims, error)
}

type roleResolver interface {
	Resolve(ctx context.Context, email string) (models.Role, error)
}

// Gate authenticates a request and authorizes it against the exact set of
// roles an operation allows.
type Gate struct {
	verifier credentialVerifier
	resolver roleResolver
	logger   *zap.Logger
}

func NewGate(verifier credentialVerifier, resolver roleResolver, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{verifier: verifier, resolver: resolver, logger: logger}
}

// Authenticate only verifies the credential and stores the email.
func (g *Gate) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.verifier.Verify(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return unauthorized(c)
		}
		c.Locals(LocalEmail, claims.Email)
		return c.Next()
	}
}

// Require verifies the credential, resolves the caller's role and lets the
// request through only when that role is one of roles. A user without a role
// never passes.
func (g *Gate) Require(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		if role.Known() {
			allowed[role] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		claims, err := g.verifier.Verify(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return unauthorized(c)
		}

		role, err := g.resolver.Resolve(c.Context(), claims.Email)
		if err != nil {
			g.logger.Error("role lookup failed",
				zap.String("email", claims.Email),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   true,
				"message": "internal server error",
			})
		}
		if _, ok := allowed[role]; !ok {
			g.logger.Debug("request forbidden",
				zap.String("email", claims.Email),
				zap.String("role", string(role)),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   true,
				"message": "forbidden access",
			})
		}

		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, string(role))
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   true,
		"message": "unauthorized access",
	})
}
