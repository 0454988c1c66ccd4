package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/evenzo/evenzo-backend/internal/models"
	jwtPkg "github.com/evenzo/evenzo-backend/pkg/jwt"
)

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(message))
}

// AuthMiddleware requires a valid Bearer token and stores the caller's
// identity in locals for handlers.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := jwtPkg.ValidateToken(tokenString)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return unauthorized(c, "Invalid user ID in token")
		}
		userEmail, ok := claims["email"].(string)
		if !ok {
			return unauthorized(c, "Invalid email in token")
		}
		userRole, _ := claims["role"].(string)

		c.Locals("userID", uint(userIDFloat))
		c.Locals("userEmail", userEmail)
		c.Locals("userRole", userRole)

		return c.Next()
	}
}

// OptionalAuth stores the caller's identity when a valid token is present
// and passes anonymous requests through untouched. A malformed token is
// still rejected.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := jwtPkg.ValidateToken(tokenString)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}

		if userIDFloat, ok := claims["user_id"].(float64); ok {
			c.Locals("userID", uint(userIDFloat))
		}
		if userEmail, ok := claims["email"].(string); ok {
			c.Locals("userEmail", userEmail)
		}
		if userRole, ok := claims["role"].(string); ok {
			c.Locals("userRole", userRole)
		}
		return c.Next()
	}
}

// RequireRoles gates a route to the given roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("userRole").(string)
		for _, allowed := range roles {
			if role == string(allowed) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have permission to access this resource"))
	}
}
