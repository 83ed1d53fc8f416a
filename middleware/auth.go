package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"styledecor-server/errors"
)

const (
	IdentityKey = "identity"
	AdminRole   = "admin"

	callerEmailKey = "callerEmail"
	callerRoleKey  = "callerRole"
)

// Identify verifies the bearer token issued by the identity provider and
// stores the caller's email and role in the request locals.
func Identify(signingKey string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     []byte(signingKey),
		SigningMethod:  "HS256",
		ContextKey:     IdentityKey,
		ErrorHandler:   jwtError,
		SuccessHandler: storeCaller,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return errors.RaiseError(c, fiber.StatusUnauthorized, "Missing or malformed JWT", "")
	}
	return errors.RaiseError(c, fiber.StatusUnauthorized, "Invalid or expired JWT", "")
}

func storeCaller(c *fiber.Ctx) error {
	token, ok := c.Locals(IdentityKey).(*jwt.Token)
	if !ok {
		return errors.RaiseError(c, fiber.StatusUnauthorized, "Invalid or expired JWT", "")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.RaiseError(c, fiber.StatusUnauthorized, "Invalid or expired JWT", "")
	}

	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return errors.RaisePermissionsError(c, "token carries no email")
	}
	role, _ := claims["role"].(string)

	c.Locals(callerEmailKey, email)
	c.Locals(callerRoleKey, role)
	return c.Next()
}

// CallerEmail is empty on routes that are not behind Identify.
func CallerEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(callerEmailKey).(string)
	return email
}

func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(callerRoleKey).(string)
	return role == AdminRole
}
