package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// PolicyChecker lo implementa *usecase.PolicyService.
type PolicyChecker interface {
	Allowed(role, action string) bool
}

// RequirePermission autoriza action según el rol del Principal. Va después de AuthMiddleware.
// Sin rol en el token responde 401; rol sin permiso, 403.
func RequirePermission(action string, checker PolicyChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentPrincipal(c).Role
		switch {
		case role == "":
			return deny(c, fiber.StatusUnauthorized, "MISSING_ROLE", "el token no incluye rol")
		case !checker.Allowed(role, action):
			return deny(c, fiber.StatusForbidden, "FORBIDDEN", fmt.Sprintf("el rol %q no puede ejecutar %q", role, action))
		}
		return c.Next()
	}
}
