package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/pkg/jwt"
)

const localPrincipal = "principal"

// Principal identidad del operador autenticado.
type Principal struct {
	UserID string
	Role   string
}

var (
	errMissingToken = errors.New("Authorization header requerido")
	errBadScheme    = errors.New("formato: Bearer <token>")
)

// AuthMiddleware verifica el access token emitido por Supabase y deja el Principal en Locals.
// issuer vacío omite la validación del claim iss.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if errors.Is(err, errMissingToken) {
			return deny(c, fiber.StatusUnauthorized, "MISSING_TOKEN", err.Error())
		}
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "INVALID_TOKEN", err.Error())
		}
		userID, role, err := jwt.Parse(jwtSecret, issuer, raw)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(localPrincipal, Principal{UserID: userID, Role: role})
		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errBadScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

func deny(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// CurrentPrincipal devuelve el operador de la request; vacío si no pasó por AuthMiddleware.
func CurrentPrincipal(c *fiber.Ctx) Principal {
	p, _ := c.Locals(localPrincipal).(Principal)
	return p
}

// GetUserID atajo para registrar el autor de un movimiento o asiento.
func GetUserID(c *fiber.Ctx) string { return CurrentPrincipal(c).UserID }

func GetRole(c *fiber.Ctx) string { return CurrentPrincipal(c).Role }
