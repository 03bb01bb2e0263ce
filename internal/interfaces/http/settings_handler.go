package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/application/usecase"
)

// SettingsHandler expone la configuración de negocio (monedas, tasas de respaldo, umbral).
type SettingsHandler struct {
	svc *usecase.SettingsService
	log zerolog.Logger
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(svc *usecase.SettingsService, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, log: log}
}

// Get godoc
// @Summary      Configuración vigente
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	st, err := h.svc.Get(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(usecase.ToSettingsResponse(st))
}

// Update godoc
// @Summary      Actualizar configuración
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettingsRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.SettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), in, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
