package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cajas-api/internal/application/dto"
	"github.com/jhoicas/cajas-api/internal/application/usecase"
	"github.com/jhoicas/cajas-api/pkg/logger"
)

// BoxHandler consulta de cajas y saldos (protegido).
type BoxHandler struct {
	uc  *usecase.BoxUseCase
	log *logger.Logger
}

// NewBoxHandler construye el handler.
func NewBoxHandler(uc *usecase.BoxUseCase, log *logger.Logger) *BoxHandler {
	return &BoxHandler{uc: uc, log: log}
}

// GetByID godoc
// @Summary      Obtener caja con su saldo
// @Tags         boxes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.BoxResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boxes/{id} [get]
func (h *BoxHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
