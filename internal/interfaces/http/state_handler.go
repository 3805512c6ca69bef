package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
)

// StateHandler sincronización del árbol completo (protegido).
type StateHandler struct {
	svc *workspace.Service
}

// NewStateHandler construye el handler.
func NewStateHandler(svc *workspace.Service) *StateHandler {
	return &StateHandler{svc: svc}
}

// Ensure godoc
// @Summary      Crear árbol vacío si no existe
// @Tags         state
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.StateTree
// @Router       /api/state/ensure [post]
func (h *StateHandler) Ensure(c *fiber.Ctx) error {
	out, err := h.svc.Ensure(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Leer el árbol de estado
// @Tags         state
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.StateTree
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/state [get]
func (h *StateHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Load(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Put godoc
// @Summary      Reemplazar el árbol de estado
// @Tags         state
// @Security     Bearer
// @Accept       json
// @Param        body  body  entity.StateTree  true  "Árbol completo"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/state [put]
func (h *StateHandler) Put(c *fiber.Ctx) error {
	var in entity.StateTree
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.svc.Save(c.UserContext(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
