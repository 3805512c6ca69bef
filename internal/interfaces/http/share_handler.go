package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/workspace"
)

// ShareHandler vista pública de solo lectura (sin credencial).
type ShareHandler struct {
	svc *workspace.Service
}

// NewShareHandler construye el handler.
func NewShareHandler(svc *workspace.Service) *ShareHandler {
	return &ShareHandler{svc: svc}
}

// Get godoc
// @Summary      Leer una vista publicada
// @Tags         share
// @Produce      json
// @Param        shareId  path  string  true  "ID de la vista"
// @Success      200  {object}  entity.ShareSnapshot
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /share/{shareId} [get]
func (h *ShareHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.GetShare(c.UserContext(), c.Params("shareId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
