package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

// ProfileHandler datos del negocio (protegido).
type ProfileHandler struct {
	svc *workspace.Service
}

// NewProfileHandler construye el handler.
func NewProfileHandler(svc *workspace.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Update godoc
// @Summary      Editar perfil del negocio
// @Tags         profile
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.ProfileRequest  true  "Perfil"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	in, ok, err := bind[dto.ProfileRequest](c)
	if !ok {
		return err
	}
	p := entity.Profile{
		BusinessName: in.BusinessName,
		OwnerName:    in.OwnerName,
		Phone:        in.Phone,
		Email:        in.Email,
		Currency:     in.Currency,
		DueDays:      in.DueDays,
	}
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.UpdateProfile{Profile: p}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
