package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

// VaultHandler cajas de efectivo (protegido).
type VaultHandler struct {
	svc *workspace.Service
}

// NewVaultHandler construye el handler.
func NewVaultHandler(svc *workspace.Service) *VaultHandler {
	return &VaultHandler{svc: svc}
}

// List godoc
// @Summary      Listar cajas con su efectivo
// @Tags         vaults
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.VaultResponse
// @Router       /api/vaults [get]
func (h *VaultHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.ListVaults(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear caja
// @Tags         vaults
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VaultRequest  true  "Caja"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vaults [post]
func (h *VaultHandler) Create(c *fiber.Ctx) error {
	in, ok, err := bind[dto.VaultRequest](c)
	if !ok {
		return err
	}
	id := h.svc.NewID()
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.CreateVault{ID: id, Name: in.Name, Currency: in.Currency}); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id})
}

// Rename godoc
// @Summary      Renombrar caja
// @Tags         vaults
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                  true  "ID de la caja"
// @Param        body  body  dto.RenameVaultRequest  true  "Nombre"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/vaults/{id} [put]
func (h *VaultHandler) Rename(c *fiber.Ctx) error {
	in, ok, err := bind[dto.RenameVaultRequest](c)
	if !ok {
		return err
	}
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.RenameVault{ID: c.Params("id"), Name: in.Name}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar caja sin movimientos
// @Tags         vaults
// @Security     Bearer
// @Param        id   path  string  true  "ID de la caja"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vaults/{id} [delete]
func (h *VaultHandler) Delete(c *fiber.Ctx) error {
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.DeleteVault{ID: c.Params("id")}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Totals godoc
// @Summary      Efectivo de una caja
// @Tags         vaults
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.VaultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vaults/{id}/totals [get]
func (h *VaultHandler) Totals(c *fiber.Ctx) error {
	out, err := h.svc.VaultTotals(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetActive godoc
// @Summary      Elegir la caja activa
// @Tags         vaults
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.ActiveVaultRequest  true  "Caja"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/vaults/active [put]
func (h *VaultHandler) SetActive(c *fiber.Ctx) error {
	in, ok, err := bind[dto.ActiveVaultRequest](c)
	if !ok {
		return err
	}
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.SetActiveVault{ID: in.VaultID}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
