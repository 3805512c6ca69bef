package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

// CustomerHandler clientes, saldos y vista pública (protegido).
type CustomerHandler struct {
	svc *workspace.Service
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(svc *workspace.Service) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func customerFields(in dto.CustomerRequest) ledger.CustomerFields {
	return ledger.CustomerFields{
		Name:     in.Name,
		Surname:  in.Surname,
		Phone:    in.Phone,
		Email:    in.Email,
		Address:  in.Address,
		Currency: in.Currency,
	}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	in, ok, err := bind[dto.CustomerRequest](c)
	if !ok {
		return err
	}
	id := h.svc.NewID()
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.CreateCustomer{ID: id, CustomerFields: customerFields(in)}); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id})
}

// Update godoc
// @Summary      Editar cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Param        id    path  string               true  "ID del cliente"
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	in, ok, err := bind[dto.CustomerRequest](c)
	if !ok {
		return err
	}
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.UpdateCustomer{ID: c.Params("id"), CustomerFields: customerFields(in)}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar cliente con sus trabajos y movimientos
// @Tags         customers
// @Security     Bearer
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.DeleteCustomer{ID: c.Params("id")}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Totals godoc
// @Summary      Saldo del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerTotalsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/totals [get]
func (h *CustomerHandler) Totals(c *fiber.Ctx) error {
	out, err := h.svc.CustomerTotals(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Share godoc
// @Summary      Publicar la vista pública del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  entity.ShareSnapshot
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/share [post]
func (h *CustomerHandler) Share(c *fiber.Ctx) error {
	out, err := h.svc.PublishShare(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
