package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/application/workspace"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

// TransactionHandler cobros y deudas manuales (protegido).
type TransactionHandler struct {
	svc *workspace.Service
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(svc *workspace.Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// CollectPayment godoc
// @Summary      Registrar cobro
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentRequest  true  "Cobro"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transactions/payments [post]
func (h *TransactionHandler) CollectPayment(c *fiber.Ctx) error {
	in, ok, err := bind[dto.PaymentRequest](c)
	if !ok {
		return err
	}
	id := h.svc.NewID()
	intent := ledger.CollectPayment{
		ID:         id,
		CustomerID: in.CustomerID,
		VaultID:    in.VaultID,
		Amount:     in.Amount,
		Method:     entity.PaymentMethod(in.Method),
		Date:       in.Date,
		Note:       in.Note,
	}
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), intent); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id})
}

// AddDebt godoc
// @Summary      Registrar deuda
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DebtRequest  true  "Deuda"
// @Success      201   {object}  dto.CreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transactions/debts [post]
func (h *TransactionHandler) AddDebt(c *fiber.Ctx) error {
	in, ok, err := bind[dto.DebtRequest](c)
	if !ok {
		return err
	}
	id := h.svc.NewID()
	intent := ledger.AddDebt{
		ID:         id,
		CustomerID: in.CustomerID,
		Amount:     in.Amount,
		Date:       in.Date,
		DueDays:    in.DueDays,
		DueDate:    in.DueDate,
		Untracked:  in.TrackPayment != nil && !*in.TrackPayment,
		Note:       in.Note,
	}
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), intent); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id})
}

// Settle godoc
// @Summary      Marcar deuda saldada
// @Tags         transactions
// @Security     Bearer
// @Param        id   path  string  true  "ID de la deuda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/settle [post]
func (h *TransactionHandler) Settle(c *fiber.Ctx) error {
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.SettleDebt{ID: c.Params("id")}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar movimiento manual
// @Tags         transactions
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	if _, err := h.svc.Dispatch(c.UserContext(), GetUserID(c), ledger.DeleteTransaction{ID: c.Params("id")}); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
