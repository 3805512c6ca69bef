package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable traduce errores de dominio a respuestas; el primero que coincide gana.
var errorTable = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrCustomerNeeded, fiber.StatusBadRequest, "CUSTOMER_REQUIRED"},
	{domain.ErrVaultRequired, fiber.StatusBadRequest, "VAULT_REQUIRED"},
	{domain.ErrNotClockMode, fiber.StatusUnprocessableEntity, "NOT_CLOCK_MODE"},
	{domain.ErrCurrencyMismatch, fiber.StatusUnprocessableEntity, "CURRENCY_MISMATCH"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrJobReferenced, fiber.StatusConflict, "JOB_REFERENCED"},
	{domain.ErrClockRunning, fiber.StatusConflict, "CLOCK_RUNNING"},
	{domain.ErrClockStopped, fiber.StatusConflict, "CLOCK_STOPPED"},
	{domain.ErrAlreadyPaid, fiber.StatusConflict, "ALREADY_PAID"},
	{domain.ErrGeneratedTransaction, fiber.StatusConflict, "GENERATED_TRANSACTION"},
	{domain.ErrVaultInUse, fiber.StatusConflict, "VAULT_IN_USE"},
	{domain.ErrVaultActive, fiber.StatusConflict, "VAULT_ACTIVE"},
}

// writeError responde con el estado del error de dominio; los desconocidos son 500
// y no exponen el detalle interno.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
