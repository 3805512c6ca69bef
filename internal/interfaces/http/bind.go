package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bind decodifica y valida el cuerpo. Si falla ya escribió la respuesta 400
// y devuelve ok=false.
func bind[T any](c *fiber.Ctx) (T, bool, error) {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return in, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return in, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return in, true, nil
}
