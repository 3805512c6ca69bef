package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/pkg/jwt"
)

// LocalUserID clave de c.Locals con el dueño del árbol de estado.
const LocalUserID = "user_id"

var (
	errNoCredential  = errors.New("Authorization header requerido")
	errBadCredential = errors.New("formato: Bearer <token>")
)

// bearerToken extrae el token de "Authorization: Bearer <token>".
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoCredential
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errBadCredential
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", errNoCredential
	}
	return token, nil
}

// AuthMiddleware exige una credencial válida; todo lo que cuelga de /api
// opera sobre el árbol del usuario que la firma.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			code := "INVALID_TOKEN"
			if errors.Is(err, errNoCredential) {
				code = "MISSING_TOKEN"
			}
			return unauthorized(c, code, err.Error())
		}
		userID, err := jwt.Parse(jwtSecret, token)
		if err != nil || userID == "" {
			return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="haci"`)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// GetUserID usuario autenticado; vacío fuera de /api.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}
