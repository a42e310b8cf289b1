package auth

import (
	"fmt"
	"strings"

	"acopio-backend/internal/config"
	"acopio-backend/internal/database"
	"acopio-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUserRoleKey  = "user_role"
	CtxCompanyIDKey = "company_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Falta el header Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "El formato de Authorization debe ser 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inválido")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o expirado")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "No se pudo decodificar el token")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxCompanyIDKey, claims.CompanyID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el rol")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "No tienes permiso para esta operación")
	}
}

// CurrentUser: identidad del request (usuario y compañía actuantes). Las
// operaciones de negocio reciben estos valores explícitamente, nunca los
// leen de un contexto global.
func CurrentUser(c *fiber.Ctx) (userID uint, companyID uint, role models.UserRole, err error) {
	uVal, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return 0, 0, "", fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el usuario")
	}
	cVal, ok := c.Locals(CtxCompanyIDKey).(uint)
	if !ok {
		return 0, 0, "", fiber.NewError(fiber.StatusForbidden, "No se pudo obtener la compañía")
	}
	rVal, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return 0, 0, "", fiber.NewError(fiber.StatusForbidden, "No se pudo obtener el rol")
	}
	return uVal, cVal, rVal, nil
}

// UserName: nombre del usuario actuante, para el audit log denormalizado.
func UserName(userID uint) string {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return ""
	}
	return user.Name
}
