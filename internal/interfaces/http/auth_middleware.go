package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/domain/entity"
	"github.com/jhoicas/jobboard-api/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalAccountID = "account_id"
	LocalEmail     = "email"
	LocalRole      = "role"
)

// AuthMiddleware valida el Bearer Token JWT y deja cuenta, email y rol en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fail(c, fiber.StatusUnauthorized, ErrCodeTokenRequired)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fail(c, fiber.StatusUnauthorized, ErrCodeInvalidToken)
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return fail(c, fiber.StatusUnauthorized, ErrCodeTokenRequired)
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || claims.AccountID == "" {
			return fail(c, fiber.StatusUnauthorized, ErrCodeInvalidToken)
		}
		c.Locals(LocalAccountID, claims.AccountID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole autoriza sólo los roles indicados. Debe ir después de AuthMiddleware.
//   - 401 MISSING_ROLE si el token no trae rol.
//   - 403 FORBIDDEN si el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return fail(c, fiber.StatusUnauthorized, ErrCodeMissingRole)
		}
		if _, ok := allowed[role]; !ok {
			return fail(c, fiber.StatusForbidden, ErrCodeForbidden)
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetAccountID devuelve el id de cuenta del token (después del middleware de auth).
func GetAccountID(c *fiber.Ctx) string { return localString(c, LocalAccountID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetActor arma el actor que se pasa a los casos de uso.
func GetActor(c *fiber.Ctx) entity.Actor {
	return entity.Actor{Role: GetRole(c), AccountID: GetAccountID(c)}
}
