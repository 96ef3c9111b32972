package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AuthorizationRequired(jwtSecret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(jwtSecret),
		},
	})
}

func claims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return jwt.MapClaims{}
	}
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return mapClaims
}

// GetUserID — идентификатор пользователя из claims токена
func GetUserID(ctx *fiber.Ctx) string {
	if v, ok := claims(ctx)["user_id"].(string); ok {
		return v
	}
	return ""
}

// GetUserEmail — email пользователя из claims токена, может быть пустым
func GetUserEmail(ctx *fiber.Ctx) string {
	if v, ok := claims(ctx)["email"].(string); ok {
		return v
	}
	return ""
}
