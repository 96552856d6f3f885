package authutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

// GetActorID - непрозрачный идентификатор пользователя из claim sub
func GetActorID(ctx *fiber.Ctx) string {
	sub, _ := GetClaims(ctx)["sub"].(string)
	return sub
}
