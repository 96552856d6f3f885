package middleware

import (
	"ats-backend/config"
	apimodels "ats-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const ErrCodeUnauthorized = "unauthorized"

func AuthorizationRequired() fiber.Handler {
	return AuthorizationWithSecret(config.Conf.Auth.JWTSecret)
}

// AuthorizationWithSecret проверяет HS256 токен, claim sub используется как идентификатор пользователя
func AuthorizationWithSecret(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(secret),
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).
				JSON(apimodels.NewErrorWithCode(ErrCodeUnauthorized, "требуется авторизация"))
		},
	})
}

// ActorRequired не пропускает токены без claim sub
func ActorRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if GetUserID(ctx) == "" {
			return ctx.Status(fiber.StatusUnauthorized).
				JSON(apimodels.NewErrorWithCode(ErrCodeUnauthorized, "в токене не указан пользователь"))
		}
		return ctx.Next()
	}
}
