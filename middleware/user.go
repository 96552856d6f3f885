package middleware

import (
	authutils "ats-backend/lib/utils/auth-utils"

	"github.com/gofiber/fiber/v2"
)

func GetUserID(ctx *fiber.Ctx) string {
	return authutils.GetActorID(ctx)
}
