package controllers

import (
	"strings"

	authutils "ats-backend/lib/utils/auth-utils"
	"ats-backend/models"
	apimodels "ats-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(ctx.Params("id"))
	if id == "" {
		return "", errors.New("не указан идентификатор")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.WithField("actor_id", authutils.GetActorID(ctx)).
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
}

// SendError переводит типизированную ошибку в HTTP статус и ответ с кодом
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	code := models.ErrorCode(err)
	status := StatusByCode(code)
	logger = logger.WithError(err).WithField("code", code)
	if status >= fiber.StatusInternalServerError {
		logger.Error(msg)
	} else {
		logger.Warn(msg)
	}
	return ctx.Status(status).JSON(apimodels.NewErrorWithCode(code, err.Error()))
}

func StatusByCode(code string) int {
	switch code {
	case models.ErrCodeNotFound:
		return fiber.StatusNotFound
	case models.ErrCodeInvalidTransition:
		return fiber.StatusConflict
	case models.ErrCodeConversionFailed:
		return fiber.StatusBadGateway
	case models.ErrCodeEmptySelection,
		models.ErrCodeMissingRejection,
		models.ErrCodeMissingJobAssignment,
		models.ErrCodeUnknownStatus,
		models.ErrCodeInvalidPriority,
		models.ErrCodeUnknownOperation,
		models.ErrCodeInvalidApplicationData:
		return fiber.StatusBadRequest
	}
	// internal, audit_emission_failed и любые новые коды
	return fiber.StatusInternalServerError
}
