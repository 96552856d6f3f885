package apiv1

import (
	"ats-backend/controllers"
	"ats-backend/lib/candidate"
	apimodels "ats-backend/models/api"
	candidateapimodels "ats-backend/models/api/candidate"

	"github.com/gofiber/fiber/v2"
)

type candidateApiController struct {
	controllers.BaseAPIController
}

func InitCandidateApiRouters(app *fiber.App) {
	controller := candidateApiController{}
	app.Route("candidates", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("", controller.list)
		router.Get(":id", controller.get)
	})
}

// @Summary Создать кандидата
// @Tags Кандидаты
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	candidateapimodels.CandidateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateCreated}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates [post]
func (c *candidateApiController) create(ctx *fiber.Ctx) error {
	var payload candidateapimodels.CandidateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := candidate.Instance.Create(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка создания кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(candidateapimodels.CandidateCreated{CandidateID: id}))
}

// @Summary Кандидаты вакансии
// @Tags Кандидаты
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   jobId	query	string	false	"Вакансия"
// @Success 200 {object} apimodels.Response{data=[]candidateapimodels.CandidateView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/candidates [get]
func (c *candidateApiController) list(ctx *fiber.Ctx) error {
	list, err := candidate.Instance.List(ctx.UserContext(), ctx.Query("jobId"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения списка кандидатов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Кандидат
// @Tags Кандидаты
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"ID кандидата"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @router /api/v1/candidates/{id} [get]
func (c *candidateApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := candidate.Instance.Get(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения кандидата")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
