package apiv1

import (
	"bytes"
	"fmt"
	"time"

	"ats-backend/config"
	"ats-backend/controllers"
	"ats-backend/lib/application"
	applicationhistoryhandler "ats-backend/lib/application-history"
	applicationbulk "ats-backend/lib/application/bulk"
	pdfexport "ats-backend/lib/export/pdf"
	xlsexport "ats-backend/lib/export/xls"
	filestorage "ats-backend/lib/file-storage"
	"ats-backend/middleware"
	"ats-backend/models"
	apimodels "ats-backend/models/api"
	applicationapimodels "ats-backend/models/api/application"

	"github.com/gofiber/fiber/v2"
)

type applicationApiController struct {
	controllers.BaseAPIController
}

func InitApplicationApiRouters(app *fiber.App) {
	controller := applicationApiController{}
	app.Route("applications", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("export", controller.export)
		router.Post("reload", controller.reload)
		router.Post("bulk", controller.bulk)
		router.Post("bulk/delete", controller.bulkDelete)
		router.Route(":id", func(idRouter fiber.Router) {
			idRouter.Get("", controller.get)
			idRouter.Patch("", controller.update)
			idRouter.Delete("", controller.delete)
			idRouter.Get("history", controller.history)
			idRouter.Get("resume", controller.resume) // ссылка на файл резюме
			idRouter.Get("pdf", controller.pdf)       // карточка заявки
		})
	})
}

// @Summary Список заявок
// @Tags Заявки
// @Description Список заявок, новые первыми
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status	query	string	false	"Статус"
// @Param   jobId	query	string	false	"Вакансия"
// @Param   source	query	string	false	"Источник"
// @Param   search	query	string	false	"Поиск по ФИО, телефону, email"
// @Param   page	query	int	false	"Страница"
// @Param   limit	query	int	false	"Записей на странице"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications [get]
func (c *applicationApiController) list(ctx *fiber.Ctx) error {
	var filter applicationapimodels.ApplicationFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректные параметры фильтра"))
	}
	list, rowCount, err := application.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения списка заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Создать заявку
// @Tags Заявки
// @Description Ручное добавление заявки, статус pending
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	applicationapimodels.ApplicationData	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications [post]
func (c *applicationApiController) create(ctx *fiber.Ctx) error {
	var payload applicationapimodels.ApplicationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := application.Instance.Create(ctx.UserContext(), middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка создания заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Выгрузка заявок в Excel
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status	query	string	false	"Статус"
// @Param   jobId	query	string	false	"Вакансия"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/export [get]
func (c *applicationApiController) export(ctx *fiber.Ctx) error {
	var filter applicationapimodels.ApplicationFilter
	if err := ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректные параметры фильтра"))
	}
	data, err := xlsexport.Instance.ExportApplicationList(application.Instance.ListAll(filter))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка выгрузки заявок в Excel")
	}
	fileName := fmt.Sprintf("applications-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Перечитать заявки из БД
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/reload [post]
func (c *applicationApiController) reload(ctx *fiber.Ctx) error {
	count, err := application.Instance.Reload(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка перезагрузки заявок")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"count": count}))
}

// @Summary Массовая операция
// @Tags Заявки
// @Description approve, reject, set_priority, delete. Ошибки по отдельным заявкам возвращаются в failed
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	applicationapimodels.BulkRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.BulkOperationResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/bulk [post]
func (c *applicationApiController) bulk(ctx *fiber.Ctx) error {
	var payload applicationapimodels.BulkRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := applicationbulk.Instance.Execute(ctx.UserContext(), middleware.GetUserID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка массовой операции")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Массовое удаление
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	applicationapimodels.BulkDeleteRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.BulkOperationResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/bulk/delete [post]
func (c *applicationApiController) bulkDelete(ctx *fiber.Ctx) error {
	var payload applicationapimodels.BulkDeleteRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := applicationbulk.Instance.Execute(ctx.UserContext(), middleware.GetUserID(ctx), applicationapimodels.BulkRequest{
		Operation:      models.BulkOperationDelete,
		ApplicationIDs: payload.ApplicationIDs,
	})
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка массового удаления")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Заявка
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"ID заявки"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @router /api/v1/applications/{id} [get]
func (c *applicationApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := application.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Смена статуса и приоритета
// @Tags Заявки
// @Description rejected требует rejectionReason, approved требует jobId и создает кандидата
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"ID заявки"
// @Param	body body	applicationapimodels.ApplicationPatch	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 502 {object} apimodels.Response
// @Failure 403
// @router /api/v1/applications/{id} [patch]
func (c *applicationApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload applicationapimodels.ApplicationPatch
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := application.Instance.Update(ctx.UserContext(), middleware.GetUserID(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "ошибка изменения заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Удалить заявку
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"ID заявки"
// @Success 200
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @router /api/v1/applications/{id} [delete]
func (c *applicationApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = application.Instance.Delete(ctx.UserContext(), middleware.GetUserID(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "ошибка удаления заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary История изменений заявки
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"ID заявки"
// @Param   page	query	int	false	"Страница"
// @Param   limit	query	int	false	"Записей на странице"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]applicationapimodels.ApplicationHistoryView}
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @router /api/v1/applications/{id}/history [get]
func (c *applicationApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var filter applicationapimodels.ApplicationHistoryFilter
	if err = ctx.QueryParser(&filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректные параметры запроса"))
	}
	list, rowCount, err := applicationhistoryhandler.Instance.List(ctx.UserContext(), id, filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "ошибка получения истории заявки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Ссылка на резюме
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"ID заявки"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ResumeLinkView}
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @router /api/v1/applications/{id}/resume [get]
func (c *applicationApiController) resume(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := application.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения заявки")
	}
	link, expiresAt, err := filestorage.Instance.ResumeLink(ctx.UserContext(), view.ResumeRef)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "ошибка получения резюме")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(applicationapimodels.ResumeLinkView{
		URL:       link,
		ExpiresAt: expiresAt,
	}))
}

// @Summary Карточка заявки в PDF
// @Tags Заявки
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"ID заявки"
// @Success 200
// @Failure 404 {object} apimodels.Response
// @Failure 403
// @router /api/v1/applications/{id}/pdf [get]
func (c *applicationApiController) pdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := application.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения заявки")
	}
	body, err := pdfexport.GenerateApplicationCard(config.Conf.Export.FontDir, view)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx).WithField("application_id", id), err, "ошибка формирования pdf")
	}
	ctx.Set("Content-Type", "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="application-`+id+`.pdf"`)
	return ctx.SendStream(bytes.NewReader(body))
}
