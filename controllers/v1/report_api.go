package apiv1

import (
	"ai-interview-backend/controllers"
	"ai-interview-backend/lib/report"
	xlsexport "ai-interview-backend/lib/report/xls"
	"ai-interview-backend/middleware"
	"ai-interview-backend/models"
	apimodels "ai-interview-backend/models/api"
	interviewapimodels "ai-interview-backend/models/api/interview"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type reportController struct {
	controllers.BaseAPIController
	handler report.Provider
	export  xlsexport.Provider
}

func InitReportRouters(app fiber.Router, jwtSecret string, handler report.Provider, export xlsexport.Provider) {
	controller := reportController{
		handler: handler,
		export:  export,
	}
	app.Route("interviews", func(route fiber.Router) {
		route.Use(middleware.AuthorizationRequired(jwtSecret))

		route.Get(":id/report", controller.GetReport)
		route.Get(":id/report/xlsx", controller.ExportReport)
	})
}

// @Summary Отчёт по интервью
// @Tags Отчёт
// @Description Отчёт считается заново на каждый запрос; при незавершённой обработке вернёт status=processing
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.Report}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/report [get]
func (c *reportController) GetReport(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := c.handler.Build(middleware.GetUserID(ctx), recID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

// @Summary Выгрузка отчёта в xlsx
// @Tags Отчёт
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Success 200
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/report/xlsx [get]
func (c *reportController) ExportReport(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := c.handler.Build(middleware.GetUserID(ctx), recID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	if rec.Status != interviewapimodels.ReportCompleted {
		err = errors.Wrapf(models.ErrPreconditionFailed, "отчёт не готов (%s)", rec.Status)
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	buf, err := c.export.ExportReport(*rec)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка выгрузки отчёта")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="interview_report.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}
