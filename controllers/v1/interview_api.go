package apiv1

import (
	"ai-interview-backend/controllers"
	filestorage "ai-interview-backend/lib/file-storage"
	"ai-interview-backend/lib/interview"
	answerstore "ai-interview-backend/lib/interview/answer-store"
	questionstore "ai-interview-backend/lib/interview/question-store"
	"ai-interview-backend/lib/pipeline"
	resumeparser "ai-interview-backend/lib/resume-parser"
	"ai-interview-backend/middleware"
	"ai-interview-backend/models"
	apimodels "ai-interview-backend/models/api"
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type interviewController struct {
	controllers.BaseAPIController
	handler       interview.Provider
	questionStore questionstore.Provider
	answerStore   answerstore.Provider
	fileStorage   filestorage.Provider
	dispatcher    pipeline.Dispatcher
}

func InitInterviewRouters(app fiber.Router, jwtSecret string, handler interview.Provider,
	questionStore questionstore.Provider, answerStore answerstore.Provider,
	fileStorage filestorage.Provider, dispatcher pipeline.Dispatcher) {
	controller := interviewController{
		handler:       handler,
		questionStore: questionStore,
		answerStore:   answerStore,
		fileStorage:   fileStorage,
		dispatcher:    dispatcher,
	}
	app.Route("interviews", func(route fiber.Router) {
		route.Use(middleware.AuthorizationRequired(jwtSecret))

		route.Post("", controller.Create)
		route.Get(":id", controller.Get)
		route.Post(":id/resume", controller.UploadResume)
		route.Post(":id/setup-ai", controller.SetupAI)
		route.Post(":id/start", controller.Start)
		route.Get(":id/next-question", controller.NextQuestion)
		route.Post(":id/answer-complete", controller.AnswerComplete)
		route.Post(":id/end", controller.End)
		route.Post(":id/questions/:qid/skip", controller.Skip)
		route.Post(":id/questions/:qid/video", controller.UploadVideo)
		route.Get(":id/questions/:qid/answer-status", controller.AnswerStatus)
	})
}

// @Summary Создание сессии интервью
// @Tags Интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   body		body	interviewapimodels.CreateSessionRequest 	true 	"Описание вакансии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews [post]
func (c *interviewController) Create(ctx *fiber.Ctx) error {
	body := interviewapimodels.CreateSessionRequest{}
	if err := c.BodyParser(ctx, &body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := body.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := c.handler.Create(middleware.GetUserID(ctx), body.JobDescription)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка создания сессии интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(toSessionView(*rec)))
}

// @Summary Сессия интервью
// @Tags Интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.SessionView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id} [get]
func (c *interviewController) Get(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	rec, err := c.handler.Get(middleware.GetUserID(ctx), recID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(toSessionView(*rec)))
}

// @Summary Загрузка резюме
// @Tags Интервью
// @Description Текстовое резюме (multipart), сохраняется в S3, текст извлекается для анализа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Param   file				formData	file	true	"Файл резюме"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/resume [post]
func (c *interviewController) UploadResume(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан файл резюме"))
	}
	data, err := readMultipartFile(fileHeader)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка чтения файла резюме")
	}
	text, err := resumeparser.Parse(fileHeader.Filename, data)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}

	fileID, err := c.fileStorage.UploadResume(ctx.UserContext(), recID, bytesReader(data), int64(len(data)))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка сохранения резюме")
	}
	err = c.handler.AttachResume(middleware.GetUserID(ctx), recID, fileHeader.Filename, fileID, text)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Анализ резюме и генерация вопросов
// @Tags Интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.AIContext}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/setup-ai [post]
func (c *interviewController) SetupAI(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	aiCtx, err := c.handler.SetupAI(ctx.UserContext(), middleware.GetUserID(ctx), recID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(aiCtx))
}

// @Summary Старт интервью
// @Tags Интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Param   voice      		query   string  true    "Голос интервьюера (male/female)"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/start [post]
func (c *interviewController) Start(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	voice := ctx.Query("voice", "")
	if err := c.handler.Start(middleware.GetUserID(ctx), recID, voice); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Следующий вопрос
// @Tags Интервью
// @Description Вопрос с order = current_question_index + 1; при исчерпании вопросов сессия завершается
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.NextQuestionView}
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/next-question [get]
func (c *interviewController) NextQuestion(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, exhausted, err := c.handler.NextQuestion(middleware.GetUserID(ctx), middleware.GetUserEmail(ctx), recID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	if exhausted {
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(interviewapimodels.InterviewFinished{Finished: true}))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Переход к следующему вопросу
// @Tags Интервью
// @Description Атомарный сдвиг курсора после завершения ответа
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Success 200 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/answer-complete [post]
func (c *interviewController) AnswerComplete(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := c.handler.Advance(middleware.GetUserID(ctx), recID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Завершение интервью
// @Tags Интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Success 200 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/end [post]
func (c *interviewController) End(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := c.handler.End(middleware.GetUserID(ctx), middleware.GetUserEmail(ctx), recID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Пропуск вопроса
// @Tags Интервью
// @Description Фиксирует пропущенный ответ с нулевой оценкой и сдвигает курсор
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Param   qid          		path    string  true    "ID вопроса"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/questions/{qid}/skip [post]
func (c *interviewController) Skip(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	questionID := ctx.Params("qid")
	if questionID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан идентификатор вопроса"))
	}
	if err := c.handler.Skip(middleware.GetUserID(ctx), recID, questionID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Загрузка видеоответа
// @Tags Интервью
// @Description Сохраняет видео в S3, создаёт ответ и ставит обработку в очередь
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Param   qid          		path    string  true    "ID вопроса"
// @Param   file				formData	file	true	"Видеофайл ответа"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/questions/{qid}/video [post]
func (c *interviewController) UploadVideo(ctx *fiber.Ctx) error {
	logger := c.GetLogger(ctx)
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	questionID := ctx.Params("qid")
	if questionID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан идентификатор вопроса"))
	}

	session, err := c.handler.Get(middleware.GetUserID(ctx), recID)
	if err != nil {
		return c.SendError(ctx, logger, err, err.Error())
	}
	if session.Status != dbmodels.SessionInProgress {
		err = errors.Wrap(models.ErrPreconditionFailed, "интервью не в статусе in_progress")
		return c.SendError(ctx, logger, err, err.Error())
	}
	question, err := c.questionStore.GetByID(recID, questionID)
	if err != nil {
		return c.SendError(ctx, logger, err, "ошибка получения вопроса")
	}
	if question == nil {
		err = errors.Wrap(models.ErrNotFound, "вопрос не найден")
		return c.SendError(ctx, logger, err, err.Error())
	}
	existing, err := c.answerStore.GetBySessionQuestion(recID, questionID)
	if err != nil {
		return c.SendError(ctx, logger, err, "ошибка получения ответа")
	}
	if existing != nil {
		// Ответ есть, но обработка так и не стартовала (например, очередь была
		// переполнена и запись осталась в uploaded) — повторная постановка в очередь
		if existing.Status == dbmodels.AnswerUploaded {
			if err := c.dispatcher.Enqueue(recID, questionID); err != nil {
				return c.SendError(ctx, logger, err, err.Error())
			}
			logger.WithField("question_id", questionID).Info("ответ повторно поставлен в очередь обработки")
			return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
		}
		err = errors.Wrap(models.ErrPreconditionFailed, "видеоответ по вопросу уже загружен")
		return c.SendError(ctx, logger, err, err.Error())
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не передан видеофайл"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.SendError(ctx, logger, err, "ошибка чтения видеофайла")
	}
	defer file.Close()

	fileID, err := c.fileStorage.UploadVideo(ctx.UserContext(), recID, questionID, file, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return c.SendError(ctx, logger, err, "ошибка сохранения видео")
	}

	_, err = c.answerStore.Create(dbmodels.InterviewAnswer{
		SessionID:   recID,
		QuestionID:  questionID,
		VideoFileID: fileID,
		UploadID:    uuid.NewString(),
		Status:      dbmodels.AnswerUploaded,
	})
	if err != nil {
		return c.SendError(ctx, logger, err, "ошибка сохранения ответа")
	}

	if err := c.dispatcher.Enqueue(recID, questionID); err != nil {
		// Запись отменяется, иначе пара (сессия, вопрос) навсегда
		// останется в uploaded без шанса на обработку
		if delErr := c.answerStore.DeleteUploaded(recID, questionID); delErr != nil {
			logger.WithError(delErr).
				WithField("question_id", questionID).
				Warn("не удалось откатить непоставленный в очередь ответ")
		}
		return c.SendError(ctx, logger, err, err.Error())
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Статус обработки ответа
// @Tags Интервью
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true    "ID сессии"
// @Param   qid          		path    string  true    "ID вопроса"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.AnswerStatusView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/{id}/questions/{qid}/answer-status [get]
func (c *interviewController) AnswerStatus(ctx *fiber.Ctx) error {
	recID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	questionID := ctx.Params("qid")
	if questionID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не указан идентификатор вопроса"))
	}
	if _, err := c.handler.Get(middleware.GetUserID(ctx), recID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	answer, err := c.answerStore.GetBySessionQuestion(recID, questionID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "ошибка получения ответа")
	}
	if answer == nil {
		err = errors.Wrap(models.ErrNotFound, "ответ не найден")
		return c.SendError(ctx, c.GetLogger(ctx), err, err.Error())
	}
	view := interviewapimodels.AnswerStatusView{
		Status:        string(answer.Status),
		HasTranscript: answer.Transcript != "",
		HasScore:      answer.Score != nil,
		HasFeedback:   answer.Feedback != "",
		Error:         answer.Error,
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

func toSessionView(rec dbmodels.InterviewSession) interviewapimodels.SessionView {
	return interviewapimodels.SessionView{
		ID:                   rec.ID,
		Status:               string(rec.Status),
		JobDescription:       rec.JobDescription,
		ResumeName:           rec.ResumeName,
		MatchScore:           rec.MatchScore,
		Strengths:            rec.Strengths,
		Gaps:                 rec.Gaps,
		Voice:                rec.Voice,
		CurrentQuestionIndex: rec.CurrentQuestionIndex,
		CreatedAt:            rec.CreatedAt,
		StartedAt:            rec.StartedAt,
		CompletedAt:          rec.CompletedAt,
	}
}
