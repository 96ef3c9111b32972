package initializers

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ai-interview-backend/config"
	"ai-interview-backend/db"
	"ai-interview-backend/lib/ai"
	ailogstore "ai-interview-backend/lib/ai/ai-log-store"
	azureclient "ai-interview-backend/lib/ai/azure-client"
	geminiclient "ai-interview-backend/lib/ai/gemini-client"
	groqclient "ai-interview-backend/lib/ai/groq-client"
	yagptclient "ai-interview-backend/lib/ai/yagpt-client"
	"ai-interview-backend/lib/analysis"
	"ai-interview-backend/lib/emotion"
	filestorage "ai-interview-backend/lib/file-storage"
	"ai-interview-backend/lib/interview"
	answerstore "ai-interview-backend/lib/interview/answer-store"
	questionstore "ai-interview-backend/lib/interview/question-store"
	sessionstore "ai-interview-backend/lib/interview/session-store"
	"ai-interview-backend/lib/interview/sequencer"
	"ai-interview-backend/lib/media"
	"ai-interview-backend/lib/pipeline"
	"ai-interview-backend/lib/report"
	xlsexport "ai-interview-backend/lib/report/xls"
	"ai-interview-backend/lib/scoring"
	"ai-interview-backend/lib/smtp"
	"ai-interview-backend/lib/transcribe"
)

// Services — все собранные зависимости процесса.
// Клиенты создаются один раз и передаются явно, глобальных синглтонов нет
type Services struct {
	DB            *gorm.DB
	FileStorage   filestorage.Provider
	QuestionStore questionstore.Provider
	AnswerStore   answerstore.Provider
	Interview     interview.Provider
	Report        report.Provider
	XLSExport     xlsexport.Provider
	Dispatcher    pipeline.Dispatcher
}

func InitAllServices(ctx context.Context, conf *config.Configuration) (*Services, error) {
	database, err := db.Connect(
		conf.Database.Host,
		conf.Database.Port,
		conf.Database.Name,
		conf.Database.User,
		conf.Database.Password,
		conf.Database.DebugMode != nil && *conf.Database.DebugMode,
		conf.Database.MigrateOnStart != nil && *conf.Database.MigrateOnStart,
	)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка подключения к базе данных")
	}

	fileStorage, err := filestorage.NewInstance(conf.S3)
	if err != nil {
		return nil, err
	}
	if err := fileStorage.MakeBucket(ctx); err != nil {
		return nil, errors.Wrap(err, "ошибка создания бакета")
	}

	sessionStore := sessionstore.NewInstance(database)
	questionStore := questionstore.NewInstance(database)
	answerStore := answerstore.NewInstance(database)
	aiLogStore := ailogstore.NewInstance(database)

	clients := []ai.Client{
		groqclient.NewClient(conf.AI.Groq.BaseURL, conf.AI.Groq.APIKey, conf.AI.Groq.Model),
		geminiclient.NewClient(conf.AI.Gemini.BaseURL, conf.AI.Gemini.APIKey, conf.AI.Gemini.Model),
		azureclient.NewClient(conf.AI.Azure.Endpoint, conf.AI.Azure.APIKey, conf.AI.Azure.Deployment, conf.AI.Azure.APIVersion),
	}
	if conf.AI.YandexGPT.IAMToken != "" {
		clients = append(clients, yagptclient.NewClient(conf.AI.YandexGPT.IAMToken, conf.AI.YandexGPT.CatalogID))
	}
	generator := ai.NewGenerator(conf.AI.Preferred, conf.ProviderOrder(), clients, aiLogStore)

	analyzer := analysis.NewHandler(generator)
	scorer := scoring.NewHandler(generator)
	decider := scoring.NewDecider(generator)
	seq := sequencer.NewInstance(questionStore)

	mail := smtp.NewClient(
		conf.Smtp.User,
		conf.Smtp.Password,
		conf.Smtp.Host,
		conf.Smtp.Port,
		conf.Smtp.From,
		conf.Smtp.TLSEnabled == nil || *conf.Smtp.TLSEnabled,
	)

	interviewHandler := interview.NewHandler(sessionStore, questionStore, answerStore, analyzer, mail)

	orchestrator := pipeline.NewOrchestrator(
		answerStore,
		questionStore,
		sessionStore,
		fileStorage,
		media.NewExtractor(),
		transcribe.NewClient(conf.Transcribe.Endpoint, conf.Transcribe.Model),
		emotion.NewClient(conf.Emotion.Endpoint),
		scorer,
		decider,
		seq,
		conf.Emotion.FrameStride,
		conf.FollowUp,
	)
	dispatcher := pipeline.NewDispatcher(orchestrator, conf.Pipeline.Workers, conf.Pipeline.QueueSize)
	dispatcher.StartWorkers(ctx)

	log.Info("сервисы инициализированы")
	return &Services{
		DB:            database,
		FileStorage:   fileStorage,
		QuestionStore: questionStore,
		AnswerStore:   answerStore,
		Interview:     interviewHandler,
		Report:        report.NewHandler(sessionStore, questionStore, answerStore),
		XLSExport:     xlsexport.NewHandler(),
		Dispatcher:    dispatcher,
	}, nil
}
