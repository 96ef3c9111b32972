package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"ai-interview-backend/config"
	"ai-interview-backend/lib/emotion"
	filestorage "ai-interview-backend/lib/file-storage"
	answerstore "ai-interview-backend/lib/interview/answer-store"
	questionstore "ai-interview-backend/lib/interview/question-store"
	sessionstore "ai-interview-backend/lib/interview/session-store"
	"ai-interview-backend/lib/interview/sequencer"
	"ai-interview-backend/lib/media"
	"ai-interview-backend/lib/scoring"
	"ai-interview-backend/lib/transcribe"
	"ai-interview-backend/lib/utils/helpers"
	"ai-interview-backend/models"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

// Task — одна обработка ответа, ключ (session_id, question_id)
type Task struct {
	SessionID  string
	QuestionID string
}

type Orchestrator struct {
	answerStore   answerstore.Provider
	questionStore questionstore.Provider
	sessionStore  sessionstore.Provider
	fileStorage   filestorage.Provider
	media         media.Provider
	transcriber   transcribe.Provider
	emotion       emotion.Provider
	scorer        scoring.Provider
	decider       scoring.Decider
	sequencer     sequencer.Provider

	frameStride int
	followUpCfg config.FollowUpConfig
}

func NewOrchestrator(
	answerStore answerstore.Provider,
	questionStore questionstore.Provider,
	sessionStore sessionstore.Provider,
	fileStorage filestorage.Provider,
	mediaExtractor media.Provider,
	transcriber transcribe.Provider,
	emotionClient emotion.Provider,
	scorer scoring.Provider,
	decider scoring.Decider,
	seq sequencer.Provider,
	frameStride int,
	followUpCfg config.FollowUpConfig,
) *Orchestrator {
	return &Orchestrator{
		answerStore:   answerStore,
		questionStore: questionStore,
		sessionStore:  sessionStore,
		fileStorage:   fileStorage,
		media:         mediaExtractor,
		transcriber:   transcriber,
		emotion:       emotionClient,
		scorer:        scorer,
		decider:       decider,
		sequencer:     seq,
		frameStride:   frameStride,
		followUpCfg:   followUpCfg,
	}
}

func (o *Orchestrator) getLogger(task Task) *logrus.Entry {
	return log.
		WithField("session_id", task.SessionID).
		WithField("question_id", task.QuestionID)
}

// Run доводит ответ до терминального статуса: completed либо failed.
// Ошибка возвращается только если терминальный статус записать не удалось
func (o *Orchestrator) Run(ctx context.Context, task Task) error {
	logger := o.getLogger(task)

	if err := o.answerStore.MarkProcessing(task.SessionID, task.QuestionID); err != nil {
		if models.IsPreconditionFailed(err) {
			logger.WithError(err).Warn("ответ уже в терминальном статусе, обработка пропущена")
			return nil
		}
		return errors.Wrap(err, "ошибка перевода ответа в processing")
	}

	if err := o.process(ctx, task, logger); err != nil {
		logger.WithError(err).Error("обработка ответа завершилась ошибкой")
		if markErr := o.answerStore.MarkFailed(task.SessionID, task.QuestionID, err.Error()); markErr != nil {
			return errors.Wrap(markErr, "ошибка записи статуса failed")
		}
		return nil
	}

	if err := o.answerStore.MarkCompleted(task.SessionID, task.QuestionID); err != nil {
		return errors.Wrap(err, "ошибка записи статуса completed")
	}
	logger.Info("ответ обработан")
	return nil
}

func (o *Orchestrator) process(ctx context.Context, task Task, logger *logrus.Entry) error {
	answer, err := o.answerStore.GetBySessionQuestion(task.SessionID, task.QuestionID)
	if err != nil {
		return newStageError(StageIngest, err)
	}
	if answer == nil || answer.VideoFileID == "" {
		return newStageError(StageIngest, errors.New("видеоответ не найден"))
	}
	question, err := o.questionStore.GetByID(task.SessionID, task.QuestionID)
	if err != nil {
		return newStageError(StageIngest, err)
	}
	if question == nil {
		return newStageError(StageIngest, errors.New("вопрос не найден"))
	}

	// Рабочая копия живёт только на время обработки
	tmpDir, err := os.MkdirTemp("", "answer-pipeline-*")
	if err != nil {
		return newStageError(StageIngest, errors.Wrap(err, "ошибка создания временной директории"))
	}
	defer os.RemoveAll(tmpDir)

	videoPath, err := o.ingest(ctx, answer.VideoFileID, tmpDir)
	if err != nil {
		return newStageError(StageIngest, err)
	}

	audioPath, err := o.media.ExtractAudio(ctx, videoPath)
	if err != nil {
		return newStageError(StageExtract, err)
	}

	transcript, err := o.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return newStageError(StageTranscribe, err)
	}

	emotionLabel, confidence := o.analyzeEmotion(ctx, videoPath, logger)

	score, feedback, err := o.scorer.ScoreAnswer(ctx, task.SessionID, question.QuestionText, transcript, emotionLabel, confidence)
	if err != nil {
		return newStageError(StageScore, err)
	}
	err = o.answerStore.SaveAnalysis(task.SessionID, task.QuestionID, transcript, emotionLabel, confidence, score, feedback)
	if err != nil {
		return newStageError(StageScore, errors.Wrap(err, "ошибка сохранения результатов анализа"))
	}

	o.tryFollowUp(ctx, task, *question, transcript, score, feedback, logger)
	return nil
}

func (o *Orchestrator) ingest(ctx context.Context, fileID, tmpDir string) (string, error) {
	fileReader, err := o.fileStorage.GetFileObject(ctx, fileID)
	if err != nil {
		return "", err
	}
	defer fileReader.Close()

	videoPath := filepath.Join(tmpDir, "input.webm")
	videoFile, err := os.Create(videoPath)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания временного файла видео")
	}
	defer videoFile.Close()

	if _, err := io.Copy(videoFile, fileReader); err != nil {
		return "", errors.Wrap(err, "ошибка копирования видео из s3")
	}
	return videoPath, nil
}

// analyzeEmotion не фатален для конвейера: при любой ошибке — neutral/low
func (o *Orchestrator) analyzeEmotion(ctx context.Context, videoPath string, logger *logrus.Entry) (string, string) {
	framePaths, err := o.media.SampleFrames(ctx, videoPath, o.frameStride)
	if err != nil {
		logger.WithError(err).Warn("ошибка извлечения кадров, эмоция по умолчанию")
		return emotion.DefaultEmotion, emotion.ConfidenceLow
	}
	emotionLabel, confidence, err := o.emotion.AnalyzeFrames(ctx, framePaths)
	if err != nil {
		logger.WithError(err).Warn("ошибка анализа эмоций, эмоция по умолчанию")
		return emotion.DefaultEmotion, emotion.ConfidenceLow
	}
	return emotionLabel, confidence
}

// tryFollowUp — best-effort: любая ошибка логируется и не влияет на статус ответа
func (o *Orchestrator) tryFollowUp(ctx context.Context, task Task, question dbmodels.InterviewQuestion,
	transcript string, score dbmodels.AnswerScore, feedback string, logger *logrus.Entry) {
	if question.Kind != dbmodels.QuestionKindBase || question.Depth != 0 {
		return
	}
	existing, err := o.questionStore.FindFollowUpByParent(task.SessionID, question.ID)
	if err != nil {
		logger.WithError(err).Warn("ошибка поиска уточняющего вопроса")
		return
	}
	if existing != nil {
		return
	}
	if !o.needFollowUp(transcript, score) {
		return
	}

	session, err := o.sessionStore.GetByID(task.SessionID)
	if err != nil || session == nil {
		logger.WithError(err).Warn("сессия недоступна, уточняющий вопрос не создан")
		return
	}

	decision, err := o.decider.Decide(ctx, scoring.FollowUpInput{
		SessionID:        task.SessionID,
		OriginalQuestion: question.QuestionText,
		Transcript:       transcript,
		Score:            score,
		Feedback:         feedback,
		JobDescription:   session.JobDescription,
		Gaps:             session.Gaps,
	})
	if err != nil {
		logger.WithError(err).Warn("ошибка генерации уточняющего вопроса")
		return
	}
	if !decision.ShouldFollowUp || decision.Question == "" {
		logger.WithField("reason", decision.Reason).Debug("уточняющий вопрос не требуется")
		return
	}

	if err := o.sequencer.InsertFollowUp(task.SessionID, question, decision.Question); err != nil {
		logger.WithError(err).Warn("ошибка вставки уточняющего вопроса")
	}
}

// needFollowUp — гейт необходимости, первый сработавший критерий решает
func (o *Orchestrator) needFollowUp(transcript string, score dbmodels.AnswerScore) bool {
	if helpers.WordCount(transcript) < o.followUpCfg.MinTranscriptWords {
		return true
	}
	if score.Accuracy < o.followUpCfg.AccuracyBelow {
		return true
	}
	if score.Communication < o.followUpCfg.CommunicationBelow {
		return true
	}
	return false
}
