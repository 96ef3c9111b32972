package interview

import (
	"context"
	"fmt"

	"ai-interview-backend/lib/analysis"
	answerstore "ai-interview-backend/lib/interview/answer-store"
	questionstore "ai-interview-backend/lib/interview/question-store"
	sessionstore "ai-interview-backend/lib/interview/session-store"
	"ai-interview-backend/lib/smtp"
	"ai-interview-backend/models"
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider — жизненный цикл сессии интервью:
// created -> questions_generated -> in_progress -> completed
type Provider interface {
	Create(userID, jobDescription string) (*dbmodels.InterviewSession, error)
	Get(userID, sessionID string) (*dbmodels.InterviewSession, error)
	AttachResume(userID, sessionID, fileName, fileID, text string) error
	SetupAI(ctx context.Context, userID, sessionID string) (*interviewapimodels.AIContext, error)
	Start(userID, sessionID, voice string) error
	// NextQuestion возвращает вопрос с order = current_question_index + 1;
	// отсутствие такого вопроса — сигнал исчерпания, сессия переводится в completed
	NextQuestion(userID, userEmail, sessionID string) (view *interviewapimodels.NextQuestionView, exhausted bool, err error)
	Advance(userID, sessionID string) error
	Skip(userID, sessionID, questionID string) error
	End(userID, userEmail, sessionID string) error
}

func NewHandler(sessionStore sessionstore.Provider, questionStore questionstore.Provider,
	answerStore answerstore.Provider, analyzer analysis.Provider, mail smtp.Provider) Provider {
	return &impl{
		sessionStore:  sessionStore,
		questionStore: questionStore,
		answerStore:   answerStore,
		analyzer:      analyzer,
		mail:          mail,
	}
}

type impl struct {
	sessionStore  sessionstore.Provider
	questionStore questionstore.Provider
	answerStore   answerstore.Provider
	analyzer      analysis.Provider
	mail          smtp.Provider
}

func (i impl) getLogger(sessionID string) *log.Entry {
	return log.WithField("session_id", sessionID)
}

func (i impl) Create(userID, jobDescription string) (*dbmodels.InterviewSession, error) {
	rec := dbmodels.InterviewSession{
		UserID:         userID,
		Status:         dbmodels.SessionCreated,
		JobDescription: jobDescription,
	}
	id, err := i.sessionStore.Create(rec)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания сессии интервью")
	}
	i.getLogger(id).Info("сессия интервью создана")
	return i.sessionStore.GetByID(id)
}

func (i impl) Get(userID, sessionID string) (*dbmodels.InterviewSession, error) {
	rec, err := i.sessionStore.GetByIDForUser(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "сессия интервью не найдена")
	}
	return rec, nil
}

func (i impl) AttachResume(userID, sessionID, fileName, fileID, text string) error {
	if _, err := i.Get(userID, sessionID); err != nil {
		return err
	}
	return i.sessionStore.SetResume(sessionID, fileName, fileID, text)
}

func (i impl) SetupAI(ctx context.Context, userID, sessionID string) (*interviewapimodels.AIContext, error) {
	rec, err := i.Get(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.ResumeText == "" {
		return nil, errors.Wrap(models.ErrValidation, "резюме ещё не загружено")
	}
	if rec.JobDescription == "" {
		return nil, errors.Wrap(models.ErrValidation, "не заполнено описание вакансии")
	}
	if rec.Status != dbmodels.SessionCreated || rec.HasAIContext() {
		return nil, errors.Wrap(models.ErrPreconditionFailed, "AI-контекст уже сформирован")
	}

	aiCtx, err := i.analyzer.AnalyzeResumeAndJD(ctx, sessionID, rec.ResumeText, rec.JobDescription)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка анализа резюме")
	}

	// Условное обновление забирает право на генерацию:
	// конкурентный повторный setup-ai получит PreconditionFailed
	if err := i.sessionStore.SetupAIContext(sessionID, aiCtx.MatchScore, aiCtx.Strengths, aiCtx.Gaps); err != nil {
		return nil, err
	}

	questions := make([]dbmodels.InterviewQuestion, 0, len(aiCtx.Questions))
	for n, text := range aiCtx.Questions {
		questions = append(questions, dbmodels.InterviewQuestion{
			SessionID:    sessionID,
			Order:        n + 1,
			QuestionText: text,
			Kind:         dbmodels.QuestionKindBase,
			Depth:        0,
			CreatedBy:    dbmodels.QuestionByAI,
		})
	}
	if err := i.questionStore.CreateBatch(questions); err != nil {
		return nil, errors.Wrap(err, "ошибка сохранения вопросов интервью")
	}

	i.getLogger(sessionID).
		WithField("questions", len(questions)).
		Info("вопросы интервью сгенерированы")
	return &aiCtx, nil
}

func (i impl) Start(userID, sessionID, voice string) error {
	if !interviewapimodels.IsValidVoice(voice) {
		return errors.Wrap(models.ErrValidation, "недопустимый голос интервьюера")
	}
	if _, err := i.Get(userID, sessionID); err != nil {
		return err
	}
	if err := i.sessionStore.Start(sessionID, voice); err != nil {
		return err
	}
	i.getLogger(sessionID).WithField("voice", voice).Info("интервью начато")
	return nil
}

func (i impl) NextQuestion(userID, userEmail, sessionID string) (*interviewapimodels.NextQuestionView, bool, error) {
	rec, err := i.Get(userID, sessionID)
	if err != nil {
		return nil, false, err
	}
	if rec.Status != dbmodels.SessionInProgress {
		return nil, false, errors.Wrap(models.ErrPreconditionFailed, "интервью не в статусе in_progress")
	}

	question, err := i.questionStore.GetByOrder(sessionID, rec.CurrentQuestionIndex+1)
	if err != nil {
		return nil, false, err
	}
	if question == nil {
		// вопросы исчерпаны — терминальный сигнал
		if err := i.sessionStore.Complete(sessionID); err != nil && !models.IsPreconditionFailed(err) {
			return nil, false, err
		}
		i.getLogger(sessionID).Info("вопросы исчерпаны, интервью завершено")
		i.notifyCompleted(userEmail, sessionID)
		return nil, true, nil
	}

	return &interviewapimodels.NextQuestionView{
		QuestionNumber: rec.CurrentQuestionIndex + 1,
		QuestionID:     question.ID,
		QuestionText:   question.QuestionText,
		Kind:           string(question.Kind),
		Voice:          rec.Voice,
	}, false, nil
}

func (i impl) Advance(userID, sessionID string) error {
	rec, err := i.Get(userID, sessionID)
	if err != nil {
		return err
	}
	return i.sessionStore.AdvanceQuestionIndex(sessionID, rec.CurrentQuestionIndex)
}

func (i impl) Skip(userID, sessionID, questionID string) error {
	rec, err := i.Get(userID, sessionID)
	if err != nil {
		return err
	}
	if rec.Status != dbmodels.SessionInProgress {
		return errors.Wrap(models.ErrPreconditionFailed, "интервью не в статусе in_progress")
	}
	question, err := i.questionStore.GetByID(sessionID, questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return errors.Wrap(models.ErrNotFound, "вопрос не найден")
	}
	existing, err := i.answerStore.GetBySessionQuestion(sessionID, questionID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Wrap(models.ErrPreconditionFailed, "по вопросу уже есть ответ")
	}

	// Пропуск фиксируется нулевой оценкой
	_, err = i.answerStore.Create(dbmodels.InterviewAnswer{
		SessionID:  sessionID,
		QuestionID: questionID,
		Status:     dbmodels.AnswerSkipped,
		Score:      &dbmodels.AnswerScore{},
	})
	if err != nil {
		return errors.Wrap(err, "ошибка сохранения пропущенного ответа")
	}

	if err := i.sessionStore.AdvanceQuestionIndex(sessionID, rec.CurrentQuestionIndex); err != nil {
		return err
	}
	i.getLogger(sessionID).WithField("question_id", questionID).Info("вопрос пропущен")
	return nil
}

func (i impl) End(userID, userEmail, sessionID string) error {
	if _, err := i.Get(userID, sessionID); err != nil {
		return err
	}
	if err := i.sessionStore.Complete(sessionID); err != nil {
		return err
	}
	i.getLogger(sessionID).Info("интервью завершено по запросу пользователя")
	i.notifyCompleted(userEmail, sessionID)
	return nil
}

// notifyCompleted — уведомление о завершении, ошибки не влияют на переход
func (i impl) notifyCompleted(userEmail, sessionID string) {
	if i.mail == nil || userEmail == "" {
		return
	}
	message := fmt.Sprintf("Ваше интервью %s завершено. Отчёт будет доступен после окончания обработки ответов.", sessionID)
	if err := i.mail.SendEMail(userEmail, "Интервью завершено", message); err != nil {
		i.getLogger(sessionID).WithError(err).Warn("не удалось отправить уведомление о завершении интервью")
	}
}
