package report

import (
	"math"

	answerstore "ai-interview-backend/lib/interview/answer-store"
	questionstore "ai-interview-backend/lib/interview/question-store"
	sessionstore "ai-interview-backend/lib/interview/session-store"
	"ai-interview-backend/models"
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
)

const (
	feedbackNoAnswer = "No answer"
	feedbackSkipped  = "Skipped"
)

// Provider — итоговый отчёт по сессии, считается заново на каждый запрос
type Provider interface {
	Build(userID, sessionID string) (*interviewapimodels.Report, error)
}

func NewHandler(sessionStore sessionstore.Provider, questionStore questionstore.Provider,
	answerStore answerstore.Provider) Provider {
	return &impl{
		sessionStore:  sessionStore,
		questionStore: questionStore,
		answerStore:   answerStore,
	}
}

type impl struct {
	sessionStore  sessionstore.Provider
	questionStore questionstore.Provider
	answerStore   answerstore.Provider
}

func (i impl) Build(userID, sessionID string) (*interviewapimodels.Report, error) {
	session, err := i.sessionStore.GetByIDForUser(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.Wrap(models.ErrNotFound, "сессия интервью не найдена")
	}

	questions, err := i.questionStore.ListBySession(sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения вопросов сессии")
	}
	// Знаменатель — все вопросы сессии, отвеченные и нет
	total := len(questions)
	if total == 0 {
		return &interviewapimodels.Report{
			Status:  interviewapimodels.ReportIncomplete,
			Message: "в сессии нет вопросов",
		}, nil
	}

	answers, err := i.answerStore.ListBySession(sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения ответов сессии")
	}
	answerByQuestion := map[string]dbmodels.InterviewAnswer{}
	for _, answer := range answers {
		answerByQuestion[answer.QuestionID] = answer
	}

	feedbacks := make([]interviewapimodels.QuestionFeedback, 0, total)
	sumAccuracy, sumCommunication, sumBehavior := 0, 0, 0
	for _, question := range questions {
		fb := interviewapimodels.QuestionFeedback{
			QuestionID:   question.ID,
			QuestionText: question.QuestionText,
			Order:        question.Order,
		}
		answer, ok := answerByQuestion[question.ID]
		switch {
		case !ok:
			fb.Feedback = feedbackNoAnswer
		case answer.Status == dbmodels.AnswerSkipped:
			fb.Feedback = feedbackSkipped
		case answer.Status == dbmodels.AnswerCompleted && answer.Score != nil:
			fb.Accuracy = answer.Score.Accuracy
			fb.Communication = answer.Score.Communication
			fb.Behavior = answer.Score.Behavior
			fb.Feedback = answer.Feedback
		default:
			// ответ без финальной оценки, отчёт целиком не готов
			return &interviewapimodels.Report{
				Status:  interviewapimodels.ReportProcessing,
				Message: "часть ответов ещё обрабатывается",
			}, nil
		}
		sumAccuracy += fb.Accuracy
		sumCommunication += fb.Communication
		sumBehavior += fb.Behavior
		feedbacks = append(feedbacks, fb)
	}

	scores := interviewapimodels.ReportScores{
		Technical:     round1(float64(sumAccuracy) / float64(total)),
		Communication: round1(float64(sumCommunication) / float64(total)),
		Behavior:      round1(float64(sumBehavior) / float64(total)),
	}

	decision := decide(scores)
	return &interviewapimodels.Report{
		Status:    interviewapimodels.ReportCompleted,
		Decision:  decision,
		Scores:    &scores,
		Strengths: session.Strengths,
		Gaps:      session.Gaps,
		Questions: feedbacks,
		Summary:   summaryFor(decision),
	}, nil
}

func summaryFor(decision interviewapimodels.Decision) string {
	switch decision {
	case interviewapimodels.DecisionHire:
		return "Strong technical foundation with confident communication."
	case interviewapimodels.DecisionBorderline:
		return "Candidate shows partial fit and needs improvement."
	default:
		return "Candidate does not currently meet role expectations."
	}
}

func decide(scores interviewapimodels.ReportScores) interviewapimodels.Decision {
	if scores.Technical >= 75 && scores.Behavior >= 70 {
		return interviewapimodels.DecisionHire
	}
	if scores.Technical >= 60 {
		return interviewapimodels.DecisionBorderline
	}
	return interviewapimodels.DecisionReject
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
