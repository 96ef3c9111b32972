package report

import (
	"testing"

	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	rec *dbmodels.InterviewSession
}

func (f *fakeSessionStore) Create(rec dbmodels.InterviewSession) (string, error) { return "", nil }
func (f *fakeSessionStore) GetByID(id string) (*dbmodels.InterviewSession, error) {
	return f.rec, nil
}
func (f *fakeSessionStore) GetByIDForUser(id, userID string) (*dbmodels.InterviewSession, error) {
	return f.rec, nil
}
func (f *fakeSessionStore) SetResume(id, name, fileID, text string) error { return nil }
func (f *fakeSessionStore) SetupAIContext(id string, matchScore int, strengths, gaps []string) error {
	return nil
}
func (f *fakeSessionStore) Start(id, voice string) error { return nil }
func (f *fakeSessionStore) AdvanceQuestionIndex(id string, fromIndex int) error { return nil }
func (f *fakeSessionStore) Complete(id string) error { return nil }

type fakeQuestionStore struct {
	list []dbmodels.InterviewQuestion
}

func (f *fakeQuestionStore) CreateBatch(recs []dbmodels.InterviewQuestion) error { return nil }
func (f *fakeQuestionStore) GetByID(sessionID, questionID string) (*dbmodels.InterviewQuestion, error) {
	return nil, nil
}
func (f *fakeQuestionStore) GetByOrder(sessionID string, order int) (*dbmodels.InterviewQuestion, error) {
	return nil, nil
}
func (f *fakeQuestionStore) ListBySession(sessionID string) ([]dbmodels.InterviewQuestion, error) {
	return f.list, nil
}
func (f *fakeQuestionStore) FindFollowUpByParent(sessionID, parentQuestionID string) (*dbmodels.InterviewQuestion, error) {
	return nil, nil
}
func (f *fakeQuestionStore) InsertAfterParent(sessionID string, parentOrder int, rec dbmodels.InterviewQuestion) error {
	return nil
}

type fakeAnswerStore struct {
	list []dbmodels.InterviewAnswer
}

func (f *fakeAnswerStore) Create(rec dbmodels.InterviewAnswer) (string, error) { return "", nil }
func (f *fakeAnswerStore) GetBySessionQuestion(sessionID, questionID string) (*dbmodels.InterviewAnswer, error) {
	return nil, nil
}
func (f *fakeAnswerStore) ListBySession(sessionID string) ([]dbmodels.InterviewAnswer, error) {
	return f.list, nil
}
func (f *fakeAnswerStore) MarkProcessing(sessionID, questionID string) error { return nil }
func (f *fakeAnswerStore) SaveAnalysis(sessionID, questionID, transcript, emotion, confidence string, score dbmodels.AnswerScore, feedback string) error {
	return nil
}
func (f *fakeAnswerStore) MarkCompleted(sessionID, questionID string) error { return nil }
func (f *fakeAnswerStore) MarkFailed(sessionID, questionID, errText string) error { return nil }
func (f *fakeAnswerStore) DeleteUploaded(sessionID, questionID string) error { return nil }

func question(id string, order int) dbmodels.InterviewQuestion {
	rec := dbmodels.InterviewQuestion{
		SessionID:    "s1",
		Order:        order,
		QuestionText: "question " + id,
		Kind:         dbmodels.QuestionKindBase,
	}
	rec.ID = id
	return rec
}

func completedAnswer(questionID string, accuracy, communication, behavior int) dbmodels.InterviewAnswer {
	return dbmodels.InterviewAnswer{
		SessionID:  "s1",
		QuestionID: questionID,
		Status:     dbmodels.AnswerCompleted,
		Score: &dbmodels.AnswerScore{
			Accuracy:      accuracy,
			Communication: communication,
			Behavior:      behavior,
		},
		Feedback: "ok",
	}
}

func newTestHandler(session *dbmodels.InterviewSession, questions []dbmodels.InterviewQuestion, answers []dbmodels.InterviewAnswer) Provider {
	return NewHandler(
		&fakeSessionStore{rec: session},
		&fakeQuestionStore{list: questions},
		&fakeAnswerStore{list: answers},
	)
}

func TestBuildReport(t *testing.T) {
	session := &dbmodels.InterviewSession{
		UserID: "u1",
		Status: dbmodels.SessionCompleted,
	}

	t.Run(`знаменатель — все вопросы сессии`, func(t *testing.T) {
		questions := []dbmodels.InterviewQuestion{
			question("q1", 1), question("q2", 2), question("q3", 3),
			question("q4", 4), question("q5", 5),
		}
		answers := []dbmodels.InterviewAnswer{
			completedAnswer("q1", 80, 80, 80),
			completedAnswer("q2", 80, 80, 80),
			completedAnswer("q3", 80, 80, 80),
			{SessionID: "s1", QuestionID: "q4", Status: dbmodels.AnswerSkipped, Score: &dbmodels.AnswerScore{}},
			// q5 — вопрос без ответа
		}
		rec, err := newTestHandler(session, questions, answers).Build("u1", "s1")
		require.Nil(t, err)
		require.Equal(t, interviewapimodels.ReportCompleted, rec.Status)
		// 3*80 / 5 = 48.0, пропуск и неотвеченный вопрос дают нули
		require.Equal(t, 48.0, rec.Scores.Technical)
		require.Equal(t, 48.0, rec.Scores.Communication)
		require.Equal(t, 48.0, rec.Scores.Behavior)
		require.Equal(t, interviewapimodels.DecisionReject, rec.Decision)
		require.Len(t, rec.Questions, 5)
		require.Equal(t, "Skipped", rec.Questions[3].Feedback)
		require.Equal(t, "No answer", rec.Questions[4].Feedback)
	})

	t.Run(`округление до одного знака`, func(t *testing.T) {
		questions := []dbmodels.InterviewQuestion{
			question("q1", 1), question("q2", 2), question("q3", 3),
		}
		answers := []dbmodels.InterviewAnswer{
			completedAnswer("q1", 80, 80, 80),
			completedAnswer("q2", 81, 81, 81),
			completedAnswer("q3", 80, 80, 80),
		}
		rec, err := newTestHandler(session, questions, answers).Build("u1", "s1")
		require.Nil(t, err)
		// 241/3 = 80.333... -> 80.3
		require.Equal(t, 80.3, rec.Scores.Technical)
	})

	t.Run(`решение HIRE`, func(t *testing.T) {
		questions := []dbmodels.InterviewQuestion{question("q1", 1)}
		answers := []dbmodels.InterviewAnswer{completedAnswer("q1", 76, 60, 71)}
		rec, err := newTestHandler(session, questions, answers).Build("u1", "s1")
		require.Nil(t, err)
		require.Equal(t, interviewapimodels.DecisionHire, rec.Decision)
		require.Equal(t, "Strong technical foundation with confident communication.", rec.Summary)
	})

	t.Run(`решение BORDERLINE при недоборе поведения`, func(t *testing.T) {
		questions := []dbmodels.InterviewQuestion{question("q1", 1)}
		answers := []dbmodels.InterviewAnswer{completedAnswer("q1", 76, 60, 50)}
		rec, err := newTestHandler(session, questions, answers).Build("u1", "s1")
		require.Nil(t, err)
		require.Equal(t, interviewapimodels.DecisionBorderline, rec.Decision)
		require.Equal(t, "Candidate shows partial fit and needs improvement.", rec.Summary)
	})

	t.Run(`решение BORDERLINE по нижней границе`, func(t *testing.T) {
		questions := []dbmodels.InterviewQuestion{question("q1", 1)}
		answers := []dbmodels.InterviewAnswer{completedAnswer("q1", 60, 50, 50)}
		rec, err := newTestHandler(session, questions, answers).Build("u1", "s1")
		require.Nil(t, err)
		require.Equal(t, interviewapimodels.DecisionBorderline, rec.Decision)
	})

	t.Run(`решение REJECT`, func(t *testing.T) {
		questions := []dbmodels.InterviewQuestion{question("q1", 1)}
		answers := []dbmodels.InterviewAnswer{completedAnswer("q1", 40, 90, 90)}
		rec, err := newTestHandler(session, questions, answers).Build("u1", "s1")
		require.Nil(t, err)
		require.Equal(t, interviewapimodels.DecisionReject, rec.Decision)
		require.Equal(t, "Candidate does not currently meet role expectations.", rec.Summary)
	})

	t.Run(`ответ в обработке блокирует отчёт целиком`, func(t *testing.T) {
		questions := []dbmodels.InterviewQuestion{question("q1", 1), question("q2", 2)}
		answers := []dbmodels.InterviewAnswer{
			completedAnswer("q1", 90, 90, 90),
			{SessionID: "s1", QuestionID: "q2", Status: dbmodels.AnswerProcessing},
		}
		rec, err := newTestHandler(session, questions, answers).Build("u1", "s1")
		require.Nil(t, err)
		require.Equal(t, interviewapimodels.ReportProcessing, rec.Status)
		require.Nil(t, rec.Scores)
	})

	t.Run(`упавший без оценки ответ оставляет отчёт в processing`, func(t *testing.T) {
		questions := []dbmodels.InterviewQuestion{question("q1", 1)}
		answers := []dbmodels.InterviewAnswer{
			{SessionID: "s1", QuestionID: "q1", Status: dbmodels.AnswerFailed, Error: "transcribe: boom"},
		}
		rec, err := newTestHandler(session, questions, answers).Build("u1", "s1")
		require.Nil(t, err)
		require.Equal(t, interviewapimodels.ReportProcessing, rec.Status)
	})

	t.Run(`сессия без вопросов`, func(t *testing.T) {
		rec, err := newTestHandler(session, nil, nil).Build("u1", "s1")
		require.Nil(t, err)
		require.Equal(t, interviewapimodels.ReportIncomplete, rec.Status)
	})

	t.Run(`чужая сессия не найдена`, func(t *testing.T) {
		_, err := newTestHandler(nil, nil, nil).Build("u2", "s1")
		require.NotNil(t, err)
	})
}
