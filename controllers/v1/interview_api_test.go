package apiv1

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

type fakeInterviewHandler struct {
	session *dbmodels.InterviewSession
}

func (f *fakeInterviewHandler) Create(userID, jobDescription string) (*dbmodels.InterviewSession, error) {
	return f.session, nil
}
func (f *fakeInterviewHandler) Get(userID, sessionID string) (*dbmodels.InterviewSession, error) {
	return f.session, nil
}
func (f *fakeInterviewHandler) AttachResume(userID, sessionID, fileName, fileID, text string) error {
	return nil
}
func (f *fakeInterviewHandler) SetupAI(ctx context.Context, userID, sessionID string) (*interviewapimodels.AIContext, error) {
	return nil, nil
}
func (f *fakeInterviewHandler) Start(userID, sessionID, voice string) error { return nil }
func (f *fakeInterviewHandler) NextQuestion(userID, userEmail, sessionID string) (*interviewapimodels.NextQuestionView, bool, error) {
	return nil, false, nil
}
func (f *fakeInterviewHandler) Advance(userID, sessionID string) error          { return nil }
func (f *fakeInterviewHandler) Skip(userID, sessionID, questionID string) error { return nil }
func (f *fakeInterviewHandler) End(userID, userEmail, sessionID string) error   { return nil }

type fakeQuestionStore struct {
	byID *dbmodels.InterviewQuestion
}

func (f *fakeQuestionStore) CreateBatch(recs []dbmodels.InterviewQuestion) error { return nil }
func (f *fakeQuestionStore) GetByID(sessionID, questionID string) (*dbmodels.InterviewQuestion, error) {
	return f.byID, nil
}
func (f *fakeQuestionStore) GetByOrder(sessionID string, order int) (*dbmodels.InterviewQuestion, error) {
	return nil, nil
}
func (f *fakeQuestionStore) ListBySession(sessionID string) ([]dbmodels.InterviewQuestion, error) {
	return nil, nil
}
func (f *fakeQuestionStore) FindFollowUpByParent(sessionID, parentQuestionID string) (*dbmodels.InterviewQuestion, error) {
	return nil, nil
}
func (f *fakeQuestionStore) InsertAfterParent(sessionID string, parentOrder int, rec dbmodels.InterviewQuestion) error {
	return nil
}

type fakeAnswerStore struct {
	existing *dbmodels.InterviewAnswer

	created *dbmodels.InterviewAnswer
	deleted bool
}

func (f *fakeAnswerStore) Create(rec dbmodels.InterviewAnswer) (string, error) {
	f.created = &rec
	return "a1", nil
}
func (f *fakeAnswerStore) GetBySessionQuestion(sessionID, questionID string) (*dbmodels.InterviewAnswer, error) {
	return f.existing, nil
}
func (f *fakeAnswerStore) ListBySession(sessionID string) ([]dbmodels.InterviewAnswer, error) {
	return nil, nil
}
func (f *fakeAnswerStore) MarkProcessing(sessionID, questionID string) error { return nil }
func (f *fakeAnswerStore) SaveAnalysis(sessionID, questionID, transcript, emotion, confidence string, score dbmodels.AnswerScore, feedback string) error {
	return nil
}
func (f *fakeAnswerStore) MarkCompleted(sessionID, questionID string) error       { return nil }
func (f *fakeAnswerStore) MarkFailed(sessionID, questionID, errText string) error { return nil }
func (f *fakeAnswerStore) DeleteUploaded(sessionID, questionID string) error {
	f.deleted = true
	return nil
}

type fakeFileStorage struct {
	uploads int
}

func (f *fakeFileStorage) UploadVideo(ctx context.Context, sessionID, questionID string, fileReader io.Reader, fileSize int64, contentType string) (string, error) {
	f.uploads++
	return "file-1", nil
}
func (f *fakeFileStorage) UploadResume(ctx context.Context, sessionID string, fileReader io.Reader, fileSize int64) (string, error) {
	return "resume-1", nil
}
func (f *fakeFileStorage) GetFileObject(ctx context.Context, fileID string) (io.ReadCloser, error) {
	return nil, nil
}
func (f *fakeFileStorage) MakeBucket(ctx context.Context) error { return nil }

type fakeDispatcher struct {
	enqueueErr error
	calls      int
}

func (f *fakeDispatcher) Enqueue(sessionID, questionID string) error {
	f.calls++
	return f.enqueueErr
}
func (f *fakeDispatcher) StartWorkers(ctx context.Context) {}

func newVideoTestApp(answers *fakeAnswerStore, storage *fakeFileStorage, dispatcher *fakeDispatcher) *fiber.App {
	session := &dbmodels.InterviewSession{
		UserID: "u1",
		Status: dbmodels.SessionInProgress,
	}
	session.ID = "s1"
	question := dbmodels.InterviewQuestion{Kind: dbmodels.QuestionKindBase}
	question.ID = "q1"

	app := fiber.New()
	InitInterviewRouters(app, testJWTSecret,
		&fakeInterviewHandler{session: session},
		&fakeQuestionStore{byID: &question},
		answers, storage, dispatcher)
	return app
}

func signTestToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"email":   "user@mail.test",
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.Nil(t, err)
	return signed
}

func newVideoRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	body := bytes.Buffer{}
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "answer.webm")
	require.Nil(t, err)
	_, err = part.Write([]byte("video-bytes"))
	require.Nil(t, err)
	require.Nil(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/interviews/s1/questions/q1/video", &body)
	require.Nil(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadVideo(t *testing.T) {
	token := signTestToken(t)

	t.Run(`успешная загрузка ставит обработку в очередь`, func(t *testing.T) {
		answers := &fakeAnswerStore{}
		storage := &fakeFileStorage{}
		dispatcher := &fakeDispatcher{}
		app := newVideoTestApp(answers, storage, dispatcher)

		resp, err := app.Test(newVideoRequest(t, token))
		require.Nil(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, answers.created)
		require.Equal(t, dbmodels.AnswerUploaded, answers.created.Status)
		require.Equal(t, 1, dispatcher.calls)
	})

	t.Run(`переполненная очередь откатывает созданный ответ`, func(t *testing.T) {
		answers := &fakeAnswerStore{}
		storage := &fakeFileStorage{}
		dispatcher := &fakeDispatcher{enqueueErr: errors.New("очередь обработки ответов переполнена")}
		app := newVideoTestApp(answers, storage, dispatcher)

		resp, err := app.Test(newVideoRequest(t, token))
		require.Nil(t, err)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		// запись создана, но после отказа очереди откатывается:
		// пара (сессия, вопрос) остаётся доступной для повторной загрузки
		require.NotNil(t, answers.created)
		require.True(t, answers.deleted)
	})

	t.Run(`застрявший в uploaded ответ ставится в очередь повторно`, func(t *testing.T) {
		answers := &fakeAnswerStore{existing: &dbmodels.InterviewAnswer{Status: dbmodels.AnswerUploaded}}
		storage := &fakeFileStorage{}
		dispatcher := &fakeDispatcher{}
		app := newVideoTestApp(answers, storage, dispatcher)

		resp, err := app.Test(newVideoRequest(t, token))
		require.Nil(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, dispatcher.calls)
		// видео не перезаливается и новая запись не создаётся
		require.Equal(t, 0, storage.uploads)
		require.Nil(t, answers.created)
	})

	t.Run(`обработанный ответ не перезаливается`, func(t *testing.T) {
		answers := &fakeAnswerStore{existing: &dbmodels.InterviewAnswer{Status: dbmodels.AnswerCompleted}}
		storage := &fakeFileStorage{}
		dispatcher := &fakeDispatcher{}
		app := newVideoTestApp(answers, storage, dispatcher)

		resp, err := app.Test(newVideoRequest(t, token))
		require.Nil(t, err)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, 0, dispatcher.calls)
	})

	t.Run(`без токена запрос отклоняется`, func(t *testing.T) {
		answers := &fakeAnswerStore{}
		app := newVideoTestApp(answers, &fakeFileStorage{}, &fakeDispatcher{})

		req := newVideoRequest(t, token)
		req.Header.Del("Authorization")
		resp, err := app.Test(req)
		require.Nil(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
