package sequencer

import (
	questionstore "ai-interview-backend/lib/interview/question-store"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider владеет инвариантами порядка вопросов сессии:
// плотная нумерация 1..N и не более одного followup на базовый вопрос
type Provider interface {
	InsertFollowUp(sessionID string, parent dbmodels.InterviewQuestion, questionText string) error
}

func NewInstance(questionStore questionstore.Provider) Provider {
	return &impl{
		questionStore: questionStore,
	}
}

type impl struct {
	questionStore questionstore.Provider
}

func (i impl) InsertFollowUp(sessionID string, parent dbmodels.InterviewQuestion, questionText string) error {
	// followup для followup не создаём
	if parent.Kind == dbmodels.QuestionKindFollowUp || parent.Depth >= 1 {
		return errors.New("родительский вопрос сам является уточняющим")
	}
	existing, err := i.questionStore.FindFollowUpByParent(sessionID, parent.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка поиска существующего уточняющего вопроса")
	}
	if existing != nil {
		return errors.New("уточняющий вопрос для этого родителя уже существует")
	}
	if parent.Order <= 0 {
		// повреждённые данные, вставка наугад хуже отказа
		return errors.Errorf("некорректный порядок родительского вопроса: %d", parent.Order)
	}

	rec := dbmodels.InterviewQuestion{
		QuestionText:     questionText,
		Kind:             dbmodels.QuestionKindFollowUp,
		ParentQuestionID: parent.ID,
		Depth:            1,
		CreatedBy:        dbmodels.QuestionByAI,
	}
	if err := i.questionStore.InsertAfterParent(sessionID, parent.Order, rec); err != nil {
		return err
	}

	log.
		WithField("session_id", sessionID).
		WithField("parent_question_id", parent.ID).
		WithField("parent_order", parent.Order).
		Info("уточняющий вопрос вставлен после родителя")
	return nil
}
