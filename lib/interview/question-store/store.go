package questionstore

import (
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	CreateBatch(recs []dbmodels.InterviewQuestion) error
	GetByID(sessionID, questionID string) (*dbmodels.InterviewQuestion, error)
	GetByOrder(sessionID string, order int) (*dbmodels.InterviewQuestion, error)
	ListBySession(sessionID string) ([]dbmodels.InterviewQuestion, error)
	FindFollowUpByParent(sessionID, parentQuestionID string) (*dbmodels.InterviewQuestion, error)
	// InsertAfterParent выполняет сдвиг-потом-вставку одной транзакцией:
	// order_num всех вопросов правее родителя увеличивается на 1,
	// затем новый вопрос вставляется на parentOrder+1
	InsertAfterParent(sessionID string, parentOrder int, rec dbmodels.InterviewQuestion) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateBatch(recs []dbmodels.InterviewQuestion) error {
	if len(recs) == 0 {
		return nil
	}
	return i.db.
		Create(&recs).
		Error
}

func (i impl) GetByID(sessionID, questionID string) (*dbmodels.InterviewQuestion, error) {
	rec := dbmodels.InterviewQuestion{}
	err := i.db.
		Where("session_id = ?", sessionID).
		Where("id = ?", questionID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByOrder(sessionID string, order int) (*dbmodels.InterviewQuestion, error) {
	rec := dbmodels.InterviewQuestion{}
	err := i.db.
		Where("session_id = ?", sessionID).
		Where("order_num = ?", order).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) ListBySession(sessionID string) ([]dbmodels.InterviewQuestion, error) {
	list := []dbmodels.InterviewQuestion{}
	err := i.db.
		Model(dbmodels.InterviewQuestion{}).
		Where("session_id = ?", sessionID).
		Order("order_num ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) FindFollowUpByParent(sessionID, parentQuestionID string) (*dbmodels.InterviewQuestion, error) {
	rec := dbmodels.InterviewQuestion{}
	err := i.db.
		Where("session_id = ?", sessionID).
		Where("kind = ?", dbmodels.QuestionKindFollowUp).
		Where("parent_question_id = ?", parentQuestionID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) InsertAfterParent(sessionID string, parentOrder int, rec dbmodels.InterviewQuestion) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(dbmodels.InterviewQuestion{}).
			Where("session_id = ?", sessionID).
			Where("order_num > ?", parentOrder).
			Update("order_num", gorm.Expr("order_num + ?", 1)).
			Error
		if err != nil {
			return errors.Wrap(err, "ошибка сдвига вопросов")
		}
		rec.SessionID = sessionID
		rec.Order = parentOrder + 1
		if err := tx.Create(&rec).Error; err != nil {
			return errors.Wrap(err, "ошибка вставки уточняющего вопроса")
		}
		return nil
	})
}
