package answerstore

import (
	"time"

	"ai-interview-backend/models"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.InterviewAnswer) (id string, err error)
	GetBySessionQuestion(sessionID, questionID string) (*dbmodels.InterviewAnswer, error)
	ListBySession(sessionID string) ([]dbmodels.InterviewAnswer, error)
	// MarkProcessing — мягкая блокировка: completed/failed не регрессируют
	MarkProcessing(sessionID, questionID string) error
	// SaveAnalysis сохраняет транскрипт и оценку, статус остаётся processing:
	// читатели не должны считать такой ответ финальным
	SaveAnalysis(sessionID, questionID, transcript, emotion, confidence string, score dbmodels.AnswerScore, feedback string) error
	MarkCompleted(sessionID, questionID string) error
	MarkFailed(sessionID, questionID, errText string) error
	// DeleteUploaded — откат ответа, не попавшего в очередь обработки;
	// удаляется только запись в статусе uploaded
	DeleteUploaded(sessionID, questionID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.InterviewAnswer) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetBySessionQuestion(sessionID, questionID string) (*dbmodels.InterviewAnswer, error) {
	rec := dbmodels.InterviewAnswer{}
	err := i.db.
		Where("session_id = ?", sessionID).
		Where("question_id = ?", questionID).
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

func (i impl) ListBySession(sessionID string) ([]dbmodels.InterviewAnswer, error) {
	list := []dbmodels.InterviewAnswer{}
	err := i.db.
		Model(dbmodels.InterviewAnswer{}).
		Where("session_id = ?", sessionID).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkProcessing(sessionID, questionID string) error {
	tx := i.db.
		Model(dbmodels.InterviewAnswer{}).
		Where("session_id = ?", sessionID).
		Where("question_id = ?", questionID).
		Where("status NOT IN ?", []dbmodels.AnswerStatus{dbmodels.AnswerCompleted, dbmodels.AnswerFailed}).
		Updates(map[string]interface{}{
			"status":                dbmodels.AnswerProcessing,
			"processing_started_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrPreconditionFailed, "ответ уже в терминальном статусе")
	}
	return nil
}

func (i impl) SaveAnalysis(sessionID, questionID, transcript, emotion, confidence string, score dbmodels.AnswerScore, feedback string) error {
	return i.db.
		Model(dbmodels.InterviewAnswer{}).
		Where("session_id = ?", sessionID).
		Where("question_id = ?", questionID).
		Updates(map[string]interface{}{
			"transcript":   transcript,
			"emotion":      emotion,
			"confidence":   confidence,
			"score":        score,
			"feedback":     feedback,
			"processed_at": time.Now(),
		}).
		Error
}

func (i impl) MarkCompleted(sessionID, questionID string) error {
	tx := i.db.
		Model(dbmodels.InterviewAnswer{}).
		Where("session_id = ?", sessionID).
		Where("question_id = ?", questionID).
		Where("status = ?", dbmodels.AnswerProcessing).
		Updates(map[string]interface{}{
			"status":       dbmodels.AnswerCompleted,
			"completed_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrPreconditionFailed, "ответ не в статусе processing")
	}
	return nil
}

func (i impl) DeleteUploaded(sessionID, questionID string) error {
	return i.db.
		Where("session_id = ?", sessionID).
		Where("question_id = ?", questionID).
		Where("status = ?", dbmodels.AnswerUploaded).
		Delete(&dbmodels.InterviewAnswer{}).
		Error
}

func (i impl) MarkFailed(sessionID, questionID, errText string) error {
	return i.db.
		Model(dbmodels.InterviewAnswer{}).
		Where("session_id = ?", sessionID).
		Where("question_id = ?", questionID).
		Where("status NOT IN ?", []dbmodels.AnswerStatus{dbmodels.AnswerCompleted, dbmodels.AnswerFailed}).
		Updates(map[string]interface{}{
			"status": dbmodels.AnswerFailed,
			"error":  errText,
		}).
		Error
}
