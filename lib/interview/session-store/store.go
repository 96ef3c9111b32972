package sessionstore

import (
	"time"

	"ai-interview-backend/models"
	dbmodels "ai-interview-backend/models/db"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.InterviewSession) (id string, err error)
	GetByID(id string) (*dbmodels.InterviewSession, error)
	GetByIDForUser(id, userID string) (*dbmodels.InterviewSession, error)
	SetResume(id, name, fileID, text string) error
	// SetupAIContext — условный переход created -> questions_generated,
	// AI-контекст записывается ровно один раз
	SetupAIContext(id string, matchScore int, strengths, gaps []string) error
	// Start — условный переход questions_generated -> in_progress
	Start(id, voice string) error
	// AdvanceQuestionIndex — compare-and-swap курсора под охраной статуса in_progress;
	// из двух конкурентных вызовов с одним fromIndex успешен ровно один
	AdvanceQuestionIndex(id string, fromIndex int) error
	// Complete — условный переход in_progress -> completed
	Complete(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.InterviewSession) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.InterviewSession, error) {
	rec := dbmodels.InterviewSession{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) GetByIDForUser(id, userID string) (*dbmodels.InterviewSession, error) {
	rec := dbmodels.InterviewSession{}
	err := i.db.
		Where("id = ?", id).
		Where("user_id = ?", userID).
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

func (i impl) SetResume(id, name, fileID, text string) error {
	tx := i.db.
		Model(dbmodels.InterviewSession{}).
		Where("id = ?", id).
		Where("status = ?", dbmodels.SessionCreated).
		Updates(map[string]interface{}{
			"resume_name":    name,
			"resume_file_id": fileID,
			"resume_text":    text,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrPreconditionFailed, "резюме можно загрузить только до генерации вопросов")
	}
	return nil
}

func (i impl) SetupAIContext(id string, matchScore int, strengths, gaps []string) error {
	tx := i.db.
		Model(dbmodels.InterviewSession{}).
		Where("id = ?", id).
		Where("status = ?", dbmodels.SessionCreated).
		Where("match_score IS NULL").
		Updates(map[string]interface{}{
			"match_score": matchScore,
			"strengths":   pq.StringArray(strengths),
			"gaps":        pq.StringArray(gaps),
			"status":      dbmodels.SessionQuestionsGenerated,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrPreconditionFailed, "AI-контекст уже сформирован или сессия не в статусе created")
	}
	return nil
}

func (i impl) Start(id, voice string) error {
	tx := i.db.
		Model(dbmodels.InterviewSession{}).
		Where("id = ?", id).
		Where("status = ?", dbmodels.SessionQuestionsGenerated).
		Updates(map[string]interface{}{
			"voice":                  voice,
			"current_question_index": 0,
			"status":                 dbmodels.SessionInProgress,
			"started_at":             time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrPreconditionFailed, "интервью не готово к старту")
	}
	return nil
}

func (i impl) AdvanceQuestionIndex(id string, fromIndex int) error {
	tx := i.db.
		Model(dbmodels.InterviewSession{}).
		Where("id = ?", id).
		Where("status = ?", dbmodels.SessionInProgress).
		Where("current_question_index = ?", fromIndex).
		Update("current_question_index", gorm.Expr("current_question_index + ?", 1))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrPreconditionFailed, "курсор уже сдвинут или интервью не в статусе in_progress")
	}
	return nil
}

func (i impl) Complete(id string) error {
	tx := i.db.
		Model(dbmodels.InterviewSession{}).
		Where("id = ?", id).
		Where("status = ?", dbmodels.SessionInProgress).
		Updates(map[string]interface{}{
			"status":       dbmodels.SessionCompleted,
			"completed_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.Wrap(models.ErrPreconditionFailed, "интервью не в статусе in_progress")
	}
	return nil
}
