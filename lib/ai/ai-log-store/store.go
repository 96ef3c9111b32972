package ailogstore

import (
	dbmodels "ai-interview-backend/models/db"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Log(rec dbmodels.AiLog)
	GetBySessionID(sessionID string) ([]dbmodels.AiLog, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Log пишет запись журнала, ошибка не прерывает вызвавшую операцию
func (i impl) Log(rec dbmodels.AiLog) {
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		log.WithError(err).
			WithField("session_id", rec.SessionID).
			Error("ошибка сохранения журнала обращения к ИИ")
	}
}

func (i impl) GetBySessionID(sessionID string) ([]dbmodels.AiLog, error) {
	list := []dbmodels.AiLog{}
	err := i.db.
		Model(dbmodels.AiLog{}).
		Where("session_id = ?", sessionID).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
