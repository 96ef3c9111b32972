package db

import (
	dbmodels "ai-interview-backend/models/db"

	"gorm.io/gorm"
)

func autoMigrate(db *gorm.DB) error {
	// для uuid_generate_v4 в значениях по умолчанию
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&dbmodels.InterviewSession{},
		&dbmodels.InterviewQuestion{},
		&dbmodels.InterviewAnswer{},
		&dbmodels.AiLog{},
	)
}
