package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type AnswerStatus string

const (
	AnswerUploaded   AnswerStatus = "uploaded"   // видео загружено, обработка ещё не начата
	AnswerProcessing AnswerStatus = "processing" // фоновая обработка идёт, данные не финальные
	AnswerCompleted  AnswerStatus = "completed"  // обработка завершена
	AnswerFailed     AnswerStatus = "failed"     // обработка прервана ошибкой
	AnswerSkipped    AnswerStatus = "skipped"    // вопрос пропущен кандидатом
)

// IsTerminal — из completed/failed статус не регрессирует
func (s AnswerStatus) IsTerminal() bool {
	return s == AnswerCompleted || s == AnswerFailed
}

type AnswerScore struct {
	Accuracy      int `json:"accuracy"`
	Communication int `json:"communication"`
	Behavior      int `json:"behavior"`
}

func (j AnswerScore) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *AnswerScore) Scan(value interface{}) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

type InterviewAnswer struct {
	BaseModel
	SessionID  string `gorm:"type:varchar(36);index;uniqueIndex:idx_session_question"`
	QuestionID string `gorm:"type:varchar(36);uniqueIndex:idx_session_question"`

	VideoFileID string `gorm:"type:varchar(255)" comment:"Идентификатор видео в S3"`
	UploadID    string `gorm:"type:varchar(36)" comment:"Идентификатор загрузки, ключ идемпотентности"`

	Status AnswerStatus `gorm:"type:varchar(20);index"`

	Transcript string       `comment:"Транскрипт ответа"`
	Emotion    string       `gorm:"type:varchar(30)" comment:"Доминирующая эмоция"`
	Confidence string       `gorm:"type:varchar(10)" comment:"Уверенность high/low"`
	Score      *AnswerScore `gorm:"type:jsonb" comment:"Оценка по рубрике"`
	Feedback   string       `comment:"Краткий комментарий по ответу"`
	Error      string       `comment:"Текст ошибки обработки"`

	ProcessingStartedAt *time.Time
	ProcessedAt         *time.Time
	CompletedAt         *time.Time
}

func (InterviewAnswer) TableName() string {
	return "interview_answers"
}
