package dbmodels

import (
	"time"

	"github.com/lib/pq"
)

type SessionStatus string

const (
	SessionCreated            SessionStatus = "created"             // сессия создана, ждём резюме и setup-ai
	SessionQuestionsGenerated SessionStatus = "questions_generated" // вопросы сгенерированы, можно стартовать
	SessionInProgress         SessionStatus = "in_progress"         // интервью идёт
	SessionCompleted          SessionStatus = "completed"           // интервью завершено
)

type InterviewSession struct {
	BaseModel
	UserID string        `gorm:"type:varchar(36);index" comment:"Владелец сессии"`
	Status SessionStatus `gorm:"type:varchar(30);index"`

	// Резюме кандидата
	ResumeName   string `gorm:"type:varchar(255)" comment:"Оригинальное имя файла резюме"`
	ResumeFileID string `gorm:"type:varchar(255)" comment:"Идентификатор файла резюме в S3"`
	ResumeText   string `comment:"Извлечённый текст резюме"`

	JobDescription string `comment:"Текст описания вакансии"`

	// AI-контекст, заполняется один раз на setup-ai и далее неизменен
	MatchScore *int           `comment:"Соответствие кандидата вакансии 0-100"`
	Strengths  pq.StringArray `gorm:"type:text[]" comment:"Сильные стороны кандидата"`
	Gaps       pq.StringArray `gorm:"type:text[]" comment:"Пробелы кандидата"`

	Voice                string `gorm:"type:varchar(10)" comment:"Голос интервьюера male/female"`
	CurrentQuestionIndex int    `comment:"Курсор прогресса, 0-based"`

	StartedAt   *time.Time
	CompletedAt *time.Time
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// HasAIContext — AI-контекст уже сформирован, повторный setup-ai запрещён
func (s InterviewSession) HasAIContext() bool {
	return s.MatchScore != nil
}
