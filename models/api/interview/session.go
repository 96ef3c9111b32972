package interviewapimodels

import (
	"strings"
	"time"

	"ai-interview-backend/models"

	"github.com/pkg/errors"
)

type CreateSessionRequest struct {
	JobDescription string `json:"job_description"`
}

func (r CreateSessionRequest) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" {
		return errors.Wrap(models.ErrValidation, "не заполнено описание вакансии")
	}
	return nil
}

type SessionView struct {
	ID                   string     `json:"id"`
	Status               string     `json:"status"`
	JobDescription       string     `json:"job_description,omitempty"`
	ResumeName           string     `json:"resume_name,omitempty"`
	MatchScore           *int       `json:"match_score,omitempty"`
	Strengths            []string   `json:"strengths,omitempty"`
	Gaps                 []string   `json:"gaps,omitempty"`
	Voice                string     `json:"voice,omitempty"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	CreatedAt            time.Time  `json:"created_at"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// AIContext — результат анализа резюме против вакансии
type AIContext struct {
	MatchScore int      `json:"match_score"`
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
	Questions  []string `json:"questions"`
}

var allowedVoices = map[string]bool{"male": true, "female": true}

func IsValidVoice(voice string) bool {
	return allowedVoices[voice]
}
