package interviewapimodels

// NextQuestionView — ответ на next-question, когда вопросы ещё не исчерпаны
type NextQuestionView struct {
	QuestionNumber int    `json:"question_number"`
	QuestionID     string `json:"question_id"`
	QuestionText   string `json:"question_text"`
	Kind           string `json:"kind"`
	Voice          string `json:"voice"`
}

// InterviewFinished — ответ на next-question при исчерпании вопросов
type InterviewFinished struct {
	Finished bool `json:"finished"`
}

// AnswerStatusView — статус обработки ответа для поллинга фронтом
type AnswerStatusView struct {
	Status        string `json:"status"`
	HasTranscript bool   `json:"has_transcript"`
	HasScore      bool   `json:"has_score"`
	HasFeedback   bool   `json:"has_feedback"`
	Error         string `json:"error,omitempty"`
}
