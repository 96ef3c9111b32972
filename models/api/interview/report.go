package interviewapimodels

type ReportStatus string

const (
	ReportCompleted  ReportStatus = "completed"  // отчёт готов
	ReportProcessing ReportStatus = "processing" // есть ответ без оценки, отчёт ещё не готов
	ReportIncomplete ReportStatus = "incomplete" // в сессии нет вопросов
)

type Decision string

const (
	DecisionHire       Decision = "HIRE"
	DecisionBorderline Decision = "BORDERLINE"
	DecisionReject     Decision = "REJECT"
)

type ReportScores struct {
	Technical     float64 `json:"technical"`
	Communication float64 `json:"communication"`
	Behavior      float64 `json:"behavior"`
}

type QuestionFeedback struct {
	QuestionID    string `json:"question_id"`
	QuestionText  string `json:"question_text"`
	Order         int    `json:"order"`
	Accuracy      int    `json:"accuracy"`
	Communication int    `json:"communication"`
	Behavior      int    `json:"behavior"`
	Feedback      string `json:"feedback"`
}

type Report struct {
	Status    ReportStatus       `json:"status"`
	Message   string             `json:"message,omitempty"`
	Decision  Decision           `json:"decision,omitempty"`
	Scores    *ReportScores      `json:"scores,omitempty"`
	Strengths []string           `json:"strengths,omitempty"`
	Gaps      []string           `json:"gaps,omitempty"`
	Questions []QuestionFeedback `json:"questions,omitempty"`
	Summary   string             `json:"summary,omitempty"`
}
