package dbmodels

type QuestionKind string

const (
	QuestionKindBase     QuestionKind = "base"     // исходный вопрос, сгенерированный на setup-ai
	QuestionKindFollowUp QuestionKind = "followup" // уточняющий вопрос, вставленный после базового
)

type QuestionCreator string

const (
	QuestionByAI   QuestionCreator = "ai"
	QuestionByUser QuestionCreator = "user"
)

// InterviewQuestion — один вопрос сессии.
// Инварианты: order_num в рамках сессии — плотная последовательность 1..N без дыр;
// на один базовый вопрос допускается не более одного followup;
// followup не может быть родителем другого followup (depth <= 1).
type InterviewQuestion struct {
	BaseModel
	SessionID        string          `gorm:"type:varchar(36);index"`
	Order            int             `gorm:"column:order_num" comment:"Порядковый номер в сессии, 1-based"`
	QuestionText     string          `comment:"Текст вопроса"`
	Kind             QuestionKind    `gorm:"type:varchar(20);default:base"`
	ParentQuestionID string          `gorm:"type:varchar(36);index" comment:"Родительский вопрос, только для followup"`
	Depth            int             `comment:"0 для базового, 1 для followup"`
	CreatedBy        QuestionCreator `gorm:"type:varchar(10);default:ai"`
}

func (InterviewQuestion) TableName() string {
	return "interview_questions"
}
