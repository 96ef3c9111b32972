package dbmodels

type AiLog struct {
	BaseModel
	SessionID  string       `gorm:"type:varchar(36);index" comment:"Идентификатор сессии интервью"`
	SysPromt   string       `comment:"System промт"`
	UserPromt  string       `comment:"User промт"`
	Answer     string       `comment:"Ответ ИИ"`
	AiName     string       `gorm:"type:varchar(50)" comment:"Имя провайдера, давшего ответ"`
	ReqestType AiReqestType `gorm:"type:varchar(255)" comment:"Тип запроса к ИИ"`
}

type AiReqestType string

const (
	AiResumeAnalysisType AiReqestType = "ResumeAnalysis"
	AiScoreAnswerType    AiReqestType = "ScoreAnswer"
	AiFollowUpType       AiReqestType = "FollowUp"
)
