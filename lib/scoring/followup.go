package scoring

import (
	"context"
	"fmt"
	"strings"

	"ai-interview-backend/lib/ai"
	dbmodels "ai-interview-backend/models/db"
)

// FollowUpDecision — решение модели об уточняющем вопросе.
// При негативном решении Question гарантированно пустой,
// что бы провайдер ни вернул в follow_up_question.
type FollowUpDecision struct {
	ShouldFollowUp bool
	Question       string
	Reason         string
}

type FollowUpInput struct {
	SessionID        string
	OriginalQuestion string
	Transcript       string
	Score            dbmodels.AnswerScore
	Feedback         string
	JobDescription   string
	Gaps             []string
}

// Decider — генерация не более одного уточняющего вопроса
type Decider interface {
	Decide(ctx context.Context, in FollowUpInput) (FollowUpDecision, error)
}

func NewDecider(generator ai.Generator) Decider {
	return &deciderImpl{
		generator: generator,
	}
}

type deciderImpl struct {
	generator ai.Generator
}

const followUpSysPromt = "You are a JSON-only API. Do not return markdown."

const followUpPromtTemplate = `
You are an interviewer. Decide if a single follow-up question is needed based on the candidate's answer.

RULES:
- Ask at most ONE follow-up question.
- The follow-up MUST be a SINGLE question (no multi-part, no "and also", no numbered lists).
- Ask a follow-up ONLY if the answer is vague, missing key details, has low confidence/accuracy, or lacks evidence/metrics/examples.
- If the answer is complete, set should_follow_up=false and follow_up_question="".
- Do NOT ask anything personal/sensitive. Keep it job-related.

JOB DESCRIPTION (optional):
%s

ROLE GAPS (optional):
%s

ORIGINAL QUESTION:
%s

CANDIDATE TRANSCRIPT:
%s

RUBRIC SCORE (0-100):
accuracy=%d communication=%d behavior=%d

FEEDBACK (optional):
%s

Return STRICT JSON ONLY:
{
  "should_follow_up": true,
  "follow_up_question": "string",
  "reason": "string"
}
`

func (d deciderImpl) Decide(ctx context.Context, in FollowUpInput) (FollowUpDecision, error) {
	userPromt := fmt.Sprintf(followUpPromtTemplate,
		truncate(in.JobDescription, 800),
		strings.Join(in.Gaps, "; "),
		in.OriginalQuestion,
		truncate(in.Transcript, 2000),
		in.Score.Accuracy, in.Score.Communication, in.Score.Behavior,
		truncate(in.Feedback, 600),
	)

	result, err := d.generator.GenerateJSON(ctx, dbmodels.AiFollowUpType, in.SessionID, followUpSysPromt, userPromt, 0.2)
	if err != nil {
		return FollowUpDecision{}, err
	}

	shouldRaw, ok := result["should_follow_up"]
	if !ok {
		return FollowUpDecision{}, fmt.Errorf("некорректный ответ модели: отсутствует should_follow_up")
	}
	should, ok := shouldRaw.(bool)
	if !ok {
		return FollowUpDecision{}, fmt.Errorf("некорректный ответ модели: should_follow_up не bool")
	}

	decision := FollowUpDecision{ShouldFollowUp: should}
	// follow_up_question и reason допускают отсутствие
	if q, ok := result["follow_up_question"].(string); ok {
		decision.Question = strings.TrimSpace(q)
	}
	if r, ok := result["reason"].(string); ok {
		decision.Reason = r
	}
	if !decision.ShouldFollowUp {
		decision.Question = ""
	}
	return decision, nil
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
