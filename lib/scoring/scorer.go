package scoring

import (
	"context"
	"fmt"

	"ai-interview-backend/lib/ai"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider — оценка ответа кандидата по рубрике через генератор JSON
type Provider interface {
	ScoreAnswer(ctx context.Context, sessionID, question, transcript, emotion, confidence string) (score dbmodels.AnswerScore, feedback string, err error)
}

func NewHandler(generator ai.Generator) Provider {
	return &impl{
		generator: generator,
	}
}

type impl struct {
	generator ai.Generator
}

const scoreSysPromt = "Return STRICT JSON only."

const scorePromtTemplate = `
You are an expert technical interviewer.

QUESTION:
%s

CANDIDATE ANSWER:
%s

BEHAVIOR:
Emotion: %s
Confidence: %s

Score strictly (0-100) and return JSON ONLY:
{
  "accuracy": number,
  "communication": number,
  "behavior": number,
  "feedback": "one-line feedback"
}
`

func (i impl) ScoreAnswer(ctx context.Context, sessionID, question, transcript, emotion, confidence string) (dbmodels.AnswerScore, string, error) {
	userPromt := fmt.Sprintf(scorePromtTemplate, question, transcript, emotion, confidence)

	result, err := i.generator.GenerateJSON(ctx, dbmodels.AiScoreAnswerType, sessionID, scoreSysPromt, userPromt, 0.2)
	if err != nil {
		return dbmodels.AnswerScore{}, "", err
	}

	// Обязательные ключи не подставляются по умолчанию:
	// неполный ответ модели — жёсткая ошибка для пайплайна
	accuracy, err := requireScore(result, "accuracy")
	if err != nil {
		return dbmodels.AnswerScore{}, "", err
	}
	communication, err := requireScore(result, "communication")
	if err != nil {
		return dbmodels.AnswerScore{}, "", err
	}
	behavior, err := requireScore(result, "behavior")
	if err != nil {
		return dbmodels.AnswerScore{}, "", err
	}
	feedback, ok := result["feedback"].(string)
	if !ok {
		return dbmodels.AnswerScore{}, "", errors.New("некорректный ответ модели: отсутствует feedback")
	}

	log.WithField("session_id", sessionID).Info("оценка ответа получена")
	return dbmodels.AnswerScore{
		Accuracy:      accuracy,
		Communication: communication,
		Behavior:      behavior,
	}, feedback, nil
}

func requireScore(result map[string]interface{}, key string) (int, error) {
	raw, ok := result[key]
	if !ok {
		return 0, errors.Errorf("некорректный ответ модели: отсутствует %s", key)
	}
	num, ok := raw.(float64)
	if !ok {
		return 0, errors.Errorf("некорректный ответ модели: %s не число", key)
	}
	value := int(num)
	if value < 0 || value > 100 {
		return 0, errors.Errorf("некорректный ответ модели: %s вне диапазона 0-100", key)
	}
	return value, nil
}
