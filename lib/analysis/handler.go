package analysis

import (
	"context"
	"fmt"

	"ai-interview-backend/lib/ai"
	interviewapimodels "ai-interview-backend/models/api/interview"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider — анализ резюме против вакансии с генерацией вопросов интервью
type Provider interface {
	AnalyzeResumeAndJD(ctx context.Context, sessionID, resumeText, jdText string) (interviewapimodels.AIContext, error)
}

func NewHandler(generator ai.Generator) Provider {
	return &impl{
		generator: generator,
	}
}

type impl struct {
	generator ai.Generator
}

const analyzeSysPromt = "You are a JSON-only API. Do not return markdown."

const analyzePromtTemplate = `
Analyze this candidate for the given job description.

RESUME:
%s

JOB DESCRIPTION:
%s

Return STRICT JSON ONLY in this format:
{
  "match_score": 0-100,
  "strengths": ["3 matched strengths"],
  "gaps": ["2 weak areas"],
  "questions": [
    "Intro question",
    "Technical strength question",
    "Technical strength question",
    "Gap probing question",
    "Behavioral question"
  ]
}
`

func (i impl) AnalyzeResumeAndJD(ctx context.Context, sessionID, resumeText, jdText string) (interviewapimodels.AIContext, error) {
	userPromt := fmt.Sprintf(analyzePromtTemplate, truncate(resumeText, 3000), truncate(jdText, 1500))

	result, err := i.generator.GenerateJSON(ctx, dbmodels.AiResumeAnalysisType, sessionID, analyzeSysPromt, userPromt, 0.2)
	if err != nil {
		return interviewapimodels.AIContext{}, err
	}

	out := interviewapimodels.AIContext{}
	score, ok := result["match_score"].(float64)
	if !ok {
		return out, errors.New("некорректный ответ модели: отсутствует match_score")
	}
	out.MatchScore = int(score)

	out.Strengths, err = requireStrings(result, "strengths")
	if err != nil {
		return interviewapimodels.AIContext{}, err
	}
	out.Gaps, err = requireStrings(result, "gaps")
	if err != nil {
		return interviewapimodels.AIContext{}, err
	}
	out.Questions, err = requireStrings(result, "questions")
	if err != nil {
		return interviewapimodels.AIContext{}, err
	}
	if len(out.Questions) == 0 {
		return interviewapimodels.AIContext{}, errors.New("некорректный ответ модели: пустой список вопросов")
	}

	log.
		WithField("session_id", sessionID).
		WithField("match_score", out.MatchScore).
		WithField("questions", len(out.Questions)).
		Info("анализ резюме завершён")
	return out, nil
}

func requireStrings(result map[string]interface{}, key string) ([]string, error) {
	raw, ok := result[key].([]interface{})
	if !ok {
		return nil, errors.Errorf("некорректный ответ модели: отсутствует %s", key)
	}
	list := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, errors.Errorf("некорректный ответ модели: %s содержит не строку", key)
		}
		list = append(list, s)
	}
	return list, nil
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
