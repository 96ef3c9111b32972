package analysis

import (
	"context"
	"testing"

	dbmodels "ai-interview-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	result map[string]interface{}
	err    error

	lastReqType dbmodels.AiReqestType
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, reqType dbmodels.AiReqestType, sessionID, sysPromt, userPromt string, temperature float64) (map[string]interface{}, error) {
	f.lastReqType = reqType
	return f.result, f.err
}

func TestAnalyzeResumeAndJD(t *testing.T) {
	ctx := context.Background()

	t.Run(`корректный ответ модели`, func(t *testing.T) {
		gen := &fakeGenerator{result: map[string]interface{}{
			"match_score": float64(72),
			"strengths":   []interface{}{"go", "sql", "docker"},
			"gaps":        []interface{}{"k8s", "grpc"},
			"questions":   []interface{}{"q1", "q2", "q3", "q4", "q5"},
		}}
		out, err := NewHandler(gen).AnalyzeResumeAndJD(ctx, "s1", "resume", "jd")
		require.Nil(t, err)
		require.Equal(t, 72, out.MatchScore)
		require.Equal(t, []string{"go", "sql", "docker"}, out.Strengths)
		require.Equal(t, []string{"k8s", "grpc"}, out.Gaps)
		require.Len(t, out.Questions, 5)
		require.Equal(t, dbmodels.AiResumeAnalysisType, gen.lastReqType)
	})

	t.Run(`отсутствие match_score — ошибка`, func(t *testing.T) {
		gen := &fakeGenerator{result: map[string]interface{}{
			"strengths": []interface{}{"go"},
			"gaps":      []interface{}{"k8s"},
			"questions": []interface{}{"q1"},
		}}
		_, err := NewHandler(gen).AnalyzeResumeAndJD(ctx, "s1", "resume", "jd")
		require.NotNil(t, err)
	})

	t.Run(`пустой список вопросов — ошибка`, func(t *testing.T) {
		gen := &fakeGenerator{result: map[string]interface{}{
			"match_score": float64(50),
			"strengths":   []interface{}{"go"},
			"gaps":        []interface{}{"k8s"},
			"questions":   []interface{}{},
		}}
		_, err := NewHandler(gen).AnalyzeResumeAndJD(ctx, "s1", "resume", "jd")
		require.NotNil(t, err)
	})

	t.Run(`не строка в списке — ошибка`, func(t *testing.T) {
		gen := &fakeGenerator{result: map[string]interface{}{
			"match_score": float64(50),
			"strengths":   []interface{}{"go", float64(1)},
			"gaps":        []interface{}{"k8s"},
			"questions":   []interface{}{"q1"},
		}}
		_, err := NewHandler(gen).AnalyzeResumeAndJD(ctx, "s1", "resume", "jd")
		require.NotNil(t, err)
	})
}
