package ai

import (
	"context"
	"testing"

	"ai-interview-backend/models"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	name   string
	answer string
	err    error
	calls  int
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) Generate(ctx context.Context, sysPromt, userPromt string, temperature float64) (string, error) {
	f.calls++
	return f.answer, f.err
}

type fakeAudit struct {
	records []dbmodels.AiLog
}

func (f *fakeAudit) Log(rec dbmodels.AiLog) {
	f.records = append(f.records, rec)
}

func TestResolveOrder(t *testing.T) {
	t.Run(`без предпочтения порядок не меняется`, func(t *testing.T) {
		order := ResolveOrder("", []string{"groq", "gemini", "azure"})
		require.Equal(t, []string{"groq", "gemini", "azure"}, order)
	})

	t.Run(`предпочтение из списка переносится в начало`, func(t *testing.T) {
		order := ResolveOrder("gemini", []string{"groq", "gemini", "azure"})
		require.Equal(t, []string{"gemini", "groq", "azure"}, order)
	})

	t.Run(`предпочтение вне списка добавляется в начало`, func(t *testing.T) {
		order := ResolveOrder("yandexgpt", []string{"groq", "gemini", "azure"})
		require.Equal(t, []string{"yandexgpt", "groq", "gemini", "azure"}, order)
	})
}

func TestGenerateJSON(t *testing.T) {
	ctx := context.Background()

	t.Run(`первый успех останавливает цепочку`, func(t *testing.T) {
		a := &fakeClient{name: "groq", answer: `{"v": 1}`}
		b := &fakeClient{name: "gemini", answer: `{"v": 2}`}
		audit := &fakeAudit{}
		g := NewGenerator("", []string{"groq", "gemini"}, []Client{a, b}, audit)

		obj, err := g.GenerateJSON(ctx, dbmodels.AiScoreAnswerType, "s1", "sys", "user", 0.2)
		require.Nil(t, err)
		require.Equal(t, float64(1), obj["v"])
		require.Equal(t, 1, a.calls)
		require.Equal(t, 0, b.calls)
		require.Len(t, audit.records, 1)
		require.Equal(t, "groq", audit.records[0].AiName)
	})

	t.Run(`отказ первых провайдеров ведёт к следующему`, func(t *testing.T) {
		a := &fakeClient{name: "groq", err: errors.New("groq down")}
		b := &fakeClient{name: "gemini", answer: "not a json"}
		c := &fakeClient{name: "azure", answer: `{"v": 3}`}
		g := NewGenerator("", []string{"groq", "gemini", "azure"}, []Client{a, b, c}, nil)

		obj, err := g.GenerateJSON(ctx, dbmodels.AiScoreAnswerType, "s1", "sys", "user", 0.2)
		require.Nil(t, err)
		require.Equal(t, float64(3), obj["v"])
		require.Equal(t, 1, a.calls)
		require.Equal(t, 1, b.calls)
		require.Equal(t, 1, c.calls)
	})

	t.Run(`предпочтительный провайдер опрашивается первым`, func(t *testing.T) {
		a := &fakeClient{name: "groq", answer: `{"v": 1}`}
		b := &fakeClient{name: "gemini", answer: `{"v": 2}`}
		g := NewGenerator("gemini", []string{"groq", "gemini"}, []Client{a, b}, nil)

		obj, err := g.GenerateJSON(ctx, dbmodels.AiScoreAnswerType, "s1", "sys", "user", 0.2)
		require.Nil(t, err)
		require.Equal(t, float64(2), obj["v"])
		require.Equal(t, 0, a.calls)
	})

	t.Run(`отказ всех провайдеров`, func(t *testing.T) {
		a := &fakeClient{name: "groq", err: errors.New("groq down")}
		b := &fakeClient{name: "gemini", err: errors.New("gemini down")}
		g := NewGenerator("", []string{"groq", "gemini"}, []Client{a, b}, nil)

		_, err := g.GenerateJSON(ctx, dbmodels.AiScoreAnswerType, "s1", "sys", "user", 0.2)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrAllProvidersExhausted))
		// наружу уходит текст последней ошибки
		require.Contains(t, err.Error(), "gemini down")
	})

	t.Run(`нет подключенных провайдеров`, func(t *testing.T) {
		g := NewGenerator("", []string{"groq"}, nil, nil)
		_, err := g.GenerateJSON(ctx, dbmodels.AiScoreAnswerType, "s1", "sys", "user", 0.2)
		require.NotNil(t, err)
		require.True(t, errors.Is(err, models.ErrAllProvidersExhausted))
	})
}
