package ai

import (
	"context"
	"strings"

	"ai-interview-backend/models"
	dbmodels "ai-interview-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Generator — генерация разобранного JSON-объекта с обходом провайдеров по порядку.
// Первый успешный ответ останавливает цепочку, при отказе всех возвращается
// models.ErrAllProvidersExhausted с текстом последней ошибки.
type Generator interface {
	GenerateJSON(ctx context.Context, reqType dbmodels.AiReqestType, sessionID, sysPromt, userPromt string, temperature float64) (map[string]interface{}, error)
}

// AuditLogger — журнал обращений к ИИ, ошибки журнала не влияют на результат
type AuditLogger interface {
	Log(rec dbmodels.AiLog)
}

func NewGenerator(preferred string, order []string, clients []Client, audit AuditLogger) Generator {
	byName := map[string]Client{}
	for _, c := range clients {
		byName[c.Name()] = c
	}
	resolved := []Client{}
	for _, name := range ResolveOrder(preferred, order) {
		c, ok := byName[name]
		if !ok {
			log.WithField("provider", name).Warn("AI-провайдер из конфигурации не подключен, пропускаем")
			continue
		}
		resolved = append(resolved, c)
	}
	return &generator{clients: resolved, audit: audit}
}

// ResolveOrder — итоговый порядок обхода: preferred переносится в начало списка,
// если его там нет — добавляется в начало, остальные провайдеры сохраняются
func ResolveOrder(preferred string, order []string) []string {
	preferred = strings.ToLower(strings.TrimSpace(preferred))
	if preferred == "" {
		return order
	}
	resolved := []string{preferred}
	for _, p := range order {
		if p != preferred {
			resolved = append(resolved, p)
		}
	}
	return resolved
}

type generator struct {
	clients []Client
	audit   AuditLogger
}

func (g *generator) GenerateJSON(ctx context.Context, reqType dbmodels.AiReqestType, sessionID, sysPromt, userPromt string, temperature float64) (map[string]interface{}, error) {
	if len(g.clients) == 0 {
		return nil, errors.Wrap(models.ErrAllProvidersExhausted, "нет ни одного подключенного провайдера")
	}
	var lastErr error
	for _, client := range g.clients {
		logger := log.
			WithField("provider", client.Name()).
			WithField("session_id", sessionID).
			WithField("request_type", string(reqType))

		raw, err := client.Generate(ctx, sysPromt, userPromt, temperature)
		if err != nil {
			lastErr = err
			logger.WithError(err).Warn("AI-провайдер вернул ошибку, пробуем следующий")
			continue
		}
		obj, err := ExtractJSONObject(raw)
		if err != nil {
			lastErr = err
			logger.WithError(err).Warn("ответ AI-провайдера не разобран как JSON, пробуем следующий")
			continue
		}
		if g.audit != nil {
			g.audit.Log(dbmodels.AiLog{
				SessionID:  sessionID,
				SysPromt:   sysPromt,
				UserPromt:  userPromt,
				Answer:     raw,
				AiName:     client.Name(),
				ReqestType: reqType,
			})
		}
		return obj, nil
	}
	return nil, errors.Wrap(models.ErrAllProvidersExhausted, lastErr.Error())
}
