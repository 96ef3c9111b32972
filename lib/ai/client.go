package ai

import "context"

// Client — один внешний LLM-провайдер.
// Generate возвращает сырой текст ответа модели; от провайдера ожидается JSON,
// но разбор и повторные попытки на других провайдерах — забота генератора.
type Client interface {
	Name() string
	Generate(ctx context.Context, sysPromt, userPromt string, temperature float64) (string, error)
}

// JSONOnlyInstruction дописывается к user-промту, когда провайдер
// не принял строгий JSON-режим и вызов повторяется в текстовом режиме
const JSONOnlyInstruction = "\n\nReturn STRICT JSON only. No markdown. No extra text."
