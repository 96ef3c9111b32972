package groqclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-interview-backend/lib/ai"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Groq Cloud — OpenAI-совместимый API (base_url https://api.groq.com/openai/v1)

type impl struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(baseURL, apiKey, model string) ai.Client {
	return &impl{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (i *impl) Name() string {
	return "groq"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string                 `json:"model"`
	Messages       []chatMessage          `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (i *impl) Generate(ctx context.Context, sysPromt, userPromt string, temperature float64) (string, error) {
	if i.apiKey == "" {
		return "", errors.New("не задан GROQ_API_KEY")
	}

	// Сначала строгий JSON-режим; если модель его не приняла —
	// один повтор в текстовом режиме с явной инструкцией
	text, err := i.call(ctx, chatRequest{
		Model: i.model,
		Messages: []chatMessage{
			{Role: "system", Content: sysPromt},
			{Role: "user", Content: userPromt},
		},
		Temperature:    temperature,
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err == nil {
		return text, nil
	}
	log.WithError(err).Warn("Groq не принял response_format, повторяем в текстовом режиме")

	return i.call(ctx, chatRequest{
		Model: i.model,
		Messages: []chatMessage{
			{Role: "system", Content: sysPromt},
			{Role: "user", Content: userPromt + ai.JSONOnlyInstruction},
		},
		Temperature: temperature,
	})
}

func (i *impl) call(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+i.apiKey)

	resp, err := i.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса к Groq API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrapf(err, "неожиданный ответ Groq API: %s", string(body))
	}
	if parsed.Error != nil {
		return "", errors.Errorf("ошибка Groq API: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ошибка Groq API: статус %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("пустой ответ Groq API")
	}
	return parsed.Choices[0].Message.Content, nil
}
