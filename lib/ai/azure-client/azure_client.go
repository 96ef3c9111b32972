package azureclient

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

type impl struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	client     *http.Client
}

func NewClient(endpoint, apiKey, deployment, apiVersion string) ai.Client {
	return &impl{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		apiKey:     apiKey,
		deployment: deployment,
		apiVersion: apiVersion,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (i *impl) Name() string {
	return "azure"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages       []chatMessage          `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format,omitempty"`
}

func (i *impl) Generate(ctx context.Context, sysPromt, userPromt string, temperature float64) (string, error) {
	if i.endpoint == "" || i.apiKey == "" || i.deployment == "" {
		return "", errors.New("не заданы параметры Azure OpenAI")
	}

	text, err := i.call(ctx, chatRequest{
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
	log.WithError(err).Warn("Azure OpenAI не принял response_format, повторяем в текстовом режиме")

	return i.call(ctx, chatRequest{
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
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s", i.endpoint, i.deployment, i.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", i.apiKey)

	resp, err := i.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса к Azure OpenAI API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("ошибка Azure OpenAI API: статус %d, тело %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "неожиданный ответ Azure OpenAI API")
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("пустой ответ Azure OpenAI API")
	}
	return parsed.Choices[0].Message.Content, nil
}
