package geminiclient

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
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(baseURL, apiKey, model string) ai.Client {
	// list_models возвращает имена вида "models/gemini-2.0-flash",
	// generateContent ждёт короткое имя
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
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
	return "gemini"
}

type generateRequest struct {
	SystemInstruction *content               `json:"system_instruction,omitempty"`
	Contents          []content              `json:"contents"`
	GenerationConfig  map[string]interface{} `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

func (i *impl) Generate(ctx context.Context, sysPromt, userPromt string, temperature float64) (string, error) {
	if i.apiKey == "" {
		return "", errors.New("не задан GEMINI_API_KEY")
	}

	text, err := i.call(ctx, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: sysPromt}}},
		Contents:          []content{{Parts: []part{{Text: userPromt}}}},
		GenerationConfig: map[string]interface{}{
			"temperature":      temperature,
			"responseMimeType": "application/json",
		},
	})
	if err == nil {
		return text, nil
	}
	log.WithError(err).Warn("Gemini не принял JSON mime, повторяем в текстовом режиме")

	return i.call(ctx, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: sysPromt}}},
		Contents:          []content{{Parts: []part{{Text: userPromt + ai.JSONOnlyInstruction}}}},
		GenerationConfig: map[string]interface{}{
			"temperature": temperature,
		},
	})
}

func (i *impl) call(ctx context.Context, reqBody generateRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", i.baseURL, i.model, i.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса к Gemini API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("ошибка Gemini API: статус %d, тело %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "неожиданный ответ Gemini API")
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("пустой ответ Gemini API")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
