package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Provider — распознавание речи через whisper-совместимый HTTP сервис
type Provider interface {
	Transcribe(ctx context.Context, audioPath string) (transcript string, err error)
}

func NewClient(endpoint, model string) Provider {
	return &impl{
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type impl struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (i impl) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioFile, err := os.Open(audioPath)
	if err != nil {
		return "", errors.Wrap(err, "ошибка открытия аудиофайла")
	}
	defer audioFile.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", errors.Wrap(err, "ошибка формирования multipart запроса")
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return "", errors.Wrap(err, "ошибка копирования аудио в запрос")
	}
	if err := writer.WriteField("model", i.model); err != nil {
		return "", errors.Wrap(err, "ошибка формирования multipart запроса")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "ошибка формирования multipart запроса")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, &body)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания запроса транскрибации")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса к сервису транскрибации")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "ошибка чтения ответа сервиса транскрибации")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("сервис транскрибации вернул статус %d: %s", resp.StatusCode, string(respBody))
	}

	result := transcriptionResponse{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errors.Wrap(err, "ошибка разбора ответа сервиса транскрибации")
	}
	if result.Error != nil {
		return "", errors.Errorf("ошибка транскрибации: %s", result.Error.Message)
	}
	return strings.TrimSpace(result.Text), nil
}
