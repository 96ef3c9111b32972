package emotion

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
	log "github.com/sirupsen/logrus"

	"ai-interview-backend/lib/utils/helpers"
)

const (
	DefaultEmotion = "neutral"

	ConfidenceLow  = "low"
	ConfidenceHigh = "high"
)

// Provider — агрегированная эмоция по кадрам видеоответа
type Provider interface {
	// AnalyzeFrames классифицирует каждый кадр и возвращает моду.
	// Ошибки отдельных кадров не фатальны, при отсутствии результатов — neutral/low
	AnalyzeFrames(ctx context.Context, framePaths []string) (emotion, confidence string, err error)
}

func NewClient(endpoint string) Provider {
	return &impl{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type impl struct {
	endpoint   string
	httpClient *http.Client
}

type frameResponse struct {
	DominantEmotion string `json:"dominant_emotion"`
}

func (i impl) AnalyzeFrames(ctx context.Context, framePaths []string) (string, string, error) {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	analyzed := 0
	for n, framePath := range framePaths {
		if helpers.IsContextDone(ctx) {
			return "", "", ctx.Err()
		}
		label, err := i.classifyFrame(ctx, framePath)
		if err != nil {
			log.WithError(err).
				WithField("frame", filepath.Base(framePath)).
				Warn("кадр пропущен при анализе эмоций")
			continue
		}
		if label == "" {
			continue
		}
		if _, ok := counts[label]; !ok {
			firstSeen[label] = n
		}
		counts[label]++
		analyzed++
	}

	if analyzed == 0 {
		return DefaultEmotion, ConfidenceLow, nil
	}

	// мода; при равенстве побеждает раньше встреченная эмоция
	dominant := ""
	for label, count := range counts {
		if dominant == "" ||
			count > counts[dominant] ||
			(count == counts[dominant] && firstSeen[label] < firstSeen[dominant]) {
			dominant = label
		}
	}

	confidence := ConfidenceLow
	if dominant == "happy" || dominant == "neutral" {
		confidence = ConfidenceHigh
	}
	return dominant, confidence, nil
}

func (i impl) classifyFrame(ctx context.Context, framePath string) (string, error) {
	frameFile, err := os.Open(framePath)
	if err != nil {
		return "", errors.Wrap(err, "ошибка открытия кадра")
	}
	defer frameFile.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(framePath))
	if err != nil {
		return "", errors.Wrap(err, "ошибка формирования multipart запроса")
	}
	if _, err := io.Copy(part, frameFile); err != nil {
		return "", errors.Wrap(err, "ошибка копирования кадра в запрос")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "ошибка формирования multipart запроса")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, &body)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания запроса классификации")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса к сервису эмоций")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "ошибка чтения ответа сервиса эмоций")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("сервис эмоций вернул статус %d: %s", resp.StatusCode, string(respBody))
	}

	result := frameResponse{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errors.Wrap(err, "ошибка разбора ответа сервиса эмоций")
	}
	return strings.ToLower(strings.TrimSpace(result.DominantEmotion)), nil
}
