package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
)

// ExtractJSONObject разбирает ответ модели независимо от провайдера:
// сначала прямой разбор, затем срез markdown-ограждения, затем поиск
// первого похожего на объект {...} фрагмента.
func ExtractJSONObject(text string) (map[string]interface{}, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, errors.New("пустой ответ модели")
	}

	if obj, err := parseObject(raw); err == nil {
		return obj, nil
	}

	raw = strings.TrimSpace(fenceOpenRe.ReplaceAllString(raw, ""))
	raw = strings.TrimSpace(fenceCloseRe.ReplaceAllString(raw, ""))
	if obj, err := parseObject(raw); err == nil {
		return obj, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errors.Errorf("в ответе модели не найден JSON-объект: %s", snippet(raw))
	}
	obj, err := parseObject(raw[start : end+1])
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка разбора JSON-объекта из ответа модели: %s", snippet(raw))
	}
	return obj, nil
}

func parseObject(raw string) (map[string]interface{}, error) {
	obj := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func snippet(raw string) string {
	if len(raw) > 200 {
		return raw[:200]
	}
	return raw
}
