package resumeparser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"ai-interview-backend/models"

	"github.com/pkg/errors"
)

// Parse извлекает текст резюме из загруженного файла.
// Поддерживается только текстовое содержимое (txt/md), бинарные форматы отклоняются
func Parse(fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.Wrap(models.ErrValidation, "файл резюме пуст")
	}
	if bytes.ContainsRune(data, 0) || !utf8.Valid(data) {
		return "", errors.Wrapf(models.ErrValidation, "файл %s не является текстовым", fileName)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.Wrap(models.ErrValidation, "файл резюме не содержит текста")
	}
	return text, nil
}
