package models

import "github.com/pkg/errors"

// Общая таксономия ошибок ядра.
// ErrValidation/ErrPreconditionFailed возвращаются вызывающему без изменения состояния.
var (
	ErrNotFound              = errors.New("запись не найдена")
	ErrValidation            = errors.New("некорректные данные запроса")
	ErrPreconditionFailed    = errors.New("операция недопустима в текущем состоянии")
	ErrAllProvidersExhausted = errors.New("все AI-провайдеры вернули ошибку")
	ErrRunInFlight           = errors.New("обработка ответа уже запущена")
)

func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
