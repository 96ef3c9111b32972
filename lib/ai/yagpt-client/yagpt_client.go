package yagptclient

import (
	"context"

	"ai-interview-backend/lib/ai"

	"github.com/pkg/errors"
	yandexgptclient "github.com/sheeiavellie/go-yandexgpt"
)

type impl struct {
	client    *yandexgptclient.YandexGPTClient
	catalogID string
}

func NewClient(token, catalog string) ai.Client {
	return &impl{
		client:    yandexgptclient.NewYandexGPTClientWithIAMToken(token),
		catalogID: catalog,
	}
}

func (i *impl) Name() string {
	return "yandexgpt"
}

func (i *impl) Generate(ctx context.Context, sysPromt, userPromt string, temperature float64) (string, error) {
	if i.catalogID == "" {
		return "", errors.New("не задан YAGPT_CATALOG_ID")
	}
	// У YandexGPT нет строгого JSON-режима, поэтому инструкция дописывается сразу
	request := yandexgptclient.YandexGPTRequest{
		ModelURI: yandexgptclient.MakeModelURI(i.catalogID, yandexgptclient.YandexGPTModelLite),
		CompletionOptions: yandexgptclient.YandexGPTCompletionOptions{
			Stream:      false,
			Temperature: float32(temperature),
			MaxTokens:   2000,
		},
		Messages: []yandexgptclient.YandexGPTMessage{
			{
				Role: yandexgptclient.YandexGPTMessageRoleSystem,
				Text: sysPromt,
			},
			{
				Role: yandexgptclient.YandexGPTMessageRoleUser,
				Text: userPromt + ai.JSONOnlyInstruction,
			},
		},
	}

	response, err := i.client.CreateRequest(ctx, request)
	if err != nil {
		return "", errors.Wrap(err, "ошибка при отправке запроса на генерацию в API YandexGPT")
	}
	if len(response.Result.Alternatives) == 0 {
		return "", errors.New("пустой ответ API YandexGPT")
	}
	return response.Result.Alternatives[0].Message.Text, nil
}
