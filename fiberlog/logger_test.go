package fiberlog

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newLoggedApp(logger *logrus.Logger) *fiber.App {
	app := fiber.New()
	app.Use(New(Config{
		Logger: logger,
		Tags:   []string{TagMethod, TagPath, TagStatus, TagLatency},
	}))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/conflict", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusConflict) })
	return app
}

func TestAccessLog(t *testing.T) {
	t.Run(`успешный запрос пишется как Info с полями`, func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		app := newLoggedApp(logger)

		req, _ := http.NewRequest(http.MethodGet, "/ok", nil)
		_, err := app.Test(req)
		require.Nil(t, err)

		require.Len(t, hook.Entries, 1)
		entry := hook.LastEntry()
		require.Equal(t, logrus.InfoLevel, entry.Level)
		require.Equal(t, "GET", entry.Data[TagMethod])
		require.Equal(t, "/ok", entry.Data[TagPath])
		require.Equal(t, fiber.StatusOK, entry.Data[TagStatus])
	})

	t.Run(`ошибка клиента пишется как Warn`, func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		app := newLoggedApp(logger)

		req, _ := http.NewRequest(http.MethodGet, "/conflict", nil)
		_, err := app.Test(req)
		require.Nil(t, err)

		require.Len(t, hook.Entries, 1)
		require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run(`preflight не логируется`, func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		app := newLoggedApp(logger)

		req, _ := http.NewRequest(http.MethodOptions, "/ok", nil)
		_, err := app.Test(req)
		require.Nil(t, err)
		require.Empty(t, hook.Entries)
	})
}
