package fiberlog

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hook := test.NewLocal(logger)

	app := fiber.New()
	app.Use(New(Config{Logger: logger, Tags: []string{TagStatus, TagMethod, TagPath, TagActor}}))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/fail", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusInternalServerError) })

	cases := []struct {
		path  string
		level logrus.Level
		code  int
	}{
		{"/ok", logrus.InfoLevel, fiber.StatusOK},
		{"/missing", logrus.WarnLevel, fiber.StatusNotFound},
		{"/fail", logrus.ErrorLevel, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			hook.Reset()
			_, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			require.NoError(t, err)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			require.Equal(t, tc.level, entry.Level)
			require.Equal(t, tc.code, entry.Data[TagStatus])
			require.Equal(t, fiber.MethodGet, entry.Data[TagMethod])
			require.Equal(t, tc.path, entry.Data[TagPath])
			// без токена поле actor_id не пишется
			require.NotContains(t, entry.Data, TagActor)
		})
	}

	t.Run(`preflight не логируется`, func(t *testing.T) {
		hook.Reset()
		_, err := app.Test(httptest.NewRequest(fiber.MethodOptions, "/ok", nil))
		require.NoError(t, err)
		require.Empty(t, hook.AllEntries())
	})
}
