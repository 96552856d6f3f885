package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrNotify отправляет ответы 5xx в бот уведомлений
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if addr == "" {
			return err
		}
		statusCode := c.Response().StatusCode()

		if statusCode >= http.StatusInternalServerError {
			body := string(c.Response().Body())

			var data struct {
				Status  string `json:"status"`
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			unmErr := json.Unmarshal(c.Response().Body(), &data)
			if unmErr != nil {
				log.WithError(unmErr).Warn("error unmarshalling response body in middleware")
			}

			method := c.Method()
			path := c.OriginalURL()
			if r := c.Route(); r != nil {
				path = r.Path
			}
			actorID := GetUserID(c)

			msg := data.Message
			if msg == "" {
				msg = body
			}

			go func() {
				payload := fmt.Sprintf(
					`{"code":%d,"error_code":%q,"method":%q,"path":%q,"actor_id":%q,"error":%q}`,
					statusCode, data.Code, method, path, actorID, msg)
				resp, reqErr := http.Post(addr, "application/json", strings.NewReader(payload))
				if reqErr != nil {
					log.WithError(reqErr).Warn("error sending error notification")
					return
				}
				resp.Body.Close()
			}()
		}

		return err
	}
}
