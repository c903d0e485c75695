package middleware

import (
	"farmstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing one sent by the client,
// and stores a logger carrying that id in the request locals.
func RequestID(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDHeader, requestID)

		c.Locals("request_id", requestID)
		c.Locals(logger.LocalsKey, base.With(zap.String("request_id", requestID)))
		return c.Next()
	}
}
