package middleware

import (
	"PostureGuard/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"time"
)

const RequestIDKey = "X-Request-ID"

// NewRequestIDMiddleware reuses a caller supplied X-Request-ID or mints a
// ULID. A random UUID stands in if the ULID cannot be generated.
func NewRequestIDMiddleware(logger *logrus.Logger) fiber.Handler {
	return newRequestIDHandler(logger, utils.New().NewULIDFromTimestamp)
}

func newRequestIDHandler(logger *logrus.Logger, newID func(time.Time) (string, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)

		if requestID == "" {
			id, err := newID(time.Now())
			if err != nil {
				logger.WithField("error", err.Error()).Warn("Failed to generate ULID request id, using UUID")
				id = uuid.NewString()
			}
			requestID = id
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}
