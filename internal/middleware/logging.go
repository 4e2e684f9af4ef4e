package middleware

import (
	"time"

	"github.com/filehost/filehost/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := logger.GenerateRequestID()
		c.Locals("requestID", requestID)

		err := c.Next()

		latency := time.Since(start)
		statusCode := c.Response().StatusCode()

		details := map[string]interface{}{
			"method":        c.Method(),
			"path":          c.Path(),
			"status_code":   statusCode,
			"latency_ms":    latency.Milliseconds(),
			"user_agent":    c.Get("User-Agent"),
			"ip":            c.IP(),
			"request_body":  logger.GetRequestBodySummary(c),
			"response_body": logger.GetResponseSizeSummary(c),
			"request_id":    requestID,
		}

		username := logger.GetUsernameFromContext(c)
		switch {
		case username != nil && statusCode >= 500:
			logger.ErrorWithUser(*username, "http_request", err, details)
		case username != nil && statusCode >= 400:
			logger.WarnWithUser(*username, "http_request", details)
		case username != nil:
			logger.InfoWithUser(*username, "http_request", details)
		case statusCode >= 500:
			logger.Error("http_request", err, details)
		case statusCode >= 400:
			logger.Warn("http_request", details)
		default:
			logger.Info("http_request", details)
		}

		return err
	}
}

// SecurityLogger records requests answered with 401 or 404, which covers
// lookups of files that are not shared or do not exist.
func SecurityLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		var reason string
		switch c.Response().StatusCode() {
		case fiber.StatusUnauthorized:
			reason = "unauthorized"
		case fiber.StatusNotFound:
			reason = "not_found"
		default:
			return err
		}

		username := logger.GetUsernameFromContext(c)
		details := map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"ip":     c.IP(),
			"reason": reason,
		}

		if username != nil {
			logger.WarnWithUser(*username, reason, details)
		} else {
			logger.Warn(reason+"_anonymous", details)
		}

		return err
	}
}
