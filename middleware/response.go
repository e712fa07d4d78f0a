package middleware

import (
	"errors"

	"learnhub/apperr"
	"learnhub/logger"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, success bool, message string, data interface{}) error {
	body := fiber.Map{
		"success": success,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(statusCode).JSON(body)
}

// JsonMapResponse writes success and message next to the given top-level fields.
func JsonMapResponse(c *fiber.Ctx, statusCode int, success bool, message string, fields fiber.Map) error {
	body := fiber.Map{
		"success": success,
		"message": message,
	}
	for k, v := range fields {
		body[k] = v
	}
	return c.Status(statusCode).JSON(body)
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
}

// ErrorResponse renders a service error. Unknown errors become a generic 500 and are logged.
func ErrorResponse(c *fiber.Ctx, log *logger.Logger, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if len(appErr.Fields) > 0 {
			return ValidationErrorResponse(c, appErr.Fields)
		}
		if appErr.Status >= fiber.StatusInternalServerError {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "code", appErr.Code, "error", appErr.Err)
		}
		msg := appErr.Message
		if msg == "" {
			msg = "Failed to process your request!"
		}
		return JsonResponse(c, appErr.Status, false, msg, nil)
	}
	log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
}

// ErrorHandler is the fiber.Config ErrorHandler; it keeps error bodies in the JSON envelope.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return JsonResponse(c, fe.Code, false, fe.Message, nil)
		}
		return ErrorResponse(c, log, err)
	}
}
