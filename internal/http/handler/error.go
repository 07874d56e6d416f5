package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/http/middleware"
	"attachapi/internal/render"
	"attachapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps service errors to responses. Unknown errors become a 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var openErr *service.ArchiveOpenError
	switch {
	case errors.As(err, &openErr):
		return writeError(c, fiber.StatusInternalServerError, "ARCHIVE_OPEN_FAILED", openErr.Error())
	case errors.Is(err, service.ErrNoAttachments):
		return writeError(c, fiber.StatusNotFound, "NO_ATTACHMENTS", "The post has no attachments to download")
	case errors.Is(err, service.ErrNotAttachment):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "attachment not found")
	case errors.Is(err, service.ErrPostNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "post not found")
	case errors.Is(err, service.ErrUnknownContentType):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "content type not found")
	case errors.Is(err, render.ErrUnknownWidget):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "widget not found")
	case errors.Is(err, service.ErrNotRelated):
		return writeError(c, fiber.StatusBadRequest, "NOT_RELATED", "attachment is not related to the post")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
