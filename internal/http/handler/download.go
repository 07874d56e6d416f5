package handler

import (
	"bufio"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/http/middleware"
	"attachapi/internal/service"
)

// Download streams a single attachment (?id=) or a zip of all attachments of a
// post (?post_id=). id wins when both are given.
//
// A file that cannot be opened yields an empty 404 with no download headers.
//
// @Summary  Download attachments
// @Tags     download
// @Produce  octet-stream
// @Param    id      query int false "attachment id"
// @Param    post_id query int false "post id"
// @Success  200 {file} binary
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /download [get]
func Download(svc service.AttachmentService, logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *fiber.Ctx) error {
		var (
			tr  *service.Transfer
			err error
		)
		switch {
		case c.Query("id") != "":
			id, perr := parseID(c.Query("id"))
			if perr != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
			}
			tr, err = svc.DownloadOne(c.UserContext(), id)
		case c.Query("post_id") != "":
			postID, perr := parseID(c.Query("post_id"))
			if perr != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid post_id")
			}
			tr, err = svc.DownloadAll(c.UserContext(), postID)
		default:
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id or post_id is required")
		}

		if errors.Is(err, service.ErrFileUnavailable) {
			c.Status(fiber.StatusNotFound)
			return nil
		}
		if err != nil {
			if !isClientError(err) {
				logger.ErrorContext(c.UserContext(), "download failed",
					slog.String("request_id", requestIDFromCtx(c)), slog.Any("error", err))
			}
			return writeServiceError(c, err)
		}
		return sendTransfer(c, tr, logger)
	}
}

// sendTransfer writes the download headers and hands the body to fasthttp, which
// calls the stream writer after the handler returns. The writer must not touch c.
func sendTransfer(c *fiber.Ctx, tr *service.Transfer, logger *slog.Logger) error {
	for k, vs := range tr.Header() {
		if k == fiber.HeaderContentLength || len(vs) == 0 {
			continue
		}
		c.Set(k, vs[0])
	}

	c.Status(fiber.StatusOK)
	if c.Method() == fiber.MethodHead {
		// Headers only: nothing is sent, so nothing is counted.
		c.Response().Header.SetContentLength(int(tr.Size()))
		return tr.Close()
	}

	ctx := c.UserContext()
	name := tr.Filename()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		n, err := tr.Stream(ctx, w)
		if err != nil {
			logger.InfoContext(ctx, "download interrupted",
				slog.String("request_id", middleware.RequestIDFromContext(ctx)),
				slog.String("file", name),
				slog.Int64("written", n),
				slog.Any("error", err))
		}
	})
	// SetBodyStreamWriter switches to chunked encoding; the size is known, so pin it.
	c.Response().Header.SetContentLength(int(tr.Size()))
	return nil
}

func isClientError(err error) bool {
	return errors.Is(err, service.ErrNotAttachment) ||
		errors.Is(err, service.ErrNoAttachments) ||
		errors.Is(err, service.ErrPostNotFound) ||
		errors.Is(err, service.ErrUnknownContentType) ||
		errors.Is(err, service.ErrNotRelated)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
