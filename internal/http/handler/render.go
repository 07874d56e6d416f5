package handler

import (
	"github.com/gofiber/fiber/v2"

	"attachapi/internal/render"
)

// RenderContent expands the shortcodes in the request body.
//
// @Summary  Expand shortcodes
// @Tags     render
// @Accept   plain
// @Produce  html
// @Success  200 {string} string
// @Router   /render [post]
func RenderContent(sc *render.Shortcodes) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := sc.Expand(c.UserContext(), string(c.Body()))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Type("html").SendString(out)
	}
}

// RenderWidget renders a widget; the query string holds its settings.
//
// @Summary  Render widget
// @Tags     render
// @Produce  html
// @Param    name    path  string true  "widget name"
// @Param    title   query string false "widget title"
// @Param    post_id query int    false "post id"
// @Success  200 {string} string
// @Failure  404 {object} errorPayload
// @Router   /widgets/{name} [get]
func RenderWidget(w *render.Widgets) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := w.Render(c.UserContext(), c.Params("name"), c.Queries())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Type("html").SendString(out)
	}
}
