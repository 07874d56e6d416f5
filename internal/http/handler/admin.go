package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/registry"
	"attachapi/internal/render"
	"attachapi/internal/service"
)

type attachRequest struct {
	AttachmentID int64 `json:"attachment_id"`
}

type reorderRequest struct {
	IDs []int64 `json:"ids"`
}

// ListContentTypes returns the content types that accept attachments.
//
// @Summary  Registered content types
// @Tags     admin
// @Produce  json
// @Success  200 {object} map[string]any
// @Router   /admin/content-types [get]
func ListContentTypes(reg *registry.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": reg.Types()})
	}
}

// MetaBox renders the attachments panel of one post.
//
// @Summary  Attachments panel
// @Tags     admin
// @Produce  html
// @Param    type path string true "content type"
// @Param    id   path int    true "post id"
// @Success  200 {string} string
// @Failure  404 {object} errorPayload
// @Router   /admin/{type}/{id}/metabox [get]
func MetaBox(reg *registry.Registry, rel service.RelationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		postType := c.Params("type")
		postID, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}

		rows, err := rel.Rows(c.UserContext(), postType, postID)
		if err != nil {
			return writeServiceError(c, err)
		}
		view, ok := reg.PanelView(postType, postID, rows)
		if !ok {
			return writeServiceError(c, service.ErrUnknownContentType)
		}
		out, err := render.Panel(view)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Type("html").SendString(out)
	}
}

// ListRelated returns the attachments related to a post.
//
// @Summary  Related attachments
// @Tags     admin
// @Produce  json
// @Param    type path string true "content type"
// @Param    id   path int    true "post id"
// @Success  200 {object} map[string]any
// @Failure  404 {object} errorPayload
// @Router   /admin/{type}/{id}/attachments [get]
func ListRelated(rel service.RelationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		postID, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		rows, err := rel.Rows(c.UserContext(), c.Params("type"), postID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": rows})
	}
}

// AttachRelated relates an attachment to a post.
//
// @Summary  Add attachment to post
// @Tags     admin
// @Accept   json
// @Param    type path string        true "content type"
// @Param    id   path int           true "post id"
// @Param    body body attachRequest true "attachment"
// @Success  204
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /admin/{type}/{id}/attachments [post]
func AttachRelated(rel service.RelationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		postID, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		var req attachRequest
		if err := c.BodyParser(&req); err != nil || req.AttachmentID <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "attachment_id is required")
		}
		if err := rel.Attach(c.UserContext(), c.Params("type"), postID, req.AttachmentID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DetachRelated removes an attachment from a post.
//
// @Summary  Remove attachment from post
// @Tags     admin
// @Param    type          path string true "content type"
// @Param    id            path int    true "post id"
// @Param    attachment_id path int    true "attachment id"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /admin/{type}/{id}/attachments/{attachment_id} [delete]
func DetachRelated(rel service.RelationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		postID, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		attachmentID, err := parseID(c.Params("attachment_id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid attachment_id")
		}
		if err := rel.Detach(c.UserContext(), c.Params("type"), postID, attachmentID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ReorderRelated changes the display order of a post's attachments.
//
// @Summary  Reorder post attachments
// @Tags     admin
// @Accept   json
// @Param    type path string         true "content type"
// @Param    id   path int            true "post id"
// @Param    body body reorderRequest true "new order"
// @Success  204
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /admin/{type}/{id}/attachments/order [put]
func ReorderRelated(rel service.RelationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		postID, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		var req reorderRequest
		if err := c.BodyParser(&req); err != nil || len(req.IDs) == 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "ids are required")
		}
		if err := rel.Reorder(c.UserContext(), c.Params("type"), postID, req.IDs); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListAvailable returns every attachment for the assign modal, with limit & offset.
//
// @Summary  Available attachments
// @Tags     admin
// @Produce  json
// @Param    limit  query int false "page size (default 10)"
// @Param    offset query int false "offset"
// @Success  200 {object} service.AttachmentListResult
// @Failure  400 {object} errorPayload
// @Router   /admin/attachments [get]
func ListAvailable(rel service.RelationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := rel.Available(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
