package handler

import (
	"net/url"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/model"
	"attachapi/internal/render"
	"attachapi/internal/service"
	"attachapi/internal/storage"
)

// attachmentView is an attachment with its public download URL.
type attachmentView struct {
	model.Attachment
	DownloadURL string `json:"download_url"`
}

func attachmentViews(svc service.AttachmentService, atts []model.Attachment) []attachmentView {
	out := make([]attachmentView, 0, len(atts))
	for _, a := range atts {
		out = append(out, attachmentView{Attachment: a, DownloadURL: svc.URLFor(a.ID)})
	}
	return out
}

// ListPostAttachments returns a post's attachments in display order.
//
// @Summary  List post attachments
// @Tags     attachments
// @Produce  json
// @Param    id path int true "post id"
// @Success  200 {object} map[string]any
// @Failure  400 {object} errorPayload
// @Router   /posts/{id}/attachments [get]
func ListPostAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		postID, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		atts, err := svc.ListPostAttachments(c.UserContext(), postID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"data":         attachmentViews(svc, atts),
			"download_all": svc.PostURLFor(postID),
		})
	}
}

// RenderPostAttachments returns the HTML list of download buttons for a post.
//
// @Summary  Render post attachments list
// @Tags     attachments
// @Produce  html
// @Param    id        path  int    true  "post id"
// @Param    separator query string false "markup between items (default <br/>)"
// @Param    before    query string false "markup before the list"
// @Param    after     query string false "markup after the list"
// @Success  200 {string} string
// @Router   /posts/{id}/attachments/list [get]
func RenderPostAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		postID, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		atts, err := svc.ListPostAttachments(c.UserContext(), postID)
		if err != nil {
			return writeServiceError(c, err)
		}
		out := render.List(atts, svc.URLFor,
			c.Query("separator", render.DefaultSeparator), c.Query("before"), c.Query("after"))
		return c.Type("html").SendString(out)
	}
}

// AttachmentLink returns an anchor to an attachment's download URL.
//
// @Summary  Attachment download link
// @Tags     attachments
// @Produce  html
// @Param    id path int true "attachment id"
// @Success  200 {string} string
// @Failure  404 {object} errorPayload
// @Router   /attachments/{id}/link [get]
func AttachmentLink(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		link, err := svc.ResolveLink(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Type("html").SendString(link)
	}
}

// UploadAttachment stores a new attachment (multipart/form-data, field name: file),
// optionally relating it to post_id.
//
// @Summary  Upload attachment
// @Tags     attachments
// @Accept   multipart/form-data
// @Produce  json
// @Param    file    formData file true  "file"
// @Param    post_id formData int  false "post to attach to"
// @Success  201 {object} attachmentView
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /attachments [post]
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		var postID int64
		if v := c.FormValue("post_id"); v != "" {
			if postID, err = parseID(v); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid post_id")
			}
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		att, err := svc.Upload(c.UserContext(), service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			PostID:      postID,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(attachmentView{Attachment: *att, DownloadURL: svc.URLFor(att.ID)})
	}
}

// UploadForm renders the upload modal opened from the attachments panel.
//
// @Summary  Upload form
// @Tags     admin
// @Produce  html
// @Param    post_id query int false "post to relate the upload to"
// @Success  200 {string} string
// @Failure  400 {object} errorPayload
// @Router   /admin/attachments/upload [get]
func UploadForm(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var postID int64
		if v := c.Query("post_id"); v != "" {
			id, err := parseID(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid post_id")
			}
			postID = id
		}
		out, err := render.UploadForm(action, postID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Type("html").SendString(out)
	}
}

// ServeUpload serves a stored file by its key, whichever storage driver holds it.
// Panel thumbnails point here.
//
// @Summary  Stored file
// @Tags     attachments
// @Param    key path string true "stored file key"
// @Success  200 {file} binary
// @Failure  404 {object} errorPayload
// @Router   /uploads/{key} [get]
func ServeUpload(files storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, err := url.PathUnescape(c.Params("*"))
		if err != nil || key == "" {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
		}
		rc, info, err := files.Get(c.UserContext(), key)
		if err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
		}
		switch ext := strings.TrimPrefix(path.Ext(key), "."); {
		case info.ContentType != "":
			c.Set(fiber.HeaderContentType, info.ContentType)
		case ext != "":
			c.Type(ext)
		default:
			c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
		}
		return c.SendStream(rc, int(info.Size))
	}
}
