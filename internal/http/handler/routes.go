package handler

import (
	"database/sql"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/registry"
	"attachapi/internal/render"
	"attachapi/internal/service"
	"attachapi/internal/storage"
)

// Deps are the collaborators the HTTP routes are built from.
type Deps struct {
	DB          *sql.DB
	Files       storage.Storage
	Attachments service.AttachmentService
	Relations   service.RelationService
	Registry    *registry.Registry
	Shortcodes  *render.Shortcodes
	Widgets     *render.Widgets
	Logger      *slog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	app.Get("/download", Download(d.Attachments, logger))
	app.Get("/posts/:id/attachments", ListPostAttachments(d.Attachments))
	app.Get("/posts/:id/attachments/list", RenderPostAttachments(d.Attachments))
	app.Get("/attachments/:id/link", AttachmentLink(d.Attachments))
	app.Post("/attachments", UploadAttachment(d.Attachments))
	if d.Files != nil {
		app.Get("/uploads/*", ServeUpload(d.Files))
	}

	app.Post("/render", RenderContent(d.Shortcodes))
	app.Get("/widgets/:name", RenderWidget(d.Widgets))

	admin := app.Group("/admin")
	admin.Get("/content-types", ListContentTypes(d.Registry))
	admin.Get("/attachments", ListAvailable(d.Relations))
	admin.Get("/attachments/upload", UploadForm("/attachments"))
	admin.Get("/:type/:id/metabox", MetaBox(d.Registry, d.Relations))
	admin.Get("/:type/:id/attachments", ListRelated(d.Relations))
	admin.Post("/:type/:id/attachments", AttachRelated(d.Relations))
	admin.Put("/:type/:id/attachments/order", ReorderRelated(d.Relations))
	admin.Delete("/:type/:id/attachments/:attachment_id", DetachRelated(d.Relations))
}
