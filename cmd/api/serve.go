package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"attachapi/docs"
	"attachapi/internal/database"
	"attachapi/internal/database/migration"
	handlers "attachapi/internal/http/handler"
	"attachapi/internal/http/middleware"
	"attachapi/internal/metrics"
	tracing "attachapi/internal/otel"
	"attachapi/internal/render"
	"attachapi/internal/repository/postgres"
	"attachapi/internal/service"
	"attachapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func cmdServe(a *app) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Listen port (overrides PORT)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.IsSet("port") {
				a.cfg.Port = c.String("port")
			}
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	shutdownTracing, err := tracing.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		return err
	}

	// Uploads dir doubles as scratch space for download archives.
	local, err := storage.NewLocal(cfg.Storage.UploadsDir)
	if err != nil {
		return fmt.Errorf("failed to prepare uploads dir: %w", err)
	}
	var files storage.Storage = local
	if cfg.Storage.Driver == "minio" {
		files, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	downloads, err := metrics.NewDownloads(promReg)
	if err != nil {
		return err
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(promReg)
	if err != nil {
		return err
	}

	entities := postgres.NewEntityPostgres(db)
	meta := postgres.NewMetaPostgres(db)
	attachments := service.NewAttachmentService(files, local, entities, meta,
		service.WithBaseURL(cfg.PublicBaseURL),
		service.WithChunkSize(cfg.Download.ChunkSize),
		service.WithLogger(logger),
		service.WithMetrics(downloads),
	)

	reg, err := a.registry(attachments)
	if err != nil {
		return err
	}
	relations := service.NewRelationService(reg, entities, meta)

	sc, widgets := render.NewShortcodes(), render.NewWidgets()
	if err := render.Install(render.ExtensionNames(), attachments, sc, widgets); err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.LoggerWithWriter(os.Stdout, a.loc))
	app.Use(httpMetrics.Handler())
	app.Use(otelfiber.Middleware())
	// Downloads keep their exact Content-Length, so they are never compressed.
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool { return c.Path() == "/download" },
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{Registry: promReg})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:          db,
		Files:       files,
		Attachments: attachments,
		Relations:   relations,
		Registry:    reg,
		Shortcodes:  sc,
		Widgets:     widgets,
		Logger:      logger,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("http_server_starting", slog.String("addr", addr), slog.String("storage", cfg.Storage.Driver))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		logger.Info("http_server_stopping")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(sctx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}
	return nil
}
