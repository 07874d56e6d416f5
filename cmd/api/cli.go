package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"attachapi/internal/config"
	"attachapi/internal/database"
	"attachapi/internal/database/migration"
	"attachapi/internal/logging"
	"attachapi/internal/registry"
)

// app carries what every command needs once the root Before hook has run.
type app struct {
	cfg    *config.AppConfig
	loc    *time.Location
	logger *slog.Logger
}

func run(ctx context.Context, args []string) error {
	a := &app{}

	cmd := &cli.Command{
		Name:           "attachapi",
		Usage:          "Attachment download service",
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "content-types",
				Usage: "YAML file listing the content types that accept attachments",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg := config.Load()
			if c.IsSet("log-level") {
				cfg.Log.Level = c.String("log-level")
			}
			if c.IsSet("content-types") {
				cfg.ContentTypesFile = c.String("content-types")
			}

			loc, err := time.LoadLocation(cfg.Timezone)
			if err != nil {
				return ctx, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
			}

			a.cfg = cfg
			a.loc = loc
			a.logger = logging.New(cfg.Log, os.Stdout, loc)
			slog.SetDefault(a.logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(a),
			cmdMigrate(a),
			cmdContentTypes(a),
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		logger := a.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("command_failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func cmdMigrate(a *app) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the entity and metadata tables when missing",
		Action: func(ctx context.Context, _ *cli.Command) error {
			db, err := database.NewPostgres(ctx, a.cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			return migration.EnsureMigrated(ctx, db, a.logger, a.cfg.Database.Host)
		},
	}
}

func cmdContentTypes(a *app) *cli.Command {
	return &cli.Command{
		Name:  "content-types",
		Usage: "Print the content types that accept attachments",
		Action: func(ctx context.Context, _ *cli.Command) error {
			reg, err := a.registry(nil)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(reg.Types())
		},
	}
}

// registry merges CONTENT_TYPES with the optional content types file; the file wins on conflicts.
func (a *app) registry(urls registry.URLs) (*registry.Registry, error) {
	reg := registry.New(a.cfg.PublicBaseURL, urls)
	reg.Register(a.cfg.ContentTypes)
	if a.cfg.ContentTypesFile != "" {
		types, err := registry.LoadFile(a.cfg.ContentTypesFile)
		if err != nil {
			return nil, err
		}
		reg.Register(types)
	}
	return reg, nil
}
