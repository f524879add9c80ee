// Package main is the entrypoint for the notifications-dispatch service.
package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/notifyhub/notifications-dispatch/internal/config"
	"github.com/notifyhub/notifications-dispatch/internal/server"
	"github.com/notifyhub/notifications-dispatch/pkg/db"
)

const usage = `Usage: notifications-dispatch [command]
       notifications-dispatch serve             Start the dispatch service (COMMS, work queue, HTTP).
       notifications-dispatch migrate up        Run database migrations.
       notifications-dispatch migrate down      Roll back one migration (not supported; forward-only).
       notifications-dispatch migrate status    Show migration status.
       notifications-dispatch ensure-db [name]  Create database if missing (default name: notify_test).
       notifications-dispatch clear             Truncate the handler endpoint registry; schema is preserved.
       notifications-dispatch seed [file]       Seed handler endpoints from a bootstrap JSON file.

Commands:
  serve           (default) Start the notifications dispatch service.
  migrate up      Run database migrations only.
  migrate down    Roll back last migration (not supported).
  migrate status  Show current migration status.
  ensure-db [name] Create database on same host as DATABASE_URL.
  clear           Truncate endpoint registry data; schema preserved.
  seed [file]     Seed endpoints from bootstrap JSON (default: NOTIFY_BOOTSTRAP_FILE).

Environment: DATABASE_URL (required), COMMS_URL, MIGRATION_PATH, NOTIFY_BOOTSTRAP_FILE,
NOTIFY_STREAM, NOTIFY_ENDPOINT, HTTP_PORT, LOG_LEVEL.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "migrate":
		if len(args) < 2 {
			log.Fatalf("notifications-dispatch migrate: require subcommand (up, down, status)")
		}
		sub := args[1]
		switch sub {
		case "up":
			if err := runMigrateUp(); err != nil {
				log.Fatalf("notifications-dispatch migrate up: %v", err)
			}
		case "status":
			if err := runMigrateStatus(); err != nil {
				log.Fatalf("notifications-dispatch migrate status: %v", err)
			}
		case "down":
			if err := runMigrateDown(); err != nil {
				log.Fatalf("notifications-dispatch migrate down: %v", err)
			}
		default:
			log.Fatalf("notifications-dispatch migrate: unknown subcommand %q (use up, down, status)", sub)
		}
		return
	case "clear":
		if err := runClear(); err != nil {
			log.Fatalf("notifications-dispatch clear: %v", err)
		}
		return
	case "seed":
		bootstrapFile := ""
		if len(args) > 1 {
			bootstrapFile = args[1]
		}
		if err := runSeed(bootstrapFile); err != nil {
			log.Fatalf("notifications-dispatch seed: %v", err)
		}
		return
	case "ensure-db":
		dbName := "notify_test"
		if len(args) > 1 && args[1] != "" {
			dbName = args[1]
		}
		if err := runEnsureDB(dbName); err != nil {
			log.Fatalf("notifications-dispatch ensure-db: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("notifications-dispatch: %v", err)
	}
}

func runMigrateUp() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func runMigrateStatus() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	return db.MigrationStatus(ctx, pool, cfg.MigrationPath)
}

func runMigrateDown() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	return db.MigrationDown(ctx, pool, cfg.MigrationPath)
}

func runClear() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.ClearEndpoints(ctx, pool); err != nil {
		return fmt.Errorf("clear endpoints: %w", err)
	}
	return nil
}

func runSeed(bootstrapFileOverride string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	bootstrapPath := bootstrapFileOverride
	if bootstrapPath == "" {
		bootstrapPath = cfg.BootstrapFile
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.SeedBootstrap(ctx, pool, bootstrapPath); err != nil {
		return fmt.Errorf("seed bootstrap: %w", err)
	}
	return nil
}

func runEnsureDB(dbName string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	// Replace path with target database name; query (e.g. sslmode) is kept on u.RawQuery.
	u.Path = "/" + dbName
	ctx := context.Background()
	if err := db.EnsureDatabase(ctx, u.String()); err != nil {
		return err
	}
	fmt.Printf("Database %q is ready.\n", dbName)
	return nil
}
