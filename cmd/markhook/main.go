package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/markhook/markhook/internal/config"
	"github.com/markhook/markhook/internal/db"
	"github.com/markhook/markhook/internal/fetch"
	"github.com/markhook/markhook/internal/server"
	"github.com/markhook/markhook/internal/sync"
	"github.com/markhook/markhook/internal/watcher"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "markhook",
		Short:   "Git-driven content sync engine for Postgres",
		Long:    `A service that receives GitHub push webhooks for a Markdown content repository and syncs posts, authors and pages into a PostgreSQL database.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(
		serveCmd(),
		syncCmd(),
		watchCmd(),
		statusCmd(),
		migrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		Long:  `Starts the HTTP server that receives GitHub push webhooks and syncs changed content files to the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			database, err := db.New(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			fetcher := fetch.NewGitHub(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Token)
			engine := sync.NewEngine(database, fetcher, cfg)

			srv := &http.Server{
				Addr:         cfg.Server.Addr(),
				Handler:      server.New(engine, cfg.Webhook.Secret),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 5 * time.Minute, // Large pushes fetch many files
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("server started", "addr", srv.Addr,
					"repo", cfg.GitHub.Owner+"/"+cfg.GitHub.Repo)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-sigCh:
				slog.Info("shutting down...")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "One-time full sync from a local clone, then exit",
		Long:  `Walks a local clone of the content repository and syncs every content file to the database. Useful for initial imports and for catching up after downtime.`,
	}

	dir := ""
	cmd.Flags().StringVar(&dir, "dir", ".", "path to the local content repository clone")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		database, err := db.New(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		engine := sync.NewEngine(database, fetch.NewLocal(dir), cfg)

		result, err := engine.FullSync(ctx, dir)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		fmt.Printf("Synced %d files", result.Processed)
		if len(result.Errors) > 0 {
			fmt.Printf(", %d errors:\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("  %s\n", e)
			}
			return fmt.Errorf("%d files failed to sync", len(result.Errors))
		}
		fmt.Println(".")
		return nil
	}

	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a local clone and sync changes in real time",
		Long:  `Watches a local clone of the content repository and syncs content files to the database as they change. Intended for previewing drafts without pushing.`,
	}

	dir := ""
	cmd.Flags().StringVar(&dir, "dir", ".", "path to the local content repository clone")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		database, err := db.New(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		engine := sync.NewEngine(database, fetch.NewLocal(dir), cfg)

		// Catch up before watching so edits made while stopped are not missed
		if _, err := engine.FullSync(ctx, dir); err != nil {
			slog.Error("initial sync failed", "error", err)
		}

		w, err := watcher.NewWatcher(dir, cfg.Content.Root, cfg.Sync.DebounceMs, cfg.IgnorePatterns)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}

		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		fmt.Println("Watching for content changes. Press Ctrl+C to stop.")

		for {
			select {
			case <-sigCh:
				slog.Info("shutting down...")
				return w.Stop()

			case event := <-w.Events():
				slog.Debug("file event",
					"path", event.Change.Path,
					"type", event.Type.String())
				var err error
				switch event.Type {
				case watcher.EventDelete:
					err = engine.DeleteChange(ctx, event.Change, sync.LocalRef)
				default:
					err = engine.SyncChange(ctx, event.Change, sync.LocalRef)
				}
				if err != nil {
					slog.Error("sync failed", "path", event.Change.Path, "error", err)
				}
			}
		}
	}

	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection status and content counts",
		Long:  `Shows the current database connection status, synced content counts, last sync time and recent sync log entries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			database, err := db.New(ctx, &cfg.Database)
			if err != nil {
				fmt.Printf("Database Status: Disconnected\n")
				fmt.Printf("Error: %v\n", err)
				return nil
			}
			defer database.Close()

			status, err := database.GetStatus(ctx)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			fmt.Println("=== Markhook Status ===")
			fmt.Printf("Database Status: Connected\n")
			fmt.Printf("  Host: %s\n", cfg.Database.Host)
			fmt.Printf("  Database: %s\n", cfg.Database.Database)
			fmt.Println()
			fmt.Printf("Content Repository: %s/%s (branch %s)\n",
				cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch)
			fmt.Println()
			fmt.Printf("Synced Content:\n")
			fmt.Printf("  Posts: %d\n", status.TotalPosts)
			fmt.Printf("  Authors: %d\n", status.TotalAuthors)
			fmt.Printf("  Pages: %d\n", status.TotalPages)
			fmt.Printf("  Tags: %d\n", status.TotalTags)
			if status.LastSyncTime != nil {
				fmt.Printf("  Last Sync: %s\n", status.LastSyncTime.Format(time.RFC3339))
			}

			logs, err := database.RecentSyncLogs(ctx, 10)
			if err != nil {
				return fmt.Errorf("failed to read sync log: %w", err)
			}
			if len(logs) > 0 {
				fmt.Println()
				fmt.Printf("Recent Activity:\n")
				for _, entry := range logs {
					line := fmt.Sprintf("  %s %-7s %s/%s [%s]",
						entry.CreatedAt.Format("2006-01-02 15:04:05"),
						entry.EventType, entry.ResourceType, entry.ResourceSlug, entry.Status)
					if entry.Error != nil {
						line += " " + *entry.Error
					}
					fmt.Println(line)
				}
			}

			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Runs all pending database migrations.`,
	}

	migrationsDir := ""
	cmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "migrations directory")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		database, err := db.New(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		// Resolve migrations directory
		if !filepath.IsAbs(migrationsDir) {
			// Try relative to executable first
			exe, _ := os.Executable()
			exeDir := filepath.Dir(exe)
			if _, err := os.Stat(filepath.Join(exeDir, migrationsDir)); err == nil {
				migrationsDir = filepath.Join(exeDir, migrationsDir)
			} else {
				// Try relative to current directory
				cwd, _ := os.Getwd()
				migrationsDir = filepath.Join(cwd, migrationsDir)
			}
		}

		if err := database.RunMigrations(ctx, migrationsDir); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Println("Migrations completed successfully.")
		return nil
	}

	return cmd
}
