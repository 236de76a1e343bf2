// Command song-cluster-explorer serves the song PCA cluster dashboard.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/justestif/go-song-cluster-explorer/internal/config"
	"github.com/justestif/go-song-cluster-explorer/internal/dashboard"
	"github.com/justestif/go-song-cluster-explorer/internal/db"
	"github.com/justestif/go-song-cluster-explorer/internal/songs"
	"github.com/justestif/go-song-cluster-explorer/internal/web"
	webfs "github.com/justestif/go-song-cluster-explorer/web"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: loading .env file: %v\n", err)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := config.SetupLogging(cfg.Log); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, closeSource, err := openSource(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer closeSource()

	loader := dashboard.NewLoader(src, cfg.Recluster)
	loader.Start(ctx)

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:        cfg.Addr,
		Data:        loader,
		Layout:      cfg.Layout,
		SessionTTL:  cfg.SessionTTL,
		TemplatesFS: templates,
		StaticFS:    static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}

// openSource builds the configured song source and a func releasing it.
func openSource(ctx context.Context, cfg config.SourceConfig) (songs.Source, func(), error) {
	logger := log.WithFields(log.Fields{"module": "main", "source": cfg.Kind})
	noop := func() {}

	switch cfg.Kind {
	case config.SourceFile:
		return songs.FileSource{Path: cfg.Path}, noop, nil

	case config.SourceHTTP:
		return songs.NewHTTPSource(cfg.URL, cfg.BaseURL), noop, nil

	case config.SourcePostgres:
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		return database.Songs(cfg.Table), database.Close, nil

	case config.SourceSQLite:
		src, err := db.OpenSQLite(cfg.SQLitePath, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {
			if err := src.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close sqlite database")
			}
		}, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Kind)
}
