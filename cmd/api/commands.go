package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/Tomlord1122/todoapp/internal/config"
	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/logutil"
	"github.com/Tomlord1122/todoapp/internal/server"
)

// loadConfig reads the environment and configures the global logger. The
// global flags win over LOG_LEVEL and LOG_FORMAT.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.LogFormat = v
	}
	logutil.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func openDatabase(cfg *config.Config) (database.Service, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("Running database auto-migration")
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return db, nil
}

func serveCmd() *cli.Command {
	var addr string
	return &cli.Command{
		Name:  "serve",
		Usage: "Migrate the database and start the todo application",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Address to listen on (default :PORT)",
				Destination: &addr,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = fmt.Sprintf(":%d", cfg.Port)
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing database connection pool")
				}
			}()

			app, err := server.New(cfg, db)
			if err != nil {
				return err
			}
			return listen(c.Context, app.HTTPServer(addr))
		},
	}
}

func booksCmd() *cli.Command {
	var addr string
	return &cli.Command{
		Name:  "books",
		Usage: "Start the in-memory books catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Address to listen on (default :BOOKS_PORT)",
				Destination: &addr,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = fmt.Sprintf(":%d", cfg.BooksPort)
			}
			return listen(c.Context, server.NewBooksServer(cfg).HTTPServer(addr))
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the users and todos tables, then exit",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			log.Info().Msg("Database auto-migration complete")
			return db.Close()
		},
	}
}

// listen serves until ctx is cancelled, then gives in-flight requests five
// seconds to finish.
func listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}
	log.Info().Msg("Server exiting")
	return nil
}
