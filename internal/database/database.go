package database

import (
	"context"
	"database/sql"
	"fmt"
	stdlog "log"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"github.com/Tomlord1122/todoapp/internal/config"
	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/Tomlord1122/todoapp/internal/logutil"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Service exposes the gorm handle plus the lifecycle hooks the server needs.
type Service interface {
	Health(ctx context.Context) map[string]string
	Close() error
	GetDB() *gorm.DB
	Migrate() error
}

type service struct {
	db   *gorm.DB
	name string
}

// Models lists every table owned by the todo application.
var Models = []interface{}{
	&domain.User{},
	&domain.Todo{},
}

// New connects using the configured driver.
func New(cfg config.DatabaseConfig) (Service, error) {
	var dialector gorm.Dialector
	var name string
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
		name = cfg.SQLitePath
	default:
		// Example DSN: "host=localhost user=gorm password=gorm dbname=gorm port=9920 sslmode=disable"
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
		if cfg.Schema != "" {
			dsn += " search_path=" + cfg.Schema
		}
		dialector = postgres.New(postgres.Config{DSN: dsn, DriverName: "pgx"})
		name = cfg.Name
	}

	svc, err := Open(dialector, parseLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	svc.(*service).name = name
	return svc, nil
}

// Open wraps an arbitrary dialector. Tests use it with in-memory sqlite.
func Open(dialector gorm.Dialector, level logger.LogLevel) (Service, error) {
	gormLogger := logger.New(
		stdlog.New(log.Logger, "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &service{db: db, name: dialector.Name()}, nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the users and todos tables.
func (s *service) Migrate() error {
	for _, model := range Models {
		if err := s.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto-migrate %T: %w", model, err)
		}
	}
	return nil
}

const healthTimeout = time.Second

// Health pings the database and reports pool usage and table sizes. Status is
// "down" when the ping fails. A table that cannot be counted is left out.
func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	logger := logutil.GetOrDefault(ctx)

	report := map[string]string{"database": s.name}
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.Error().Err(err).Str("database", s.name).Msg("database health check failed")
		report["status"] = "down"
		report["error"] = fmt.Sprintf("db down: %v", err)
		return report
	}

	pool := sqlDB.Stats()
	report["status"] = "up"
	report["message"] = poolMessage(pool)
	report["open_connections"] = strconv.Itoa(pool.OpenConnections)
	report["in_use"] = strconv.Itoa(pool.InUse)
	report["idle"] = strconv.Itoa(pool.Idle)
	report["wait_count"] = strconv.FormatInt(pool.WaitCount, 10)
	report["wait_duration"] = pool.WaitDuration.String()

	for key, model := range map[string]interface{}{"users": &domain.User{}, "todos": &domain.Todo{}} {
		var n int64
		if err := s.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			logger.Debug().Err(err).Str("table", key).Msg("health: count skipped")
			continue
		}
		report[key] = strconv.FormatInt(n, 10)
	}
	return report
}

// poolMessage summarizes connection pool pressure.
func poolMessage(pool sql.DBStats) string {
	switch {
	case pool.MaxOpenConnections > 0 && pool.InUse >= pool.MaxOpenConnections:
		return "Connection pool exhausted."
	case pool.WaitCount > 0 && pool.WaitDuration > time.Second:
		return "Requests are waiting for database connections."
	default:
		return "It's healthy"
	}
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		log.Error().Err(err).Msg("Error getting underlying sql.DB for closing")
		return err
	}
	log.Info().Str("database", s.name).Msg("Closing connection pool")
	return sqlDB.Close()
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
