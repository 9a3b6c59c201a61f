package database

import (
	"context"
	"testing"
	"time"

	"github.com/Tomlord1122/todoapp/internal/config"
	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func mustStartPostgresContainer(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port.Port(),
		User:     dbUser,
		Password: dbPwd,
		Name:     dbName,
		LogLevel: "silent",
	}
}

func TestPostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	cfg := mustStartPostgresContainer(t)

	svc, err := New(cfg)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "up", svc.Health(context.Background())["status"])
	require.NoError(t, svc.Migrate())

	user := domain.User{Email: "pg@example.com", HashedPassword: "x", IsActive: true}
	require.NoError(t, svc.GetDB().Create(&user).Error)

	todo := domain.Todo{Task: "fast_api", Description: "learn fast api", Priority: 5, OwnerID: user.ID}
	require.NoError(t, svc.GetDB().Create(&todo).Error)

	var got domain.Todo
	require.NoError(t, svc.GetDB().Where("owner_id = ?", user.ID).First(&got).Error)
	assert.Equal(t, "fast_api", got.Task)
	assert.False(t, got.Completed)
}
