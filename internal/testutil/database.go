package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Tomlord1122/todoapp/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// AcquireDatabase opens a migrated in-memory sqlite database private to t.
func AcquireDatabase(t testing.TB) database.Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	svc, err := database.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := svc.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() {
		_ = svc.Close()
	})
	return svc
}
