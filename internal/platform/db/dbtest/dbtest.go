// Package dbtest builds gorm handles for tests: dry-run handles that render SQL
// without a database, and migrated SQLite databases in a temp dir.
package dbtest

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fatflowers/vcard/internal/platform/db"
	cfgpkg "github.com/fatflowers/vcard/pkg/config"
)

// DryRun returns a postgres-dialect handle in dry-run mode. Statements are
// built but never sent; inspect them via tx.Statement.SQL or CaptureSQL.
// Default transactions are skipped since beginning one needs a connection.
func DryRun(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

// Statements collects the SQL rendered by a handle.
type Statements struct {
	mu   sync.Mutex
	list []string
}

func (s *Statements) add(tx *gorm.DB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, tx.Statement.SQL.String())
}

// All returns the captured statements in execution order.
func (s *Statements) All() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.list...)
}

// Last returns the most recent statement, or "" when none ran.
func (s *Statements) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.list) == 0 {
		return ""
	}
	return s.list[len(s.list)-1]
}

// CaptureSQL records every create, query, update and delete statement built on db.
func CaptureSQL(t testing.TB, db *gorm.DB) *Statements {
	t.Helper()
	st := &Statements{}
	cb := db.Callback()
	register := func(err error) {
		if err != nil {
			t.Fatalf("register capture callback: %v", err)
		}
	}
	register(cb.Create().After("gorm:create").Register("dbtest:capture_create", st.add))
	register(cb.Query().After("gorm:query").Register("dbtest:capture_query", st.add))
	register(cb.Update().After("gorm:update").Register("dbtest:capture_update", st.add))
	register(cb.Delete().After("gorm:delete").Register("dbtest:capture_delete", st.add))
	return st
}

// SQLite opens a migrated database file under t.TempDir. It runs the same
// migrations as the service, so queries exercise the real schema.
func SQLite(t testing.TB) *gorm.DB {
	t.Helper()
	// transactions take the write lock at BEGIN; concurrent writers wait on busy_timeout
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate&_time_format=sqlite", filepath.Join(t.TempDir(), "vcard.db"))
	dialector, err := db.Dialector(cfgpkg.DBConfig{Driver: cfgpkg.DBDriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("sqlite dialector: %v", err)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sqlite pool: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(zap.NewNop().Sugar(), gdb); err != nil {
		t.Fatalf("migrate sqlite db: %v", err)
	}
	return gdb
}
