// Package dbtest opens a migrated, theme-seeded sqlite database for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"feedbackboard/internal/db"
	"feedbackboard/internal/insight"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Open(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "feedback.db")
	gdb, err := db.Open(sqlite.Open(path + "?_busy_timeout=5000"))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	if err := db.SeedThemes(gdb); err != nil {
		tb.Fatalf("seed themes: %v", err)
	}
	return gdb
}

// Theme returns the seeded theme with the given name.
func Theme(tb testing.TB, gdb *gorm.DB, name string) insight.Theme {
	tb.Helper()
	var t insight.Theme
	if err := gdb.Where("name = ?", name).First(&t).Error; err != nil {
		tb.Fatalf("theme %q: %v", name, err)
	}
	return t
}
