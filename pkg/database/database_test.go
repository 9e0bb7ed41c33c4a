package database

import (
	"context"
	"path/filepath"
	"testing"

	"algotutor-go/internal/config"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenGormSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tutor.db")

	db, err := OpenGorm(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: path},
	})
	if err != nil {
		t.Fatalf("OpenGorm() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	if err := sqlDB.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestOpenGormRejectsMemoryDriver(t *testing.T) {
	if _, err := OpenGorm(config.DatabaseConfig{Driver: config.DriverMemory}); err == nil {
		t.Fatal("expected an error for the memory driver")
	}
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer func() { _ = rdb.Close() }()
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedis(context.Background(), config.RedisConfig{Addr: addr}); err == nil {
		t.Fatal("expected an error for an unreachable redis")
	}
}
