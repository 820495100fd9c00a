// Package databasetest membuka Store SQLite sementara yang sudah di-seed.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"lms_backend/internals/configs"
	database "lms_backend/internals/databases"
	"lms_backend/internals/seeds"
)

// Config untuk file sqlite baru di t.TempDir().
func Config(t testing.TB) configs.DatabaseConfig {
	t.Helper()
	return configs.DatabaseConfig{
		Dialect:  database.DialectSQLite,
		DSN:      filepath.Join(t.TempDir(), "cache.db"),
		LogLevel: "silent",
	}
}

// NewStore: Store baru + seed katalog, ditutup otomatis lewat t.Cleanup.
func NewStore(t testing.TB) *database.Store {
	t.Helper()
	return Open(t, Config(t))
}

func Open(t testing.TB, cfg configs.DatabaseConfig) *database.Store {
	t.Helper()
	s, err := database.Open(context.Background(), cfg, seeds.RunAllSeeds)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
