package database

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lms_backend/internals/configs"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

// pragma wajib untuk cache lokal: FK aktif, tunggu lock, WAL untuk pembaca paralel
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

func dialectorFor(cfg configs.DatabaseConfig) (gorm.Dialector, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("DSN kosong untuk dialect %q", cfg.Dialect)
	}

	switch cfg.Dialect {
	case DialectSQLite, "":
		return sqlite.Open(SQLiteDSN(cfg.DSN)), nil
	case DialectPostgres:
		return postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), nil
	case DialectMySQL:
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("dialect %q tidak dikenal", cfg.Dialect)
	}
}

// SQLiteDSN menambahkan pragma bila path belum membawa query string sendiri.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + sep + sqlitePragmas
}
