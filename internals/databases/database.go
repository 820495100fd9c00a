package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"lms_backend/internals/configs"
)

// Seeder dijalankan sekali di dalam write transaction saat Open.
// Error dari seeder membatalkan Open.
type Seeder func(ctx context.Context, tx *gorm.DB) error

// Store: satu handle DB untuk seluruh proses (per dialect+DSN).
// Semua penulisan lewat Write (satu writer), pembacaan lewat Read (snapshot).
type Store struct {
	DB *gorm.DB

	key     string
	dialect string
	writeMu sync.Mutex
}

var (
	registryMu sync.Mutex
	registry   = map[string]*Store{}
)

// Open idempotent: konfigurasi yang sama mengembalikan handle yang sama.
// Urutan: connect → ping → tune pool → migrate → seed → register.
func Open(ctx context.Context, cfg configs.DatabaseConfig, seed Seeder) (*Store, error) {
	key := cfg.Dialect + "|" + cfg.DSN

	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[key]; ok {
		return s, nil
	}

	log.Printf("🔌 Membuka cache %s (%s)...", cfg.Dialect, redactDSN(cfg))

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, &StoreOpenError{Op: "dialect", Err: err}
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         configs.NewGormLogger(cfg.LogLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, &StoreOpenError{Op: "connect", Err: err}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, &StoreOpenError{Op: "connect", Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, &StoreOpenError{Op: "ping", Err: err}
	}
	TunePool(sqlDB, cfg)

	s := &Store{DB: db, key: key, dialect: cfg.Dialect}

	if err := migrate(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, &StoreOpenError{Op: "migrate", Err: err}
	}

	if seed != nil {
		if err := s.Write(ctx, func(tx *gorm.DB) error { return seed(ctx, tx) }); err != nil {
			_ = sqlDB.Close()
			return nil, &StoreOpenError{Op: "seed", Err: err}
		}
	}

	registry[key] = s
	log.Println("✅ Cache siap dipakai.")
	return s, nil
}

// TunePool: sqlite cukup beberapa koneksi (satu writer + pembaca WAL).
func TunePool(sqlDB *sql.DB, cfg configs.DatabaseConfig) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		if cfg.Dialect == DialectSQLite {
			maxOpen = 4
		} else {
			maxOpen = 20
		}
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

type txKey struct{ s *Store }

func (s *Store) txFrom(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{s}).(*gorm.DB)
	return tx, ok
}

// Write menjalankan fn dalam satu transaksi; hanya satu writer dalam satu waktu.
// Context hanya dipakai untuk value, transaksi lokal tidak dibatalkan di tengah jalan.
// Di dalam Atomic, Write memakai transaksi yang sedang berjalan (savepoint).
func (s *Store) Write(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if tx, ok := s.txFrom(ctx); ok {
		return tx.Transaction(fn)
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.DB.WithContext(context.WithoutCancel(ctx)).Transaction(fn)
}

// Atomic menggabungkan beberapa panggilan accessor ke satu transaksi:
// accessor yang dipanggil dengan ctx dari fn ikut transaksi yang sama.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := s.txFrom(ctx); ok {
		return fn(ctx)
	}
	return s.Write(ctx, func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{s}, tx))
	})
}

// Read memberi snapshot konsisten untuk fn. Tidak menunggu writeMu.
func (s *Store) Read(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if tx, ok := s.txFrom(ctx); ok {
		return fn(tx)
	}
	db := s.DB.WithContext(context.WithoutCancel(ctx))
	if s.dialect == DialectSQLite {
		// WAL: transaksi baca melihat snapshot saat SELECT pertama
		return db.Transaction(fn)
	}
	return db.Transaction(fn, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Dialect() string { return s.dialect }

// Close melepas handle dan menghapusnya dari registry.
func (s *Store) Close() error {
	registryMu.Lock()
	defer registryMu.Unlock()
	return s.closeLocked()
}

func (s *Store) closeLocked() error {
	if registry[s.key] == s {
		delete(registry, s.key)
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CloseAll menutup semua store yang terdaftar (dipakai saat shutdown).
func CloseAll() error {
	registryMu.Lock()
	defer registryMu.Unlock()

	var errs error
	for _, s := range registry {
		errs = multierr.Append(errs, s.closeLocked())
	}
	return errs
}

func redactDSN(cfg configs.DatabaseConfig) string {
	if cfg.Dialect == DialectSQLite {
		return cfg.DSN
	}
	return fmt.Sprintf("%d chars", len(cfg.DSN))
}
