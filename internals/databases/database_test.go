package database_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lms_backend/internals/configs"
	database "lms_backend/internals/databases"
	"lms_backend/internals/databases/databasetest"
	departmentModel "lms_backend/internals/features/academics/departments/model"
	"lms_backend/internals/seeds"
)

func TestOpenIsIdempotentPerConfig(t *testing.T) {
	cfg := databasetest.Config(t)
	first := databasetest.Open(t, cfg)

	second, err := database.Open(context.Background(), cfg, seeds.RunAllSeeds)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestOpenConcurrentFirstOpenReturnsOneHandle(t *testing.T) {
	cfg := databasetest.Config(t)

	var wg sync.WaitGroup
	handles := make([]*database.Store, 8)
	errs := make([]error, 8)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = database.Open(context.Background(), cfg, seeds.RunAllSeeds)
		}(i)
	}
	wg.Wait()

	for i := range handles {
		require.NoError(t, errs[i])
		assert.Same(t, handles[0], handles[i])
	}
	t.Cleanup(func() { _ = handles[0].Close() })

	var n int64
	require.NoError(t, handles[0].DB.Model(&departmentModel.DepartmentModel{}).Count(&n).Error)
	assert.EqualValues(t, 12, n)
}

func TestOpenCorruptFileFails(t *testing.T) {
	cfg := databasetest.Config(t)
	garbage := make([]byte, 8192)
	for i := range garbage {
		garbage[i] = byte('x')
	}
	require.NoError(t, os.WriteFile(cfg.DSN, garbage, 0o600))

	_, err := database.Open(context.Background(), cfg, seeds.RunAllSeeds)
	require.Error(t, err)

	var openErr *database.StoreOpenError
	require.ErrorAs(t, err, &openErr)
	assert.NotEmpty(t, openErr.Op)
}

func TestOpenUnknownDialectFails(t *testing.T) {
	cfg := configs.DatabaseConfig{Dialect: "oracle", DSN: "whatever"}

	_, err := database.Open(context.Background(), cfg, nil)

	var openErr *database.StoreOpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, "dialect", openErr.Op)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	cfg := databasetest.Config(t)
	s, err := database.Open(context.Background(), cfg, seeds.RunAllSeeds)
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&database.SchemaVersionModel{
			Version:   database.LatestSchemaVersion() + 1,
			Name:      "from_the_future",
			AppliedAt: time.Now().UTC(),
		}).Error
	}))
	require.NoError(t, s.Close())

	_, err = database.Open(context.Background(), cfg, seeds.RunAllSeeds)

	var openErr *database.StoreOpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, "migrate", openErr.Op)
	assert.ErrorIs(t, err, database.ErrSchemaTooNew)
}

func TestOpenSeedFailureLeavesNoPartialCatalog(t *testing.T) {
	cfg := databasetest.Config(t)
	boom := errors.New("boom")

	_, err := database.Open(context.Background(), cfg, func(ctx context.Context, tx *gorm.DB) error {
		if err := seeds.RunAllSeeds(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	var openErr *database.StoreOpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, "seed", openErr.Op)
	assert.ErrorIs(t, err, boom)

	// gagal seed tidak meninggalkan handle terdaftar maupun katalog setengah jadi
	s, err := database.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var n int64
	require.NoError(t, s.DB.Model(&departmentModel.DepartmentModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSchemaVersionIsLatestAfterOpen(t *testing.T) {
	s := databasetest.NewStore(t)

	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, database.LatestSchemaVersion(), v)
	require.NoError(t, s.Ping(context.Background()))
}

func TestReopenKeepsData(t *testing.T) {
	cfg := databasetest.Config(t)
	s, err := database.Open(context.Background(), cfg, seeds.RunAllSeeds)
	require.NoError(t, err)

	var before []departmentModel.DepartmentModel
	require.NoError(t, s.DB.Order("id").Find(&before).Error)
	require.NoError(t, s.Close())

	s = databasetest.Open(t, cfg)
	var after []departmentModel.DepartmentModel
	require.NoError(t, s.DB.Order("id").Find(&after).Error)
	assert.Equal(t, before, after)
}

func TestWriteRollsBackOnError(t *testing.T) {
	s := databasetest.NewStore(t)
	boom := errors.New("boom")

	err := s.Write(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&departmentModel.DepartmentModel{Name: "Philosophy"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, s.DB.Model(&departmentModel.DepartmentModel{}).Where("name = ?", "Philosophy").Count(&n).Error)
	assert.Zero(t, n)
}

func TestWriteIgnoresCancelledContext(t *testing.T) {
	s := databasetest.NewStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Write(ctx, func(tx *gorm.DB) error {
		return tx.Create(&departmentModel.DepartmentModel{Name: "Philosophy"}).Error
	})
	require.NoError(t, err)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"gorm duplicated", gorm.ErrDuplicatedKey, database.ErrConstraintViolation},
		{"gorm fk", gorm.ErrForeignKeyViolated, database.ErrConstraintViolation},
		{"gorm not found", gorm.ErrRecordNotFound, database.ErrNotFound},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, database.ErrConstraintViolation},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, database.ErrConstraintViolation},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, database.ErrConstraintViolation},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), database.ErrConstraintViolation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, database.Classify(tc.err), tc.want)
		})
	}

	plain := errors.New("disk I/O error")
	assert.Same(t, plain, database.Classify(plain))
	assert.NoError(t, database.Classify(nil))
}

func TestWriteErrorWrapsSentinel(t *testing.T) {
	err := database.NewWriteError("insert", "user", gorm.ErrDuplicatedKey)

	var we *database.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "insert", we.Op)
	assert.Equal(t, "user", we.Entity)
	assert.ErrorIs(t, err, database.ErrConstraintViolation)
	assert.NoError(t, database.NewWriteError("insert", "user", nil))
}

func TestSQLiteDSN(t *testing.T) {
	dsn := database.SQLiteDSN(filepath.Join("tmp", "a.db"))
	assert.Contains(t, dsn, "_pragma=foreign_keys(1)")
	assert.Contains(t, dsn, "journal_mode(WAL)")

	custom := "file:x.db?_pragma=foreign_keys(1)"
	assert.Equal(t, custom, database.SQLiteDSN(custom))
}

func TestAtomicSpansSeveralWrites(t *testing.T) {
	s := databasetest.NewStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Atomic(ctx, func(ctx context.Context) error {
		if err := s.Write(ctx, func(tx *gorm.DB) error {
			return tx.Create(&departmentModel.DepartmentModel{Name: "Philosophy"}).Error
		}); err != nil {
			return err
		}
		// pembacaan di dalam Atomic melihat tulisan sendiri
		var n int64
		if err := s.Read(ctx, func(tx *gorm.DB) error {
			return tx.Model(&departmentModel.DepartmentModel{}).Where("name = ?", "Philosophy").Count(&n).Error
		}); err != nil {
			return err
		}
		if n != 1 {
			return errors.New("write tidak terlihat di dalam transaksi")
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, s.DB.Model(&departmentModel.DepartmentModel{}).Where("name = ?", "Philosophy").Count(&n).Error)
	assert.Zero(t, n)
}

func TestInvalidEntityIsConstraintViolation(t *testing.T) {
	err := database.InvalidEntity("insert", "course", errors.New("Title: wajib diisi"))
	assert.ErrorIs(t, err, database.ErrInvalidEntity)
	assert.ErrorIs(t, err, database.ErrConstraintViolation)
	assert.Contains(t, err.Error(), "Title: wajib diisi")

	dup := database.NewWriteError("insert", "user", gorm.ErrDuplicatedKey)
	assert.NotErrorIs(t, dup, database.ErrInvalidEntity)
}
