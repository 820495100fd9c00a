package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrConstraintViolation: pelanggaran unique / foreign key / validasi model.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrNotFound: key tidak ada (update / lookup).
	ErrNotFound = errors.New("not found")
	// ErrInvalidEntity: validasi model gagal sebelum menyentuh DB (bagian dari ErrConstraintViolation).
	ErrInvalidEntity = fmt.Errorf("%w (validasi)", ErrConstraintViolation)
)

// StoreOpenError: medium tidak bisa dibuka, korup, atau tidak bisa dimigrasi.
type StoreOpenError struct {
	Op  string
	Err error
}

func (e *StoreOpenError) Error() string {
	return fmt.Sprintf("store open gagal (%s): %v", e.Op, e.Err)
}

func (e *StoreOpenError) Unwrap() error { return e.Err }

// WriteError membungkus error di jalur mutasi (insert/update/delete).
type WriteError struct {
	Op     string
	Entity string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// NewWriteError mengklasifikasi err lalu membungkusnya; nil tetap nil.
func NewWriteError(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	var we *WriteError
	if errors.As(err, &we) {
		return err
	}
	return &WriteError{Op: op, Entity: entity, Err: Classify(err)}
}

// Classify menerjemahkan error driver ke sentinel paket ini.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConstraintViolation), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case IsConstraintError(err):
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}
	return err
}

// IsConstraintError: unique / FK / validasi, dari dialect mana pun.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 23503 foreign_key_violation, 23502 not_null
		return pgErr.Code == "23505" || pgErr.Code == "23503" || pgErr.Code == "23502"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// 1062 duplicate entry, 1451/1452 FK
		return myErr.Number == 1062 || myErr.Number == 1451 || myErr.Number == 1452
	}

	// sqlite (modernc) hanya memberi teks
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "foreign key constraint failed") ||
		strings.Contains(msg, "not null constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "constraint failed")
}

// InvalidEntity: validasi model gagal sebelum menyentuh DB.
func InvalidEntity(op, entity string, err error) error {
	return &WriteError{Op: op, Entity: entity, Err: fmt.Errorf("%w: %v", ErrInvalidEntity, err)}
}

// NotFound membangun WriteError untuk key yang tidak ada.
func NotFound(op, entity string, key any) error {
	return &WriteError{Op: op, Entity: entity, Err: fmt.Errorf("%w: %v", ErrNotFound, key)}
}
