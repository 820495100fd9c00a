package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	announcementModel "lms_backend/internals/features/academics/announcements/model"
	assignmentModel "lms_backend/internals/features/academics/assignments/model"
	courseModel "lms_backend/internals/features/academics/courses/model"
	departmentModel "lms_backend/internals/features/academics/departments/model"
	chatModel "lms_backend/internals/features/chats/chat/model"
	userModel "lms_backend/internals/features/users/user/model"
)

// ErrSchemaTooNew: file dibuat oleh versi aplikasi yang lebih baru.
var ErrSchemaTooNew = errors.New("schema version lebih baru dari yang dikenal aplikasi")

type SchemaVersionModel struct {
	Version   int       `gorm:"column:version;primaryKey;autoIncrement:false"`
	Name      string    `gorm:"column:name;size:120;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (SchemaVersionModel) TableName() string { return "schema_versions" }

type migration struct {
	version int
	name    string
	up      func(tx *gorm.DB) error
}

// urutan tidak boleh diubah; tambahkan step baru di akhir
var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&userModel.UserModel{},
				&departmentModel.DepartmentModel{},
				&departmentModel.LevelModel{},
				&departmentModel.DepartmentLevelCrossRef{},
				&courseModel.CourseModel{},
				&courseModel.UserCourseCrossRef{},
				&announcementModel.AnnouncementModel{},
				&assignmentModel.AssignmentModel{},
				&chatModel.ChatModel{},
				&chatModel.ChatMessageModel{},
			)
		},
	},
	{
		version: 2,
		name:    "chat_messages_sender_index",
		up: func(tx *gorm.DB) error {
			if tx.Migrator().HasIndex(&chatModel.ChatMessageModel{}, "idx_chat_messages_sender") {
				return nil
			}
			return tx.Exec("CREATE INDEX idx_chat_messages_sender ON chat_messages (sender_id)").Error
		},
	},
}

// LatestSchemaVersion versi layout yang dihasilkan kode ini.
func LatestSchemaVersion() int { return migrations[len(migrations)-1].version }

func currentVersion(db *gorm.DB) (int, error) {
	var v int
	err := db.Model(&SchemaVersionModel{}).Select("COALESCE(MAX(version), 0)").Scan(&v).Error
	return v, err
}

// migrate menaikkan layout step demi step; layout lebih baru ditolak.
func migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&SchemaVersionModel{}); err != nil {
		return fmt.Errorf("schema_versions: %w", err)
	}

	cur, err := currentVersion(db)
	if err != nil {
		return fmt.Errorf("baca schema version: %w", err)
	}
	latest := LatestSchemaVersion()
	if cur > latest {
		return fmt.Errorf("%w: file v%d, aplikasi v%d", ErrSchemaTooNew, cur, latest)
	}

	for _, m := range migrations {
		if m.version <= cur {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaVersionModel{
				Version:   m.version,
				Name:      m.name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("migrasi v%d (%s): %w", m.version, m.name, err)
		}
		log.Printf("[INFO] migrasi v%d %s selesai", m.version, m.name)
	}
	return nil
}

// SchemaVersion versi layout yang tercatat di file.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.Read(ctx, func(tx *gorm.DB) error {
		var err error
		v, err = currentVersion(tx)
		return err
	})
	return v, err
}
