package accessor

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/announcements/model"
)

// Announcements: listing selalu urut timestamp ASC, seri dipecah urutan insert.
type Announcements interface {
	Insert(ctx context.Context, a *model.AnnouncementModel) (string, error)
	Update(ctx context.Context, a *model.AnnouncementModel) error
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, items ...model.AnnouncementModel) error

	GetByID(ctx context.Context, id string) (*model.AnnouncementModel, error)
	ListAll(ctx context.Context) ([]model.AnnouncementModel, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.AnnouncementModel, error)
}

type announcementAccessor struct {
	store *database.Store
}

func NewAnnouncements(store *database.Store) Announcements {
	return &announcementAccessor{store: store}
}

const (
	entityAnnouncement = "announcement"
	orderAnnouncements = "timestamp ASC, inserted_at ASC"
)

func (r *announcementAccessor) Insert(ctx context.Context, a *model.AnnouncementModel) (string, error) {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	if err := a.Validate(); err != nil {
		return "", database.InvalidEntity("insert", entityAnnouncement, err)
	}
	err := r.store.Write(ctx, func(tx *gorm.DB) error { return tx.Omit(clause.Associations).Create(a).Error })
	if err != nil {
		return "", database.NewWriteError("insert", entityAnnouncement, err)
	}
	return a.ID, nil
}

func (r *announcementAccessor) Update(ctx context.Context, a *model.AnnouncementModel) error {
	if err := a.Validate(); err != nil {
		return database.InvalidEntity("update", entityAnnouncement, err)
	}
	err := r.store.Write(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.AnnouncementModel{}).Where("id = ?", a.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return database.NotFound("update", entityAnnouncement, a.ID)
		}
		return tx.Model(&model.AnnouncementModel{}).Where("id = ?", a.ID).Updates(map[string]any{
			"title":       a.Title,
			"content":     a.Content,
			"author_id":   a.AuthorID,
			"author_name": a.AuthorName,
			"timestamp":   a.Timestamp,
			"course_id":   a.CourseID,
		}).Error
	})
	return database.NewWriteError("update", entityAnnouncement, err)
}

func (r *announcementAccessor) Delete(ctx context.Context, id string) error {
	err := r.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&model.AnnouncementModel{}).Error
	})
	return database.NewWriteError("delete", entityAnnouncement, err)
}

// Upsert: inserted_at baris lama dipertahankan supaya urutan seri stabil.
func (r *announcementAccessor) Upsert(ctx context.Context, items ...model.AnnouncementModel) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return database.InvalidEntity("upsert", entityAnnouncement, err)
		}
	}
	onID := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "author_id", "author_name", "timestamp", "course_id"}),
	}
	err := r.store.Write(ctx, func(tx *gorm.DB) error {
		// satu per satu agar inserted_at tiap baris berbeda
		for i := range items {
			if err := tx.Omit(clause.Associations).Clauses(onID).Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return database.NewWriteError("upsert", entityAnnouncement, err)
}

func (r *announcementAccessor) GetByID(ctx context.Context, id string) (*model.AnnouncementModel, error) {
	var a model.AnnouncementModel
	if err := r.store.Read(ctx, func(tx *gorm.DB) error { return tx.Where("id = ?", id).First(&a).Error }); err != nil {
		return nil, database.Classify(err)
	}
	return &a, nil
}

func (r *announcementAccessor) ListAll(ctx context.Context) ([]model.AnnouncementModel, error) {
	var out []model.AnnouncementModel
	err := r.store.Read(ctx, func(tx *gorm.DB) error { return tx.Order(orderAnnouncements).Find(&out).Error })
	return out, err
}

func (r *announcementAccessor) ListByCourse(ctx context.Context, courseID uint) ([]model.AnnouncementModel, error) {
	var out []model.AnnouncementModel
	err := r.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Where("course_id = ?", courseID).Order(orderAnnouncements).Find(&out).Error
	})
	return out, err
}
