package accessor

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "lms_backend/internals/databases"
	courseModel "lms_backend/internals/features/academics/courses/model"
	"lms_backend/internals/features/users/user/model"
)

// Users: CRUD + query relasi untuk tabel users.
type Users interface {
	Insert(ctx context.Context, u *model.UserModel) (string, error)
	Update(ctx context.Context, u *model.UserModel) error
	Delete(ctx context.Context, id string) error
	// Upsert menulis ulang baris dari remote (write-through).
	Upsert(ctx context.Context, users ...model.UserModel) error

	GetByID(ctx context.Context, id string) (*model.UserModel, error)
	GetByEmail(ctx context.Context, email string) (*model.UserModel, error)
	GetByUsername(ctx context.Context, username string) (*model.UserModel, error)
	GetByResetToken(ctx context.Context, token string) (*model.UserModel, error)
	ListAll(ctx context.Context) ([]model.UserModel, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.UserModel, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.UserModel, error)
}

type userAccessor struct {
	store *database.Store
}

func NewUsers(store *database.Store) Users {
	return &userAccessor{store: store}
}

const entityUser = "user"

func (a *userAccessor) Insert(ctx context.Context, u *model.UserModel) (string, error) {
	if strings.TrimSpace(u.ID) == "" {
		u.ID = uuid.NewString()
	}
	if err := u.Validate(); err != nil {
		return "", database.InvalidEntity("insert", entityUser, err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	if err != nil {
		return "", database.NewWriteError("insert", entityUser, err)
	}
	return u.ID, nil
}

func (a *userAccessor) Update(ctx context.Context, u *model.UserModel) error {
	if err := u.Validate(); err != nil {
		return database.InvalidEntity("update", entityUser, err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		var existing model.UserModel
		if err := tx.Select("id", "created_at").First(&existing, "id = ?", u.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return database.NotFound("update", entityUser, u.ID)
			}
			return err
		}
		u.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Select("*").Omit("id", "created_at").Updates(u).Error
	})
	return database.NewWriteError("update", entityUser, err)
}

// Delete: enrollment ikut terhapus, course yang diampu dilepas (lecturer_id NULL).
// Key yang tidak ada dianggap sukses.
func (a *userAccessor) Delete(ctx context.Context, id string) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&courseModel.UserCourseCrossRef{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&courseModel.CourseModel{}).
			Where("lecturer_id = ?", id).
			Update("lecturer_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.UserModel{}).Error
	})
	return database.NewWriteError("delete", entityUser, err)
}

func (a *userAccessor) Upsert(ctx context.Context, users ...model.UserModel) error {
	if len(users) == 0 {
		return nil
	}
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return database.InvalidEntity("upsert", entityUser, err)
		}
	}
	// password & reset token lokal tidak ditimpa data remote
	onID := clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_name", "email", "role", "phone", "date_of_birth", "sex", "avatar_url", "updated_at",
		}),
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(onID).Create(&users).Error
	})
	return database.NewWriteError("upsert", entityUser, err)
}

func (a *userAccessor) first(ctx context.Context, query string, args ...any) (*model.UserModel, error) {
	var u model.UserModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Where(query, args...).First(&u).Error
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return &u, nil
}

func (a *userAccessor) GetByID(ctx context.Context, id string) (*model.UserModel, error) {
	return a.first(ctx, "id = ?", id)
}

func (a *userAccessor) GetByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	return a.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (a *userAccessor) GetByUsername(ctx context.Context, username string) (*model.UserModel, error) {
	return a.first(ctx, "user_name = ?", strings.TrimSpace(username))
}

func (a *userAccessor) GetByResetToken(ctx context.Context, token string) (*model.UserModel, error) {
	return a.first(ctx, "reset_token = ?", token)
}

func (a *userAccessor) list(ctx context.Context, scope func(tx *gorm.DB) *gorm.DB) ([]model.UserModel, error) {
	var out []model.UserModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return scope(tx).Order("users.user_name ASC").Find(&out).Error
	})
	return out, err
}

func (a *userAccessor) ListAll(ctx context.Context) ([]model.UserModel, error) {
	return a.list(ctx, func(tx *gorm.DB) *gorm.DB { return tx })
}

func (a *userAccessor) ListByRole(ctx context.Context, role model.Role) ([]model.UserModel, error) {
	return a.list(ctx, func(tx *gorm.DB) *gorm.DB { return tx.Where("role = ?", role) })
}

func (a *userAccessor) ListByCourse(ctx context.Context, courseID uint) ([]model.UserModel, error) {
	return a.list(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN user_course_cross_refs ucr ON ucr.user_id = users.id").
			Where("ucr.course_id = ?", courseID)
	})
}
