package accessor

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/assignments/model"
)

type Assignments interface {
	Insert(ctx context.Context, a *model.AssignmentModel) (string, error)
	Update(ctx context.Context, a *model.AssignmentModel) error
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, items ...model.AssignmentModel) error

	GetByID(ctx context.Context, id string) (*model.AssignmentModel, error)
	ListAll(ctx context.Context) ([]model.AssignmentModel, error)
	// ListByCourse urut due_date terdekat dulu.
	ListByCourse(ctx context.Context, courseID uint) ([]model.AssignmentModel, error)
}

type assignmentAccessor struct {
	store *database.Store
}

func NewAssignments(store *database.Store) Assignments {
	return &assignmentAccessor{store: store}
}

const entityAssignment = "assignment"

func (r *assignmentAccessor) Insert(ctx context.Context, a *model.AssignmentModel) (string, error) {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = uuid.NewString()
	}
	if err := a.Validate(); err != nil {
		return "", database.InvalidEntity("insert", entityAssignment, err)
	}
	err := r.store.Write(ctx, func(tx *gorm.DB) error { return tx.Omit(clause.Associations).Create(a).Error })
	if err != nil {
		return "", database.NewWriteError("insert", entityAssignment, err)
	}
	return a.ID, nil
}

func (r *assignmentAccessor) Update(ctx context.Context, a *model.AssignmentModel) error {
	if err := a.Validate(); err != nil {
		return database.InvalidEntity("update", entityAssignment, err)
	}
	err := r.store.Write(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.AssignmentModel{}).Where("id = ?", a.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return database.NotFound("update", entityAssignment, a.ID)
		}
		return tx.Model(&model.AssignmentModel{}).Where("id = ?", a.ID).Updates(map[string]any{
			"title":       a.Title,
			"description": a.Description,
			"due_date":    a.DueDate,
			"course_id":   a.CourseID,
		}).Error
	})
	return database.NewWriteError("update", entityAssignment, err)
}

func (r *assignmentAccessor) Delete(ctx context.Context, id string) error {
	err := r.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&model.AssignmentModel{}).Error
	})
	return database.NewWriteError("delete", entityAssignment, err)
}

func (r *assignmentAccessor) Upsert(ctx context.Context, items ...model.AssignmentModel) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return database.InvalidEntity("upsert", entityAssignment, err)
		}
	}
	err := r.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
			Create(&items).Error
	})
	return database.NewWriteError("upsert", entityAssignment, err)
}

func (r *assignmentAccessor) GetByID(ctx context.Context, id string) (*model.AssignmentModel, error) {
	var a model.AssignmentModel
	if err := r.store.Read(ctx, func(tx *gorm.DB) error { return tx.Where("id = ?", id).First(&a).Error }); err != nil {
		return nil, database.Classify(err)
	}
	return &a, nil
}

func (r *assignmentAccessor) ListAll(ctx context.Context) ([]model.AssignmentModel, error) {
	var out []model.AssignmentModel
	err := r.store.Read(ctx, func(tx *gorm.DB) error { return tx.Order("due_date ASC, id ASC").Find(&out).Error })
	return out, err
}

func (r *assignmentAccessor) ListByCourse(ctx context.Context, courseID uint) ([]model.AssignmentModel, error) {
	var out []model.AssignmentModel
	err := r.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Where("course_id = ?", courseID).Order("due_date ASC, id ASC").Find(&out).Error
	})
	return out, err
}
