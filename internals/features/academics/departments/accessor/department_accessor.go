package accessor

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/departments/model"
)

/* =========================
   Departments
========================= */

type Departments interface {
	Insert(ctx context.Context, d *model.DepartmentModel) (uint, error)
	Update(ctx context.Context, d *model.DepartmentModel) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.DepartmentModel, error)
	GetByName(ctx context.Context, name string) (*model.DepartmentModel, error)
	ListAll(ctx context.Context) ([]model.DepartmentModel, error)
}

type departmentAccessor struct {
	store *database.Store
}

func NewDepartments(store *database.Store) Departments {
	return &departmentAccessor{store: store}
}

func (a *departmentAccessor) Insert(ctx context.Context, d *model.DepartmentModel) (uint, error) {
	if err := d.Validate(); err != nil {
		return 0, database.InvalidEntity("insert", "department", err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error { return tx.Create(d).Error })
	if err != nil {
		return 0, database.NewWriteError("insert", "department", err)
	}
	return d.ID, nil
}

func (a *departmentAccessor) Update(ctx context.Context, d *model.DepartmentModel) error {
	if err := d.Validate(); err != nil {
		return database.InvalidEntity("update", "department", err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return updateExisting(tx, &model.DepartmentModel{}, d.ID, map[string]any{"name": d.Name}, "department")
	})
	return database.NewWriteError("update", "department", err)
}

// Delete: cross-ref ikut terhapus; course tetap (hanya menyimpan id department).
func (a *departmentAccessor) Delete(ctx context.Context, id uint) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("department_id = ?", id).Delete(&model.DepartmentLevelCrossRef{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DepartmentModel{}, id).Error
	})
	return database.NewWriteError("delete", "department", err)
}

func (a *departmentAccessor) GetByID(ctx context.Context, id uint) (*model.DepartmentModel, error) {
	var d model.DepartmentModel
	if err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.First(&d, id).Error }); err != nil {
		return nil, database.Classify(err)
	}
	return &d, nil
}

func (a *departmentAccessor) GetByName(ctx context.Context, name string) (*model.DepartmentModel, error) {
	var d model.DepartmentModel
	if err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.Where("name = ?", name).First(&d).Error }); err != nil {
		return nil, database.Classify(err)
	}
	return &d, nil
}

func (a *departmentAccessor) ListAll(ctx context.Context) ([]model.DepartmentModel, error) {
	var out []model.DepartmentModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.Order("id ASC").Find(&out).Error })
	return out, err
}

/* =========================
   Levels
========================= */

type Levels interface {
	Insert(ctx context.Context, l *model.LevelModel) (uint, error)
	Update(ctx context.Context, l *model.LevelModel) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.LevelModel, error)
	GetByName(ctx context.Context, name string) (*model.LevelModel, error)
	ListAll(ctx context.Context) ([]model.LevelModel, error)
}

type levelAccessor struct {
	store *database.Store
}

func NewLevels(store *database.Store) Levels {
	return &levelAccessor{store: store}
}

func (a *levelAccessor) Insert(ctx context.Context, l *model.LevelModel) (uint, error) {
	if err := l.Validate(); err != nil {
		return 0, database.InvalidEntity("insert", "level", err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error { return tx.Create(l).Error })
	if err != nil {
		return 0, database.NewWriteError("insert", "level", err)
	}
	return l.ID, nil
}

func (a *levelAccessor) Update(ctx context.Context, l *model.LevelModel) error {
	if err := l.Validate(); err != nil {
		return database.InvalidEntity("update", "level", err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return updateExisting(tx, &model.LevelModel{}, l.ID, map[string]any{"name": l.Name}, "level")
	})
	return database.NewWriteError("update", "level", err)
}

func (a *levelAccessor) Delete(ctx context.Context, id uint) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("level_id = ?", id).Delete(&model.DepartmentLevelCrossRef{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.LevelModel{}, id).Error
	})
	return database.NewWriteError("delete", "level", err)
}

func (a *levelAccessor) GetByID(ctx context.Context, id uint) (*model.LevelModel, error) {
	var l model.LevelModel
	if err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.First(&l, id).Error }); err != nil {
		return nil, database.Classify(err)
	}
	return &l, nil
}

func (a *levelAccessor) GetByName(ctx context.Context, name string) (*model.LevelModel, error) {
	var l model.LevelModel
	if err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.Where("name = ?", name).First(&l).Error }); err != nil {
		return nil, database.Classify(err)
	}
	return &l, nil
}

func (a *levelAccessor) ListAll(ctx context.Context) ([]model.LevelModel, error) {
	var out []model.LevelModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.Order("id ASC").Find(&out).Error })
	return out, err
}

/* =========================
   Department ↔ Level
========================= */

type DepartmentLevels interface {
	// Insert pasangan yang sudah ada = sukses tanpa baris baru.
	Insert(ctx context.Context, departmentID, levelID uint) error
	Delete(ctx context.Context, departmentID, levelID uint) error
	ListAll(ctx context.Context) ([]model.DepartmentLevelCrossRef, error)
	LevelsForDepartment(ctx context.Context, departmentID uint) ([]model.LevelModel, error)
	DepartmentsForLevel(ctx context.Context, levelID uint) ([]model.DepartmentModel, error)
}

type departmentLevelAccessor struct {
	store *database.Store
}

func NewDepartmentLevels(store *database.Store) DepartmentLevels {
	return &departmentLevelAccessor{store: store}
}

func (a *departmentLevelAccessor) Insert(ctx context.Context, departmentID, levelID uint) error {
	link := model.DepartmentLevelCrossRef{DepartmentID: departmentID, LevelID: levelID}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	})
	return database.NewWriteError("insert", "department_level", err)
}

func (a *departmentLevelAccessor) Delete(ctx context.Context, departmentID, levelID uint) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Where("department_id = ? AND level_id = ?", departmentID, levelID).
			Delete(&model.DepartmentLevelCrossRef{}).Error
	})
	return database.NewWriteError("delete", "department_level", err)
}

func (a *departmentLevelAccessor) ListAll(ctx context.Context) ([]model.DepartmentLevelCrossRef, error) {
	var out []model.DepartmentLevelCrossRef
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Order("department_id ASC, level_id ASC").Find(&out).Error
	})
	return out, err
}

func (a *departmentLevelAccessor) LevelsForDepartment(ctx context.Context, departmentID uint) ([]model.LevelModel, error) {
	var out []model.LevelModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Joins("JOIN department_level_cross_refs dl ON dl.level_id = levels.id").
			Where("dl.department_id = ?", departmentID).
			Order("levels.id ASC").
			Find(&out).Error
	})
	return out, err
}

func (a *departmentLevelAccessor) DepartmentsForLevel(ctx context.Context, levelID uint) ([]model.DepartmentModel, error) {
	var out []model.DepartmentModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Joins("JOIN department_level_cross_refs dl ON dl.department_id = departments.id").
			Where("dl.level_id = ?", levelID).
			Order("departments.id ASC").
			Find(&out).Error
	})
	return out, err
}

// updateExisting: NotFound bila id tidak ada, selain itu update kolom yang diberikan.
func updateExisting(tx *gorm.DB, dst any, id uint, cols map[string]any, entity string) error {
	var n int64
	if err := tx.Model(dst).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return database.NotFound("update", entity, id)
	}
	return tx.Model(dst).Where("id = ?", id).Updates(cols).Error
}
