package repository

import (
	"context"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/departments/accessor"
	"lms_backend/internals/features/academics/departments/model"
	"lms_backend/internals/helpers/state"
)

// CatalogRepository: katalog department/level hasil seeding. Cache-only,
// jadi state langsung Success/Empty tanpa Loading.
type CatalogRepository interface {
	Departments(ctx context.Context) *state.Stream[[]model.DepartmentModel]
	Levels(ctx context.Context) *state.Stream[[]model.LevelModel]
	LevelsForDepartment(ctx context.Context, departmentID uint) *state.Stream[[]model.LevelModel]
	DepartmentsForLevel(ctx context.Context, levelID uint) *state.Stream[[]model.DepartmentModel]
}

type catalogRepository struct {
	departments accessor.Departments
	levels      accessor.Levels
	links       accessor.DepartmentLevels
}

func NewCatalogRepository(store *database.Store) CatalogRepository {
	return &catalogRepository{
		departments: accessor.NewDepartments(store),
		levels:      accessor.NewLevels(store),
		links:       accessor.NewDepartmentLevels(store),
	}
}

func (r *catalogRepository) Departments(ctx context.Context) *state.Stream[[]model.DepartmentModel] {
	list, err := r.departments.ListAll(ctx)
	return state.Local(list, err, state.EmptySlice[model.DepartmentModel])
}

func (r *catalogRepository) Levels(ctx context.Context) *state.Stream[[]model.LevelModel] {
	list, err := r.levels.ListAll(ctx)
	return state.Local(list, err, state.EmptySlice[model.LevelModel])
}

func (r *catalogRepository) LevelsForDepartment(ctx context.Context, departmentID uint) *state.Stream[[]model.LevelModel] {
	list, err := r.links.LevelsForDepartment(ctx, departmentID)
	return state.Local(list, err, state.EmptySlice[model.LevelModel])
}

func (r *catalogRepository) DepartmentsForLevel(ctx context.Context, levelID uint) *state.Stream[[]model.DepartmentModel] {
	list, err := r.links.DepartmentsForLevel(ctx, levelID)
	return state.Local(list, err, state.EmptySlice[model.DepartmentModel])
}
