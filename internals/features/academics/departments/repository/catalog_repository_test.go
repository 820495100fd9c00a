package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms_backend/internals/databases/databasetest"
	"lms_backend/internals/features/academics/departments/accessor"
	"lms_backend/internals/features/academics/departments/model"
	"lms_backend/internals/features/academics/departments/repository"
	"lms_backend/internals/helpers/state"
)

func TestCatalogServesSeededDataWithoutLoading(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCatalogRepository(databasetest.NewStore(t))

	st := repo.Departments(ctx)
	got, err := st.Wait(ctx)
	require.NoError(t, err)
	require.IsType(t, state.Success[[]model.DepartmentModel]{}, got)
	assert.Len(t, got.(state.Success[[]model.DepartmentModel]).Data, 12)
	assert.Len(t, st.History(), 1)

	levels, err := repo.Levels(ctx).Wait(ctx)
	require.NoError(t, err)
	assert.Len(t, levels.(state.Success[[]model.LevelModel]).Data, 5)
}

func TestCatalogLevelsForDepartment(t *testing.T) {
	ctx := context.Background()
	store := databasetest.NewStore(t)
	repo := repository.NewCatalogRepository(store)

	english, err := accessor.NewDepartments(store).GetByName(ctx, "English")
	require.NoError(t, err)
	cs, err := accessor.NewDepartments(store).GetByName(ctx, "Computer Science")
	require.NoError(t, err)

	got, err := repo.LevelsForDepartment(ctx, english.ID).Wait(ctx)
	require.NoError(t, err)
	assert.Len(t, got.(state.Success[[]model.LevelModel]).Data, 5)

	got, err = repo.LevelsForDepartment(ctx, cs.ID).Wait(ctx)
	require.NoError(t, err)
	assert.Len(t, got.(state.Success[[]model.LevelModel]).Data, 4)

	got, err = repo.LevelsForDepartment(ctx, 9999).Wait(ctx)
	require.NoError(t, err)
	assert.IsType(t, state.Empty[[]model.LevelModel]{}, got)
}

func TestCatalogDepartmentsForLevel(t *testing.T) {
	ctx := context.Background()
	store := databasetest.NewStore(t)
	repo := repository.NewCatalogRepository(store)

	l500, err := accessor.NewLevels(store).GetByName(ctx, "500 Level")
	require.NoError(t, err)

	got, err := repo.DepartmentsForLevel(ctx, l500.ID).Wait(ctx)
	require.NoError(t, err)
	data := got.(state.Success[[]model.DepartmentModel]).Data
	require.Len(t, data, 1)
	assert.Equal(t, "English", data[0].Name)
}
