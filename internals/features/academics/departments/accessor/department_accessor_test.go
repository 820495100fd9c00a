package accessor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "lms_backend/internals/databases"
	"lms_backend/internals/databases/databasetest"
	"lms_backend/internals/features/academics/departments/accessor"
	"lms_backend/internals/features/academics/departments/model"
)

type fixture struct {
	store       *database.Store
	departments accessor.Departments
	levels      accessor.Levels
	links       accessor.DepartmentLevels
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := databasetest.NewStore(t)
	return fixture{
		store:       store,
		departments: accessor.NewDepartments(store),
		levels:      accessor.NewLevels(store),
		links:       accessor.NewDepartmentLevels(store),
	}
}

func TestDeleteDepartmentRemovesOnlyItsLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cs, err := f.departments.GetByName(ctx, "Computer Science")
	require.NoError(t, err)

	allBefore, err := f.links.ListAll(ctx)
	require.NoError(t, err)
	levelsBefore, err := f.levels.ListAll(ctx)
	require.NoError(t, err)

	var own, others []model.DepartmentLevelCrossRef
	for _, l := range allBefore {
		if l.DepartmentID == cs.ID {
			own = append(own, l)
		} else {
			others = append(others, l)
		}
	}
	require.NotEmpty(t, own)

	require.NoError(t, f.departments.Delete(ctx, cs.ID))

	allAfter, err := f.links.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, others, allAfter)

	levelsAfter, err := f.levels.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, levelsBefore, levelsAfter)

	_, err = f.departments.GetByID(ctx, cs.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteLevelRemovesItsLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l500, err := f.levels.GetByName(ctx, "500 Level")
	require.NoError(t, err)

	deps, err := f.links.DepartmentsForLevel(ctx, l500.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "English", deps[0].Name)

	require.NoError(t, f.levels.Delete(ctx, l500.ID))

	english, err := f.departments.GetByName(ctx, "English")
	require.NoError(t, err)
	levels, err := f.links.LevelsForDepartment(ctx, english.ID)
	require.NoError(t, err)
	assert.Len(t, levels, 4)
}

func TestDuplicateLinkIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	before, err := f.links.ListAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, before)

	existing := before[0]
	require.NoError(t, f.links.Insert(ctx, existing.DepartmentID, existing.LevelID))
	require.NoError(t, f.links.Insert(ctx, existing.DepartmentID, existing.LevelID))

	after, err := f.links.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestLinkToMissingParentIsConstraintViolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l100, err := f.levels.GetByName(ctx, "100 Level")
	require.NoError(t, err)

	err = f.links.Insert(ctx, 99999, l100.ID)
	require.ErrorIs(t, err, database.ErrConstraintViolation)

	var we *database.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "insert", we.Op)
}

func TestDepartmentNameIsUnique(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	before, err := f.departments.ListAll(ctx)
	require.NoError(t, err)

	_, err = f.departments.Insert(ctx, &model.DepartmentModel{Name: "Physics"})
	require.ErrorIs(t, err, database.ErrConstraintViolation)

	after, err := f.departments.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestDeleteAbsentKeysIsSilentSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.NoError(t, f.departments.Delete(ctx, 424242))
	assert.NoError(t, f.levels.Delete(ctx, 424242))
	assert.NoError(t, f.links.Delete(ctx, 424242, 424242))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.departments.Update(ctx, &model.DepartmentModel{ID: 424242, Name: "Ghost"})
	require.ErrorIs(t, err, database.ErrNotFound)

	eng, err := f.departments.GetByName(ctx, "English")
	require.NoError(t, err)
	eng.Name = "  English Language  "
	require.NoError(t, f.departments.Update(ctx, eng))

	got, err := f.departments.GetByID(ctx, eng.ID)
	require.NoError(t, err)
	assert.Equal(t, "English Language", got.Name)

	err = f.levels.Update(ctx, &model.LevelModel{ID: 1, Name: ""})
	assert.ErrorIs(t, err, database.ErrConstraintViolation)
}
