package academics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lms_backend/internals/databases/databasetest"
	"lms_backend/internals/features/academics/departments/model"
	"lms_backend/internals/seeds/academics"
)

type snapshot struct {
	departments []model.DepartmentModel
	levels      []model.LevelModel
	links       []model.DepartmentLevelCrossRef
}

func take(t *testing.T, db *gorm.DB) snapshot {
	t.Helper()
	var s snapshot
	require.NoError(t, db.Order("id").Find(&s.departments).Error)
	require.NoError(t, db.Order("id").Find(&s.levels).Error)
	require.NoError(t, db.Order("department_id, level_id").Find(&s.links).Error)
	return s
}

func TestDefaultCatalogShape(t *testing.T) {
	cat, err := academics.DefaultCatalog()
	require.NoError(t, err)
	assert.Len(t, cat.Departments, 12)
	assert.Len(t, cat.Levels, 5)
	assert.Len(t, cat.Associations, 12)
}

func TestSeedOnEmptyStoreMatchesCatalog(t *testing.T) {
	store := databasetest.NewStore(t)
	cat, err := academics.DefaultCatalog()
	require.NoError(t, err)

	s := take(t, store.DB)
	require.Len(t, s.departments, len(cat.Departments))
	require.Len(t, s.levels, len(cat.Levels))

	wantLinks := 0
	for _, a := range cat.Associations {
		wantLinks += len(a.Levels)
	}
	assert.Len(t, s.links, wantLinks)

	names := map[string]bool{}
	for _, d := range s.departments {
		names[d.Name] = true
	}
	for _, d := range cat.Departments {
		assert.True(t, names[d], d)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	store := databasetest.NewStore(t)
	cat, err := academics.DefaultCatalog()
	require.NoError(t, err)

	before := take(t, store.DB)

	for i := 0; i < 3; i++ {
		var rep academics.Report
		err := store.Write(context.Background(), func(tx *gorm.DB) error {
			var err error
			rep, err = academics.Seed(context.Background(), tx, cat)
			return err
		})
		require.NoError(t, err)
		assert.Zero(t, rep.DepartmentsInserted)
		assert.Zero(t, rep.LevelsInserted)
		assert.Zero(t, rep.LinksInserted)
		assert.Equal(t, len(cat.Departments), rep.DepartmentsSkipped)
	}

	assert.Equal(t, before, take(t, store.DB))
}

func TestSeedFillsOnlyMissingRowsAndKeepsIDs(t *testing.T) {
	store := databasetest.NewStore(t)
	cat, err := academics.DefaultCatalog()
	require.NoError(t, err)

	before := take(t, store.DB)
	victim := before.departments[0]

	// department hilang → seed ulang membuat baris baru, yang lain tidak berubah
	require.NoError(t, store.Write(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Where("department_id = ?", victim.ID).Delete(&model.DepartmentLevelCrossRef{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DepartmentModel{}, victim.ID).Error
	}))

	var rep academics.Report
	require.NoError(t, store.Write(context.Background(), func(tx *gorm.DB) error {
		rep, err = academics.Seed(context.Background(), tx, cat)
		return err
	}))
	assert.Equal(t, 1, rep.DepartmentsInserted)

	after := take(t, store.DB)
	require.Len(t, after.departments, len(before.departments))
	for _, d := range before.departments[1:] {
		assert.Contains(t, after.departments, d)
	}
	assert.Len(t, after.links, len(before.links))
}

func TestSeedRejectsUnknownAssociation(t *testing.T) {
	store := databasetest.NewStore(t)
	cat := &academics.Catalog{
		Departments:  []string{"Computer Science"},
		Levels:       []string{"100 Level"},
		Associations: []academics.Association{{Department: "Astrology", Levels: []string{"100 Level"}}},
	}

	err := store.Write(context.Background(), func(tx *gorm.DB) error {
		_, err := academics.Seed(context.Background(), tx, cat)
		return err
	})
	require.Error(t, err)
}

func TestSeedTrimsAssociationNames(t *testing.T) {
	store := databasetest.NewStore(t)
	cat := &academics.Catalog{
		Departments:  []string{" Astronomy "},
		Levels:       []string{"900 Level "},
		Associations: []academics.Association{{Department: "Astronomy  ", Levels: []string{" 900 Level"}}},
	}

	var rep academics.Report
	require.NoError(t, store.Write(context.Background(), func(tx *gorm.DB) error {
		var err error
		rep, err = academics.Seed(context.Background(), tx, cat)
		return err
	}))
	assert.Equal(t, 1, rep.LinksInserted)

	var dept model.DepartmentModel
	require.NoError(t, store.DB.Where("name = ?", "Astronomy").First(&dept).Error)
	var level model.LevelModel
	require.NoError(t, store.DB.Where("name = ?", "900 Level").First(&level).Error)
	var n int64
	require.NoError(t, store.DB.Model(&model.DepartmentLevelCrossRef{}).
		Where("department_id = ? AND level_id = ?", dept.ID, level.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
