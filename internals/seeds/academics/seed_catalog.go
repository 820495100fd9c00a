package academics

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lms_backend/internals/features/academics/departments/model"
)

//go:embed data_catalog.json
var catalogJSON []byte

// Catalog: data referensi department, level, dan pasangan keduanya.
type Catalog struct {
	Departments  []string      `json:"departments"`
	Levels       []string      `json:"levels"`
	Associations []Association `json:"associations"`
}

type Association struct {
	Department string   `json:"department"`
	Levels     []string `json:"levels"`
}

// Report jumlah baris yang baru masuk vs yang sudah ada.
type Report struct {
	DepartmentsInserted int
	DepartmentsSkipped  int
	LevelsInserted      int
	LevelsSkipped       int
	LinksInserted       int
	LinksSkipped        int
}

func (r Report) String() string {
	return fmt.Sprintf("departments +%d/=%d, levels +%d/=%d, links +%d/=%d",
		r.DepartmentsInserted, r.DepartmentsSkipped,
		r.LevelsInserted, r.LevelsSkipped,
		r.LinksInserted, r.LinksSkipped)
}

// DefaultCatalog decode katalog bawaan (embedded).
func DefaultCatalog() (*Catalog, error) {
	var cat Catalog
	if err := sonic.Unmarshal(catalogJSON, &cat); err != nil {
		return nil, fmt.Errorf("decode katalog: %w", err)
	}
	if err := cat.check(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// check: semua nama di-trim lalu setiap asosiasi harus menunjuk nama
// yang ada di katalog.
func (c *Catalog) check() error {
	deps := make(map[string]bool, len(c.Departments))
	for i := range c.Departments {
		c.Departments[i] = strings.TrimSpace(c.Departments[i])
		deps[c.Departments[i]] = true
	}
	levels := make(map[string]bool, len(c.Levels))
	for i := range c.Levels {
		c.Levels[i] = strings.TrimSpace(c.Levels[i])
		levels[c.Levels[i]] = true
	}
	for i := range c.Associations {
		a := &c.Associations[i]
		a.Department = strings.TrimSpace(a.Department)
		if !deps[a.Department] {
			return fmt.Errorf("katalog: department %q tidak terdaftar", a.Department)
		}
		for j := range a.Levels {
			a.Levels[j] = strings.TrimSpace(a.Levels[j])
			if !levels[a.Levels[j]] {
				return fmt.Errorf("katalog: level %q (department %q) tidak terdaftar", a.Levels[j], a.Department)
			}
		}
	}
	return nil
}

// Seed: insert-if-absent per nama, id lama tidak pernah diganti.
// Harus dipanggil di dalam transaksi; error apa pun membatalkan semuanya.
func Seed(ctx context.Context, tx *gorm.DB, cat *Catalog) (Report, error) {
	var rep Report
	tx = tx.WithContext(ctx)

	if err := cat.check(); err != nil {
		return rep, err
	}

	onName := clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}

	for _, name := range cat.Departments {
		row := model.DepartmentModel{Name: name}
		if err := row.Validate(); err != nil {
			return rep, fmt.Errorf("department %q: %w", name, err)
		}
		res := tx.Clauses(onName).Create(&row)
		if res.Error != nil {
			return rep, fmt.Errorf("insert department %q: %w", name, res.Error)
		}
		if res.RowsAffected > 0 {
			rep.DepartmentsInserted++
		} else {
			rep.DepartmentsSkipped++
		}
	}

	for _, name := range cat.Levels {
		row := model.LevelModel{Name: name}
		if err := row.Validate(); err != nil {
			return rep, fmt.Errorf("level %q: %w", name, err)
		}
		res := tx.Clauses(onName).Create(&row)
		if res.Error != nil {
			return rep, fmt.Errorf("insert level %q: %w", name, res.Error)
		}
		if res.RowsAffected > 0 {
			rep.LevelsInserted++
		} else {
			rep.LevelsSkipped++
		}
	}

	depIDs, levelIDs, err := loadIDs(tx)
	if err != nil {
		return rep, err
	}

	onPair := clause.OnConflict{
		Columns:   []clause.Column{{Name: "department_id"}, {Name: "level_id"}},
		DoNothing: true,
	}
	for _, a := range cat.Associations {
		for _, lv := range a.Levels {
			link := model.DepartmentLevelCrossRef{
				DepartmentID: depIDs[a.Department],
				LevelID:      levelIDs[lv],
			}
			res := tx.Clauses(onPair).Create(&link)
			if res.Error != nil {
				return rep, fmt.Errorf("insert link %s ↔ %s: %w", a.Department, lv, res.Error)
			}
			if res.RowsAffected > 0 {
				rep.LinksInserted++
			} else {
				rep.LinksSkipped++
			}
		}
	}

	log.Printf("🌱 Seed katalog: %s", rep)
	return rep, nil
}

func loadIDs(tx *gorm.DB) (map[string]uint, map[string]uint, error) {
	var deps []model.DepartmentModel
	if err := tx.Find(&deps).Error; err != nil {
		return nil, nil, fmt.Errorf("baca departments: %w", err)
	}
	var levels []model.LevelModel
	if err := tx.Find(&levels).Error; err != nil {
		return nil, nil, fmt.Errorf("baca levels: %w", err)
	}

	depIDs := make(map[string]uint, len(deps))
	for _, d := range deps {
		depIDs[d.Name] = d.ID
	}
	levelIDs := make(map[string]uint, len(levels))
	for _, l := range levels {
		levelIDs[l.Name] = l.ID
	}
	return depIDs, levelIDs, nil
}
