package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DepartmentModel: data referensi, dibuat oleh seeder dan tidak dihapus di operasi normal.
type DepartmentModel struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;size:120;not null;uniqueIndex:uq_departments_name" json:"name" validate:"required,max=120"`
}

func (DepartmentModel) TableName() string { return "departments" }

func (d *DepartmentModel) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	return validate.Struct(d)
}

type LevelModel struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;size:60;not null;uniqueIndex:uq_levels_name" json:"name" validate:"required,max=60"`
}

func (LevelModel) TableName() string { return "levels" }

func (l *LevelModel) Validate() error {
	l.Name = strings.TrimSpace(l.Name)
	return validate.Struct(l)
}

// DepartmentLevelCrossRef: join table (department_id, level_id), ikut terhapus
// bila salah satu parent dihapus.
type DepartmentLevelCrossRef struct {
	DepartmentID uint `gorm:"column:department_id;primaryKey;autoIncrement:false" json:"department_id"`
	LevelID      uint `gorm:"column:level_id;primaryKey;autoIncrement:false;index" json:"level_id"`

	Department *DepartmentModel `gorm:"foreignKey:DepartmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Level      *LevelModel      `gorm:"foreignKey:LevelID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (DepartmentLevelCrossRef) TableName() string { return "department_level_cross_refs" }
