package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"lms_backend/internals/constants"
	userModel "lms_backend/internals/features/users/user/model"
)

var validate = validator.New()

// CourseModel. department_id & level_id sengaja tanpa FK constraint:
// hapus department tidak menghapus course (hanya cross-ref yang ikut terhapus).
type CourseModel struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"column:title;size:200;not null" json:"title" validate:"required,max=200"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Code        string `gorm:"column:code;size:32;not null;index" json:"code" validate:"required,max=32"`
	Format      string `gorm:"column:format;size:32" json:"format"`
	Category    string `gorm:"column:category;size:64" json:"category"`

	DepartmentID uint    `gorm:"column:department_id;not null;index:idx_courses_department_level,priority:1" json:"department_id" validate:"required"`
	LevelID      uint    `gorm:"column:level_id;not null;index:idx_courses_department_level,priority:2" json:"level_id" validate:"required"`
	LecturerID   *string `gorm:"column:lecturer_id;type:varchar(64);index" json:"lecturer_id,omitempty"`

	PdfPath   *string `gorm:"column:pdf_path;type:text" json:"pdf_path,omitempty"`
	ImagePath *string `gorm:"column:image_path;type:text" json:"image_path,omitempty"`
	VideoPath *string `gorm:"column:video_path;type:text" json:"video_path,omitempty"`

	Instructor     string `gorm:"column:instructor;size:120" json:"instructor"`
	Units          int    `gorm:"column:units;not null;default:0" json:"units" validate:"gte=0"`
	IsDepartmental bool   `gorm:"column:is_departmental;not null;default:false" json:"is_departmental"`

	Lecturer *userModel.UserModel `gorm:"foreignKey:LecturerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (CourseModel) TableName() string { return "courses" }

func (c *CourseModel) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.LecturerID != nil && strings.TrimSpace(*c.LecturerID) == "" {
		c.LecturerID = nil
	}
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.validateMedia()
}

// validateMedia: path kosong dianggap tidak ada; selain itu ekstensinya harus cocok.
func (c *CourseModel) validateMedia() error {
	for _, m := range []struct {
		path *string
		want constants.MediaKind
	}{
		{c.PdfPath, constants.MediaPDF},
		{c.ImagePath, constants.MediaImage},
		{c.VideoPath, constants.MediaVideo},
	} {
		if m.path == nil || strings.TrimSpace(*m.path) == "" {
			continue
		}
		if got := constants.DetectMediaKind(*m.path); got != m.want {
			return fmt.Errorf("%s_path harus berupa %s, bukan %s", m.want, m.want, got)
		}
	}
	return nil
}

// CourseDetail: course + nama department & level (LEFT JOIN, nama bisa kosong
// kalau department-nya sudah dihapus).
type CourseDetail struct {
	CourseModel
	DepartmentName *string `gorm:"column:department_name" json:"department_name,omitempty"`
	LevelName      *string `gorm:"column:level_name" json:"level_name,omitempty"`
}

// UserCourseCrossRef: enrollment (user_id, course_id).
type UserCourseCrossRef struct {
	UserID   string `gorm:"column:user_id;type:varchar(64);primaryKey" json:"user_id"`
	CourseID uint   `gorm:"column:course_id;primaryKey;autoIncrement:false;index" json:"course_id"`

	User   *userModel.UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Course *CourseModel         `gorm:"foreignKey:CourseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (UserCourseCrossRef) TableName() string { return "user_course_cross_refs" }
