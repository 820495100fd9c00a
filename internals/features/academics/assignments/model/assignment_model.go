package model

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	courseModel "lms_backend/internals/features/academics/courses/model"
)

var validate = validator.New()

type AssignmentModel struct {
	ID          string    `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Title       string    `gorm:"column:title;size:200;not null" json:"title" validate:"required,max=200"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	DueDate     time.Time `gorm:"column:due_date;not null;index" json:"due_date" validate:"required"`
	CourseID    uint      `gorm:"column:course_id;not null;index" json:"course_id" validate:"required"`

	Course *courseModel.CourseModel `gorm:"foreignKey:CourseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (a *AssignmentModel) Validate() error {
	a.Title = strings.TrimSpace(a.Title)
	a.DueDate = a.DueDate.UTC()
	return validate.Struct(a)
}

// Overdue relatif terhadap now.
func (a *AssignmentModel) Overdue(now time.Time) bool {
	return now.After(a.DueDate)
}
