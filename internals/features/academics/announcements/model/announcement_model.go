package model

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	courseModel "lms_backend/internals/features/academics/courses/model"
)

var validate = validator.New()

type AnnouncementModel struct {
	ID         string `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Title      string `gorm:"column:title;size:200;not null" json:"title" validate:"required,max=200"`
	Content    string `gorm:"column:content;type:text;not null" json:"content" validate:"required"`
	AuthorID   string `gorm:"column:author_id;type:varchar(64);not null" json:"author_id" validate:"required"`
	AuthorName string `gorm:"column:author_name;size:120" json:"author_name"`
	// unix millis
	Timestamp int64 `gorm:"column:timestamp;not null;index:idx_announcements_course_ts,priority:2" json:"timestamp"`
	CourseID  uint  `gorm:"column:course_id;not null;index:idx_announcements_course_ts,priority:1" json:"course_id" validate:"required"`

	// urutan insert, pemecah seri kalau timestamp sama
	InsertedAt int64 `gorm:"column:inserted_at;autoCreateTime:nano;not null" json:"-"`

	Course *courseModel.CourseModel `gorm:"foreignKey:CourseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (a *AnnouncementModel) Validate() error {
	a.Title = strings.TrimSpace(a.Title)
	a.Content = strings.TrimSpace(a.Content)
	if a.Timestamp == 0 {
		a.Timestamp = time.Now().UnixMilli()
	}
	return validate.Struct(a)
}

func (a *AnnouncementModel) Time() time.Time { return time.UnixMilli(a.Timestamp) }
