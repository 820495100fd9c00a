package model

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ChannelKind string

const (
	ChannelGeneral    ChannelKind = "general"
	ChannelCourse     ChannelKind = "course"
	ChannelDepartment ChannelKind = "department"
	ChannelDirect     ChannelKind = "direct"
)

type ChatModel struct {
	ID          uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Kind        ChannelKind `gorm:"column:kind;type:varchar(20);not null;index" json:"kind" validate:"required,oneof=general course department direct"`
	DisplayName *string     `gorm:"column:display_name;size:120" json:"display_name,omitempty"`
}

func (ChatModel) TableName() string { return "chats" }

func (c *ChatModel) Validate() error {
	if c.DisplayName != nil {
		n := strings.TrimSpace(*c.DisplayName)
		if n == "" {
			c.DisplayName = nil
		} else {
			c.DisplayName = &n
		}
	}
	return validate.Struct(c)
}

// ChatMessageModel ikut terhapus bersama chat-nya.
type ChatMessageModel struct {
	ID             uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ChatID         uint        `gorm:"column:chat_id;not null;index:idx_chat_messages_chat_ts,priority:1" json:"chat_id" validate:"required"`
	Content        string      `gorm:"column:content;type:text;not null" json:"content" validate:"required"`
	SenderID       string      `gorm:"column:sender_id;type:varchar(64);not null" json:"sender_id" validate:"required"`
	SenderUserName string      `gorm:"column:sender_user_name;size:50" json:"sender_user_name"`
	Timestamp      int64       `gorm:"column:timestamp;not null;index:idx_chat_messages_chat_ts,priority:2" json:"timestamp"` // unix millis
	Kind           ChannelKind `gorm:"column:kind;type:varchar(20);not null" json:"kind" validate:"required,oneof=general course department direct"`

	Chat *ChatModel `gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }

func (m *ChatMessageModel) Validate() error {
	if m.Timestamp == 0 {
		m.Timestamp = time.Now().UnixMilli()
	}
	m.Content = strings.TrimSpace(m.Content)
	return validate.Struct(m)
}
