package accessor

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/chats/chat/model"
)

// Chats mengelola chat beserta pesannya. Pesan selalu dibaca urut
// timestamp ASC lalu id ASC, berapapun urutan masuknya.
type Chats interface {
	Insert(ctx context.Context, c *model.ChatModel) (uint, error)
	Update(ctx context.Context, c *model.ChatModel) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.ChatModel, error)
	ListAll(ctx context.Context) ([]model.ChatModel, error)
	ListByKind(ctx context.Context, kind model.ChannelKind) ([]model.ChatModel, error)

	InsertMessage(ctx context.Context, m *model.ChatMessageModel) (uint, error)
	DeleteMessage(ctx context.Context, id uint) error
	UpsertMessages(ctx context.Context, msgs ...model.ChatMessageModel) error
	MessagesForChat(ctx context.Context, chatID uint) ([]model.ChatMessageModel, error)
	LatestMessage(ctx context.Context, chatID uint) (*model.ChatMessageModel, error)
}

type chatAccessor struct {
	store *database.Store
}

func NewChats(store *database.Store) Chats {
	return &chatAccessor{store: store}
}

const orderMessages = "timestamp ASC, id ASC"

func (a *chatAccessor) Insert(ctx context.Context, c *model.ChatModel) (uint, error) {
	if err := c.Validate(); err != nil {
		return 0, database.InvalidEntity("insert", "chat", err)
	}
	if err := a.store.Write(ctx, func(tx *gorm.DB) error { return tx.Create(c).Error }); err != nil {
		return 0, database.NewWriteError("insert", "chat", err)
	}
	return c.ID, nil
}

func (a *chatAccessor) Update(ctx context.Context, c *model.ChatModel) error {
	if err := c.Validate(); err != nil {
		return database.InvalidEntity("update", "chat", err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.ChatModel{}).Where("id = ?", c.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return database.NotFound("update", "chat", c.ID)
		}
		return tx.Model(&model.ChatModel{}).Where("id = ?", c.ID).Updates(map[string]any{
			"kind":         c.Kind,
			"display_name": c.DisplayName,
		}).Error
	})
	return database.NewWriteError("update", "chat", err)
}

// Delete: pesan-pesan chat ikut terhapus.
func (a *chatAccessor) Delete(ctx context.Context, id uint) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&model.ChatMessageModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatModel{}, id).Error
	})
	return database.NewWriteError("delete", "chat", err)
}

func (a *chatAccessor) GetByID(ctx context.Context, id uint) (*model.ChatModel, error) {
	var c model.ChatModel
	if err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.First(&c, id).Error }); err != nil {
		return nil, database.Classify(err)
	}
	return &c, nil
}

func (a *chatAccessor) ListAll(ctx context.Context) ([]model.ChatModel, error) {
	var out []model.ChatModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.Order("id ASC").Find(&out).Error })
	return out, err
}

func (a *chatAccessor) ListByKind(ctx context.Context, kind model.ChannelKind) ([]model.ChatModel, error) {
	var out []model.ChatModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Where("kind = ?", kind).Order("id ASC").Find(&out).Error
	})
	return out, err
}

func (a *chatAccessor) InsertMessage(ctx context.Context, m *model.ChatMessageModel) (uint, error) {
	if err := m.Validate(); err != nil {
		return 0, database.InvalidEntity("insert", "chat_message", err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error { return tx.Omit(clause.Associations).Create(m).Error })
	if err != nil {
		return 0, database.NewWriteError("insert", "chat_message", err)
	}
	return m.ID, nil
}

func (a *chatAccessor) DeleteMessage(ctx context.Context, id uint) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Delete(&model.ChatMessageModel{}, id).Error
	})
	return database.NewWriteError("delete", "chat_message", err)
}

func (a *chatAccessor) UpsertMessages(ctx context.Context, msgs ...model.ChatMessageModel) error {
	if len(msgs) == 0 {
		return nil
	}
	for i := range msgs {
		if err := msgs[i].Validate(); err != nil {
			return database.InvalidEntity("upsert", "chat_message", err)
		}
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
			Create(&msgs).Error
	})
	return database.NewWriteError("upsert", "chat_message", err)
}

func (a *chatAccessor) MessagesForChat(ctx context.Context, chatID uint) ([]model.ChatMessageModel, error) {
	var out []model.ChatMessageModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Where("chat_id = ?", chatID).Order(orderMessages).Find(&out).Error
	})
	return out, err
}

func (a *chatAccessor) LatestMessage(ctx context.Context, chatID uint) (*model.ChatMessageModel, error) {
	var m model.ChatMessageModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Where("chat_id = ?", chatID).Order("timestamp DESC, id DESC").First(&m).Error
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return &m, nil
}
