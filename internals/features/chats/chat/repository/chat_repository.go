package repository

import (
	"context"
	"strconv"
	"strings"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/chats/chat/accessor"
	"lms_backend/internals/features/chats/chat/model"
	"lms_backend/internals/helpers/state"
	"lms_backend/internals/remote"
)

type ChatRepository interface {
	// Chats cache-only; kind kosong = semua channel.
	Chats(ctx context.Context, kind model.ChannelKind) *state.Stream[[]model.ChatModel]
	// OpenChat mencari channel (kind + nama) atau membuatnya secara lokal.
	OpenChat(ctx context.Context, kind model.ChannelKind, displayName string) (*model.ChatModel, error)
	FetchMessages(ctx context.Context, chatID uint, opts state.FetchOptions) *state.Stream[[]model.ChatMessageModel]
	SendMessage(ctx context.Context, m model.ChatMessageModel) *state.Stream[model.ChatMessageModel]
}

type chatRepository struct {
	store   *database.Store
	backend remote.Backend
	chats   accessor.Chats
}

func NewChatRepository(store *database.Store, backend remote.Backend) ChatRepository {
	return &chatRepository{
		store:   store,
		backend: backend,
		chats:   accessor.NewChats(store),
	}
}

func (r *chatRepository) Chats(ctx context.Context, kind model.ChannelKind) *state.Stream[[]model.ChatModel] {
	var (
		list []model.ChatModel
		err  error
	)
	if kind == "" {
		list, err = r.chats.ListAll(ctx)
	} else {
		list, err = r.chats.ListByKind(ctx, kind)
	}
	return state.Local(list, err, state.EmptySlice[model.ChatModel])
}

func (r *chatRepository) OpenChat(ctx context.Context, kind model.ChannelKind, displayName string) (*model.ChatModel, error) {
	displayName = strings.TrimSpace(displayName)
	var opened *model.ChatModel

	// cari + buat dalam satu transaksi supaya dua pemanggil tidak membuat channel kembar
	err := r.store.Atomic(ctx, func(ctx context.Context) error {
		existing, err := r.chats.ListByKind(ctx, kind)
		if err != nil {
			return err
		}
		for i := range existing {
			name := ""
			if existing[i].DisplayName != nil {
				name = *existing[i].DisplayName
			}
			if name == displayName {
				opened = &existing[i]
				return nil
			}
		}

		c := &model.ChatModel{Kind: kind}
		if displayName != "" {
			c.DisplayName = &displayName
		}
		if _, err := r.chats.Insert(ctx, c); err != nil {
			return err
		}
		opened = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opened, nil
}

func (r *chatRepository) FetchMessages(ctx context.Context, chatID uint, opts state.FetchOptions) *state.Stream[[]model.ChatMessageModel] {
	return state.Load(ctx, state.Source[[]model.ChatMessageModel, []model.ChatMessageModel]{
		Cache: func(ctx context.Context) ([]model.ChatMessageModel, error) {
			return r.chats.MessagesForChat(ctx, chatID)
		},
		IsEmpty: state.EmptySlice[model.ChatMessageModel],
		Fetch: func(ctx context.Context) ([]model.ChatMessageModel, error) {
			res, err := r.backend.Fetch(ctx, remote.KindMessages, remote.Filter{
				"chat_id": strconv.FormatUint(uint64(chatID), 10),
			})
			if err != nil {
				return nil, err
			}
			return remote.As[[]model.ChatMessageModel](res)
		},
		Save: func(ctx context.Context, msgs []model.ChatMessageModel) error {
			return r.chats.UpsertMessages(ctx, msgs...)
		},
	}, opts.Refresh)
}

// SendMessage: pesan baru ditulis ke cache dengan id yang diberikan remote.
func (r *chatRepository) SendMessage(ctx context.Context, m model.ChatMessageModel) *state.Stream[model.ChatMessageModel] {
	return state.Submit(ctx, func(ctx context.Context) (model.ChatMessageModel, error) {
		if err := m.Validate(); err != nil {
			return m, database.InvalidEntity("send", "chat_message", err)
		}
		res, err := r.backend.Submit(ctx, remote.KindMessages, m)
		if err != nil {
			return m, err
		}
		sent := m
		if err := res.Decode(&sent); err != nil {
			return m, err
		}
		if err := ctx.Err(); err != nil {
			return m, err
		}

		// id pesan hanya dari remote; id lokal bisa bentrok dengan pesan chat lain saat sync
		if sent.ID == 0 {
			return m, &remote.Error{Kind: remote.KindMessages, Message: "ack tanpa id pesan"}
		}
		return sent, r.chats.UpsertMessages(ctx, sent)
	}, nil)
}
