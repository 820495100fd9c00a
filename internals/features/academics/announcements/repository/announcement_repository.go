package repository

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/announcements/accessor"
	"lms_backend/internals/features/academics/announcements/model"
	"lms_backend/internals/helpers/state"
	"lms_backend/internals/remote"
)

type AnnouncementRepository interface {
	// FetchAnnouncements: urut timestamp naik, cache-first.
	FetchAnnouncements(ctx context.Context, courseID uint, opts state.FetchOptions) *state.Stream[[]model.AnnouncementModel]
	PostAnnouncement(ctx context.Context, a model.AnnouncementModel) *state.Stream[model.AnnouncementModel]
}

type announcementRepository struct {
	backend       remote.Backend
	announcements accessor.Announcements
}

func NewAnnouncementRepository(store *database.Store, backend remote.Backend) AnnouncementRepository {
	return &announcementRepository{
		backend:       backend,
		announcements: accessor.NewAnnouncements(store),
	}
}

func (r *announcementRepository) FetchAnnouncements(ctx context.Context, courseID uint, opts state.FetchOptions) *state.Stream[[]model.AnnouncementModel] {
	return state.Load(ctx, state.Source[[]model.AnnouncementModel, []model.AnnouncementModel]{
		Cache: func(ctx context.Context) ([]model.AnnouncementModel, error) {
			return r.announcements.ListByCourse(ctx, courseID)
		},
		IsEmpty: state.EmptySlice[model.AnnouncementModel],
		Fetch: func(ctx context.Context) ([]model.AnnouncementModel, error) {
			res, err := r.backend.Fetch(ctx, remote.KindAnnouncements, remote.Filter{
				"course_id": strconv.FormatUint(uint64(courseID), 10),
			})
			if err != nil {
				return nil, err
			}
			return remote.As[[]model.AnnouncementModel](res)
		},
		Save: func(ctx context.Context, rows []model.AnnouncementModel) error {
			return r.announcements.Upsert(ctx, rows...)
		},
	}, opts.Refresh)
}

// PostAnnouncement: id dibuat di sini supaya remote dan cache memakai id yang sama.
func (r *announcementRepository) PostAnnouncement(ctx context.Context, a model.AnnouncementModel) *state.Stream[model.AnnouncementModel] {
	return state.Submit(ctx, func(ctx context.Context) (model.AnnouncementModel, error) {
		if strings.TrimSpace(a.ID) == "" {
			a.ID = uuid.NewString()
		}
		if err := a.Validate(); err != nil {
			return a, database.InvalidEntity("post", "announcement", err)
		}

		res, err := r.backend.Submit(ctx, remote.KindAnnouncements, a)
		if err != nil {
			return a, err
		}
		posted := a
		if err := res.Decode(&posted); err != nil {
			return a, err
		}
		if err := ctx.Err(); err != nil {
			return a, err
		}
		if posted.ID == "" {
			posted.ID = a.ID
		}

		if err := r.announcements.Upsert(ctx, posted); err != nil {
			return a, err
		}
		stored, err := r.announcements.GetByID(ctx, posted.ID)
		if err != nil {
			return a, err
		}
		log.Printf("[INFO] 📢 Announcement %q diposting ke course %d", stored.Title, stored.CourseID)
		return *stored, nil
	}, nil)
}
