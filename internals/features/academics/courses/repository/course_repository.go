package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"golang.org/x/sync/errgroup"

	database "lms_backend/internals/databases"
	announcementAccessor "lms_backend/internals/features/academics/announcements/accessor"
	announcementModel "lms_backend/internals/features/academics/announcements/model"
	assignmentAccessor "lms_backend/internals/features/academics/assignments/accessor"
	assignmentModel "lms_backend/internals/features/academics/assignments/model"
	"lms_backend/internals/features/academics/courses/accessor"
	"lms_backend/internals/features/academics/courses/model"
	userAccessor "lms_backend/internals/features/users/user/accessor"
	"lms_backend/internals/helpers/state"
	"lms_backend/internals/remote"
)

// CourseContent: isi satu course yang di-refresh bersamaan.
type CourseContent struct {
	Announcements []announcementModel.AnnouncementModel `json:"announcements"`
	Assignments   []assignmentModel.AssignmentModel     `json:"assignments"`
}

func (c CourseContent) empty() bool {
	return len(c.Announcements) == 0 && len(c.Assignments) == 0
}

type CourseRepository interface {
	// FetchCourses: course per department + level, cache-first.
	FetchCourses(ctx context.Context, departmentID, levelID uint, opts state.FetchOptions) *state.Stream[[]model.CourseModel]
	FetchCourse(ctx context.Context, id uint, opts state.FetchOptions) *state.Stream[*model.CourseDetail]
	// CreateCourse: submit ke remote lalu tulis ke cache.
	CreateCourse(ctx context.Context, c model.CourseModel) *state.Stream[model.CourseModel]
	// DeleteCourse murni lokal.
	DeleteCourse(ctx context.Context, id uint) error
	Enroll(ctx context.Context, userID string, courseID uint) *state.Stream[model.UserCourseCrossRef]
	MyCourses(ctx context.Context, userID string, opts state.FetchOptions) *state.Stream[[]model.CourseModel]
	RefreshCourseContent(ctx context.Context, courseID uint) *state.Stream[CourseContent]
}

type courseRepository struct {
	store         *database.Store
	backend       remote.Backend
	courses       accessor.Courses
	enrollments   accessor.Enrollments
	users         userAccessor.Users
	announcements announcementAccessor.Announcements
	assignments   assignmentAccessor.Assignments
}

func NewCourseRepository(store *database.Store, backend remote.Backend) CourseRepository {
	return &courseRepository{
		store:         store,
		backend:       backend,
		courses:       accessor.NewCourses(store),
		enrollments:   accessor.NewEnrollments(store),
		users:         userAccessor.NewUsers(store),
		announcements: announcementAccessor.NewAnnouncements(store),
		assignments:   assignmentAccessor.NewAssignments(store),
	}
}

func idString(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (r *courseRepository) FetchCourses(ctx context.Context, departmentID, levelID uint, opts state.FetchOptions) *state.Stream[[]model.CourseModel] {
	return state.Load(ctx, state.Source[[]model.CourseModel, []model.CourseModel]{
		Cache: func(ctx context.Context) ([]model.CourseModel, error) {
			return r.courses.ListByDepartmentAndLevel(ctx, departmentID, levelID)
		},
		IsEmpty: state.EmptySlice[model.CourseModel],
		Fetch: func(ctx context.Context) ([]model.CourseModel, error) {
			res, err := r.backend.Fetch(ctx, remote.KindCourses, remote.Filter{
				"department_id": idString(departmentID),
				"level_id":      idString(levelID),
			})
			if err != nil {
				return nil, err
			}
			return remote.As[[]model.CourseModel](res)
		},
		Save: func(ctx context.Context, rows []model.CourseModel) error {
			return r.saveCourses(ctx, rows)
		},
	}, opts.Refresh)
}

func (r *courseRepository) FetchCourse(ctx context.Context, id uint, opts state.FetchOptions) *state.Stream[*model.CourseDetail] {
	return state.Load(ctx, state.Source[*model.CourseDetail, []model.CourseModel]{
		Cache: func(ctx context.Context) (*model.CourseDetail, error) {
			d, err := r.courses.GetDetail(ctx, id)
			if errors.Is(err, database.ErrNotFound) {
				return nil, nil
			}
			return d, err
		},
		IsEmpty: state.Nil[model.CourseDetail],
		Fetch: func(ctx context.Context) ([]model.CourseModel, error) {
			res, err := r.backend.Fetch(ctx, remote.KindCourses, remote.Filter{"id": idString(id)})
			if err != nil {
				return nil, err
			}
			return remote.As[[]model.CourseModel](res)
		},
		Save: r.saveCourses,
	}, opts.Refresh)
}

// saveCourses: write-through baris course dari remote. Lecturer yang belum
// ada di cache dilepas (lecturer_id NULL) agar FK tetap terpenuhi.
func (r *courseRepository) saveCourses(ctx context.Context, rows []model.CourseModel) error {
	if len(rows) == 0 {
		return nil
	}
	return r.store.Atomic(ctx, func(ctx context.Context) error {
		if err := r.detachUnknownLecturers(ctx, rows); err != nil {
			return err
		}
		return r.courses.Upsert(ctx, rows...)
	})
}

func (r *courseRepository) detachUnknownLecturers(ctx context.Context, rows []model.CourseModel) error {
	for i := range rows {
		if rows[i].LecturerID == nil {
			continue
		}
		_, err := r.users.GetByID(ctx, *rows[i].LecturerID)
		if errors.Is(err, database.ErrNotFound) {
			rows[i].LecturerID = nil
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *courseRepository) CreateCourse(ctx context.Context, c model.CourseModel) *state.Stream[model.CourseModel] {
	return state.Submit(ctx, func(ctx context.Context) (model.CourseModel, error) {
		if err := c.Validate(); err != nil {
			return c, database.InvalidEntity("create", "course", err)
		}
		res, err := r.backend.Submit(ctx, remote.KindCourses, c)
		if err != nil {
			return c, err
		}
		created := c
		if err := res.Decode(&created); err != nil {
			return c, err
		}
		if err := ctx.Err(); err != nil {
			return c, err
		}

		// id course hanya dari remote supaya refresh tidak menimpa baris lain
		if created.ID == 0 {
			return c, &remote.Error{Kind: remote.KindCourses, Message: "ack tanpa id course"}
		}
		if err := r.saveCourses(ctx, []model.CourseModel{created}); err != nil {
			return c, err
		}
		log.Printf("[INFO] 📚 Course %s (%d) dibuat", created.Code, created.ID)
		return created, nil
	}, nil)
}

func (r *courseRepository) DeleteCourse(ctx context.Context, id uint) error {
	return r.courses.Delete(ctx, id)
}

type enrollmentPayload struct {
	UserID   string `json:"user_id"`
	CourseID uint   `json:"course_id"`
}

func (r *courseRepository) Enroll(ctx context.Context, userID string, courseID uint) *state.Stream[model.UserCourseCrossRef] {
	ref := model.UserCourseCrossRef{UserID: userID, CourseID: courseID}
	return state.Submit(ctx, func(ctx context.Context) (model.UserCourseCrossRef, error) {
		if _, err := r.backend.Submit(ctx, remote.KindEnrollments, enrollmentPayload{UserID: userID, CourseID: courseID}); err != nil {
			return ref, err
		}
		if err := ctx.Err(); err != nil {
			return ref, err
		}
		return ref, r.enrollments.Enroll(ctx, userID, courseID)
	}, nil)
}

// MyCourses: daftar course user; hasil remote menggantikan enrollment lokal user.
func (r *courseRepository) MyCourses(ctx context.Context, userID string, opts state.FetchOptions) *state.Stream[[]model.CourseModel] {
	return state.Load(ctx, state.Source[[]model.CourseModel, []model.CourseModel]{
		Cache: func(ctx context.Context) ([]model.CourseModel, error) {
			return r.enrollments.CoursesForUser(ctx, userID)
		},
		IsEmpty: state.EmptySlice[model.CourseModel],
		Fetch: func(ctx context.Context) ([]model.CourseModel, error) {
			res, err := r.backend.Fetch(ctx, remote.KindEnrollments, remote.Filter{"user_id": userID})
			if err != nil {
				return nil, err
			}
			return remote.As[[]model.CourseModel](res)
		},
		Save: func(ctx context.Context, rows []model.CourseModel) error {
			return r.store.Atomic(ctx, func(ctx context.Context) error {
				if err := r.saveCourses(ctx, rows); err != nil {
					return err
				}
				ids := make([]uint, 0, len(rows))
				for _, c := range rows {
					ids = append(ids, c.ID)
				}
				return r.enrollments.ReplaceForUser(ctx, userID, ids)
			})
		},
	}, opts.Refresh)
}

// RefreshCourseContent mengambil announcement dan assignment secara paralel,
// lalu menulis keduanya dalam satu transaksi.
func (r *courseRepository) RefreshCourseContent(ctx context.Context, courseID uint) *state.Stream[CourseContent] {
	return state.Load(ctx, state.Source[CourseContent, CourseContent]{
		Cache: func(ctx context.Context) (CourseContent, error) {
			return r.cachedContent(ctx, courseID)
		},
		IsEmpty: CourseContent.empty,
		Fetch: func(ctx context.Context) (CourseContent, error) {
			return r.fetchContent(ctx, courseID)
		},
		Save: func(ctx context.Context, content CourseContent) error {
			return r.store.Atomic(ctx, func(ctx context.Context) error {
				if err := r.announcements.Upsert(ctx, content.Announcements...); err != nil {
					return err
				}
				return r.assignments.Upsert(ctx, content.Assignments...)
			})
		},
	}, true)
}

func (r *courseRepository) cachedContent(ctx context.Context, courseID uint) (CourseContent, error) {
	var out CourseContent
	var err error
	if out.Announcements, err = r.announcements.ListByCourse(ctx, courseID); err != nil {
		return out, err
	}
	out.Assignments, err = r.assignments.ListByCourse(ctx, courseID)
	return out, err
}

func (r *courseRepository) fetchContent(ctx context.Context, courseID uint) (CourseContent, error) {
	var out CourseContent
	filter := remote.Filter{"course_id": idString(courseID)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := r.backend.Fetch(gctx, remote.KindAnnouncements, filter)
		if err != nil {
			return err
		}
		out.Announcements, err = remote.As[[]announcementModel.AnnouncementModel](res)
		return err
	})
	g.Go(func() error {
		res, err := r.backend.Fetch(gctx, remote.KindAssignments, filter)
		if err != nil {
			return err
		}
		out.Assignments, err = remote.As[[]assignmentModel.AssignmentModel](res)
		return err
	})
	if err := g.Wait(); err != nil {
		return CourseContent{}, fmt.Errorf("refresh course %d: %w", courseID, err)
	}
	return out, nil
}
