package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/academics/assignments/accessor"
	"lms_backend/internals/features/academics/assignments/model"
	"lms_backend/internals/helpers/state"
	"lms_backend/internals/remote"
)

type AssignmentRepository interface {
	// FetchAssignments: urut due_date terdekat dulu.
	FetchAssignments(ctx context.Context, courseID uint, opts state.FetchOptions) *state.Stream[[]model.AssignmentModel]
	CreateAssignment(ctx context.Context, a model.AssignmentModel) *state.Stream[model.AssignmentModel]
}

type assignmentRepository struct {
	backend     remote.Backend
	assignments accessor.Assignments
}

func NewAssignmentRepository(store *database.Store, backend remote.Backend) AssignmentRepository {
	return &assignmentRepository{
		backend:     backend,
		assignments: accessor.NewAssignments(store),
	}
}

func (r *assignmentRepository) FetchAssignments(ctx context.Context, courseID uint, opts state.FetchOptions) *state.Stream[[]model.AssignmentModel] {
	return state.Load(ctx, state.Source[[]model.AssignmentModel, []model.AssignmentModel]{
		Cache: func(ctx context.Context) ([]model.AssignmentModel, error) {
			return r.assignments.ListByCourse(ctx, courseID)
		},
		IsEmpty: state.EmptySlice[model.AssignmentModel],
		Fetch: func(ctx context.Context) ([]model.AssignmentModel, error) {
			res, err := r.backend.Fetch(ctx, remote.KindAssignments, remote.Filter{
				"course_id": strconv.FormatUint(uint64(courseID), 10),
			})
			if err != nil {
				return nil, err
			}
			return remote.As[[]model.AssignmentModel](res)
		},
		Save: func(ctx context.Context, rows []model.AssignmentModel) error {
			return r.assignments.Upsert(ctx, rows...)
		},
	}, opts.Refresh)
}

func (r *assignmentRepository) CreateAssignment(ctx context.Context, a model.AssignmentModel) *state.Stream[model.AssignmentModel] {
	return state.Submit(ctx, func(ctx context.Context) (model.AssignmentModel, error) {
		if strings.TrimSpace(a.ID) == "" {
			a.ID = uuid.NewString()
		}
		if err := a.Validate(); err != nil {
			return a, database.InvalidEntity("create", "assignment", err)
		}

		res, err := r.backend.Submit(ctx, remote.KindAssignments, a)
		if err != nil {
			return a, err
		}
		created := a
		if err := res.Decode(&created); err != nil {
			return a, err
		}
		if err := ctx.Err(); err != nil {
			return a, err
		}
		if created.ID == "" {
			created.ID = a.ID
		}
		if err := r.assignments.Upsert(ctx, created); err != nil {
			return a, err
		}
		return created, nil
	}, nil)
}
