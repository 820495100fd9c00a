package accessor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "lms_backend/internals/databases"
	"lms_backend/internals/databases/databasetest"
	"lms_backend/internals/features/academics/announcements/accessor"
	"lms_backend/internals/features/academics/announcements/model"
	courseAccessor "lms_backend/internals/features/academics/courses/accessor"
	courseModel "lms_backend/internals/features/academics/courses/model"
)

func setup(t *testing.T) (accessor.Announcements, uint) {
	t.Helper()
	store := databasetest.NewStore(t)
	c := &courseModel.CourseModel{Title: "Algorithms", Code: "CSC201", DepartmentID: 1, LevelID: 2}
	id, err := courseAccessor.NewCourses(store).Insert(context.Background(), c)
	require.NoError(t, err)
	return accessor.NewAnnouncements(store), id
}

func TestAnnouncementsOrderedByTimestampThenInsertion(t *testing.T) {
	ctx := context.Background()
	anns, courseID := setup(t)

	insert := func(title string, ts int64) {
		_, err := anns.Insert(ctx, &model.AnnouncementModel{
			Title: title, Content: "c", AuthorID: "lect", Timestamp: ts, CourseID: courseID,
		})
		require.NoError(t, err)
	}
	insert("second", 2000)
	insert("tie-a", 1000)
	insert("tie-b", 1000)
	insert("first", 500)

	list, err := anns.ListByCourse(ctx, courseID)
	require.NoError(t, err)

	var titles []string
	for _, a := range list {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"first", "tie-a", "tie-b", "second"}, titles)
}

func TestAnnouncementForMissingCourse(t *testing.T) {
	anns, _ := setup(t)
	_, err := anns.Insert(context.Background(), &model.AnnouncementModel{
		Title: "x", Content: "y", AuthorID: "lect", Timestamp: 1, CourseID: 9999,
	})
	assert.ErrorIs(t, err, database.ErrConstraintViolation)
}

func TestAnnouncementUpdateDeleteUpsert(t *testing.T) {
	ctx := context.Background()
	anns, courseID := setup(t)

	a := &model.AnnouncementModel{Title: "Exam", Content: "Friday", AuthorID: "lect", Timestamp: 10, CourseID: courseID}
	id, err := anns.Insert(ctx, a)
	require.NoError(t, err)

	a.Content = "Saturday"
	require.NoError(t, anns.Update(ctx, a))
	got, err := anns.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Saturday", got.Content)

	ghost := *a
	ghost.ID = "nope"
	assert.ErrorIs(t, anns.Update(ctx, &ghost), database.ErrNotFound)

	require.NoError(t, anns.Upsert(ctx,
		model.AnnouncementModel{ID: id, Title: "Exam", Content: "Sunday", AuthorID: "lect", Timestamp: 10, CourseID: courseID},
		model.AnnouncementModel{ID: "r-1", Title: "Lab", Content: "Room 4", AuthorID: "lect", Timestamp: 5, CourseID: courseID},
	))
	list, err := anns.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r-1", list[0].ID)
	assert.Equal(t, "Sunday", list[1].Content)

	require.NoError(t, anns.Delete(ctx, id))
	require.NoError(t, anns.Delete(ctx, id))
	_, err = anns.GetByID(ctx, id)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
