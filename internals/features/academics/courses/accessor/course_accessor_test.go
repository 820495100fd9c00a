package accessor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "lms_backend/internals/databases"
	"lms_backend/internals/databases/databasetest"
	announcementAccessor "lms_backend/internals/features/academics/announcements/accessor"
	announcementModel "lms_backend/internals/features/academics/announcements/model"
	assignmentAccessor "lms_backend/internals/features/academics/assignments/accessor"
	assignmentModel "lms_backend/internals/features/academics/assignments/model"
	"lms_backend/internals/features/academics/courses/accessor"
	"lms_backend/internals/features/academics/courses/model"
	departmentAccessor "lms_backend/internals/features/academics/departments/accessor"
	userAccessor "lms_backend/internals/features/users/user/accessor"
	userModel "lms_backend/internals/features/users/user/model"
)

type fixture struct {
	store         *database.Store
	courses       accessor.Courses
	enrollments   accessor.Enrollments
	users         userAccessor.Users
	departments   departmentAccessor.Departments
	levels        departmentAccessor.Levels
	links         departmentAccessor.DepartmentLevels
	announcements announcementAccessor.Announcements
	assignments   assignmentAccessor.Assignments
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := databasetest.NewStore(t)
	return fixture{
		store:         s,
		courses:       accessor.NewCourses(s),
		enrollments:   accessor.NewEnrollments(s),
		users:         userAccessor.NewUsers(s),
		departments:   departmentAccessor.NewDepartments(s),
		levels:        departmentAccessor.NewLevels(s),
		links:         departmentAccessor.NewDepartmentLevels(s),
		announcements: announcementAccessor.NewAnnouncements(s),
		assignments:   assignmentAccessor.NewAssignments(s),
	}
}

func (f fixture) seededCourse(t *testing.T, title, department, level string) *model.CourseModel {
	t.Helper()
	ctx := context.Background()
	dep, err := f.departments.GetByName(ctx, department)
	require.NoError(t, err)
	lvl, err := f.levels.GetByName(ctx, level)
	require.NoError(t, err)

	c := &model.CourseModel{
		Title:        title,
		Code:         "csc101",
		DepartmentID: dep.ID,
		LevelID:      lvl.ID,
		Units:        3,
	}
	_, err = f.courses.Insert(ctx, c)
	require.NoError(t, err)
	return c
}

func (f fixture) user(t *testing.T, name string, role userModel.Role) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{UserName: name, Email: name + "@campus.test", Role: role, PasswordHash: "x"}
	_, err := f.users.Insert(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestDeletingDepartmentLeavesCourseIntact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c := f.seededCourse(t, "Intro to Programming", "Computer Science", "100 Level")
	assert.Equal(t, "CSC101", c.Code)

	detail, err := f.courses.GetDetail(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.DepartmentName)
	assert.Equal(t, "Computer Science", *detail.DepartmentName)
	require.NotNil(t, detail.LevelName)
	assert.Equal(t, "100 Level", *detail.LevelName)

	require.NoError(t, f.departments.Delete(ctx, c.DepartmentID))

	levels, err := f.links.LevelsForDepartment(ctx, c.DepartmentID)
	require.NoError(t, err)
	assert.Empty(t, levels)

	got, err := f.courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.DepartmentID, got.DepartmentID)

	detail, err = f.courses.GetDetail(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.DepartmentName)
	require.NotNil(t, detail.LevelName)

	byPair, err := f.courses.ListByDepartmentAndLevel(ctx, c.DepartmentID, c.LevelID)
	require.NoError(t, err)
	assert.Len(t, byPair, 1)
}

func TestDeleteUserRemovesExactlyItsEnrollments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c1 := f.seededCourse(t, "Algorithms", "Computer Science", "200 Level")
	c2 := f.seededCourse(t, "Calculus", "Mathematics", "100 Level")
	alice := f.user(t, "alice", userModel.RoleStudent)
	bob := f.user(t, "bob", userModel.RoleStudent)

	require.NoError(t, f.enrollments.Enroll(ctx, alice.ID, c1.ID))
	require.NoError(t, f.enrollments.Enroll(ctx, alice.ID, c2.ID))
	require.NoError(t, f.enrollments.Enroll(ctx, bob.ID, c1.ID))

	require.NoError(t, f.users.Delete(ctx, alice.ID))

	all, err := f.enrollments.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.UserCourseCrossRef{{UserID: bob.ID, CourseID: c1.ID}}, all)
}

func TestDeleteCourseRemovesExactlyItsDependents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c1 := f.seededCourse(t, "Algorithms", "Computer Science", "200 Level")
	c2 := f.seededCourse(t, "Calculus", "Mathematics", "100 Level")
	alice := f.user(t, "alice", userModel.RoleStudent)

	require.NoError(t, f.enrollments.Enroll(ctx, alice.ID, c1.ID))
	require.NoError(t, f.enrollments.Enroll(ctx, alice.ID, c2.ID))

	_, err := f.announcements.Insert(ctx, &announcementModel.AnnouncementModel{
		Title: "Welcome", Content: "Hello", AuthorID: "lect", CourseID: c1.ID,
	})
	require.NoError(t, err)
	_, err = f.assignments.Insert(ctx, &assignmentModel.AssignmentModel{
		Title: "HW1", DueDate: time.Now().Add(24 * time.Hour), CourseID: c1.ID,
	})
	require.NoError(t, err)
	keep, err := f.assignments.Insert(ctx, &assignmentModel.AssignmentModel{
		Title: "Limits", DueDate: time.Now().Add(24 * time.Hour), CourseID: c2.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.courses.Delete(ctx, c1.ID))

	all, err := f.enrollments.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.UserCourseCrossRef{{UserID: alice.ID, CourseID: c2.ID}}, all)

	anns, err := f.announcements.ListByCourse(ctx, c1.ID)
	require.NoError(t, err)
	assert.Empty(t, anns)

	rest, err := f.assignments.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, keep, rest[0].ID)

	// user tetap ada
	_, err = f.users.GetByID(ctx, alice.ID)
	assert.NoError(t, err)
}

func TestDuplicateEnrollmentIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c := f.seededCourse(t, "Algorithms", "Computer Science", "200 Level")
	alice := f.user(t, "alice", userModel.RoleStudent)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.enrollments.Enroll(ctx, alice.ID, c.ID))
	}

	all, err := f.enrollments.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	ok, err := f.enrollments.IsEnrolled(ctx, alice.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := f.enrollments.UsersForCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, ids)

	courses, err := f.enrollments.CoursesForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, c.ID, courses[0].ID)
}

func TestEnrollUnknownUserIsConstraintViolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.seededCourse(t, "Algorithms", "Computer Science", "200 Level")

	err := f.enrollments.Enroll(ctx, "nobody", c.ID)
	assert.ErrorIs(t, err, database.ErrConstraintViolation)

	all, err := f.enrollments.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteLecturerDetachesCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	lect := f.user(t, "drnwosu", userModel.RoleLecturer)
	c := f.seededCourse(t, "Algorithms", "Computer Science", "200 Level")
	c.LecturerID = &lect.ID
	require.NoError(t, f.courses.Update(ctx, c))

	owned, err := f.courses.ListByLecturer(ctx, lect.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	require.NoError(t, f.users.Delete(ctx, lect.ID))

	got, err := f.courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LecturerID)
}

func TestReplaceEnrollmentsForUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c1 := f.seededCourse(t, "Algorithms", "Computer Science", "200 Level")
	c2 := f.seededCourse(t, "Calculus", "Mathematics", "100 Level")
	alice := f.user(t, "alice", userModel.RoleStudent)
	require.NoError(t, f.enrollments.Enroll(ctx, alice.ID, c1.ID))

	require.NoError(t, f.enrollments.ReplaceForUser(ctx, alice.ID, []uint{c2.ID}))

	courses, err := f.enrollments.CoursesForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, c2.ID, courses[0].ID)
}

func TestCourseUpdateAndDeleteAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.courses.Update(ctx, &model.CourseModel{ID: 777, Title: "x", Code: "x", DepartmentID: 1, LevelID: 1})
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, f.courses.Delete(ctx, 777))
	assert.NoError(t, f.enrollments.Unenroll(ctx, "nobody", 777))

	_, err = f.courses.Insert(ctx, &model.CourseModel{Title: "", Code: "X", DepartmentID: 1, LevelID: 1})
	assert.ErrorIs(t, err, database.ErrConstraintViolation)
}

func TestUpsertAndListWithDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	dep, err := f.departments.GetByName(ctx, "Physics")
	require.NoError(t, err)
	lvl, err := f.levels.GetByName(ctx, "300 Level")
	require.NoError(t, err)

	remote := []model.CourseModel{
		{ID: 40, Title: "Quantum Mechanics", Code: "phy301", DepartmentID: dep.ID, LevelID: lvl.ID},
		{ID: 41, Title: "Optics", Code: "phy305", DepartmentID: dep.ID, LevelID: lvl.ID},
	}
	require.NoError(t, f.courses.Upsert(ctx, remote...))

	remote[1].Title = "Geometrical Optics"
	require.NoError(t, f.courses.Upsert(ctx, remote[1]))

	details, err := f.courses.ListWithDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Geometrical Optics", details[1].Title)
	require.NotNil(t, details[0].DepartmentName)
	assert.Equal(t, "Physics", *details[0].DepartmentName)
}

func TestListingIsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seededCourse(t, "Algorithms", "Computer Science", "200 Level")

	list, err := f.courses.ListAll(ctx)
	require.NoError(t, err)

	f.seededCourse(t, "Calculus", "Mathematics", "100 Level")
	assert.Len(t, list, 1)

	list, err = f.courses.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
