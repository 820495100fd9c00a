package accessor

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "lms_backend/internals/databases"
	announcementModel "lms_backend/internals/features/academics/announcements/model"
	assignmentModel "lms_backend/internals/features/academics/assignments/model"
	"lms_backend/internals/features/academics/courses/model"
)

type Courses interface {
	Insert(ctx context.Context, c *model.CourseModel) (uint, error)
	Update(ctx context.Context, c *model.CourseModel) error
	Delete(ctx context.Context, id uint) error
	Upsert(ctx context.Context, courses ...model.CourseModel) error

	GetByID(ctx context.Context, id uint) (*model.CourseModel, error)
	GetDetail(ctx context.Context, id uint) (*model.CourseDetail, error)
	ListAll(ctx context.Context) ([]model.CourseModel, error)
	ListByDepartmentAndLevel(ctx context.Context, departmentID, levelID uint) ([]model.CourseModel, error)
	ListByLecturer(ctx context.Context, lecturerID string) ([]model.CourseModel, error)
	// ListWithDetails: course + nama department & level.
	ListWithDetails(ctx context.Context) ([]model.CourseDetail, error)
}

type courseAccessor struct {
	store *database.Store
}

func NewCourses(store *database.Store) Courses {
	return &courseAccessor{store: store}
}

const entityCourse = "course"

func (a *courseAccessor) Insert(ctx context.Context, c *model.CourseModel) (uint, error) {
	if err := c.Validate(); err != nil {
		return 0, database.InvalidEntity("insert", entityCourse, err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error { return tx.Omit(clause.Associations).Create(c).Error })
	if err != nil {
		return 0, database.NewWriteError("insert", entityCourse, err)
	}
	return c.ID, nil
}

func (a *courseAccessor) Update(ctx context.Context, c *model.CourseModel) error {
	if err := c.Validate(); err != nil {
		return database.InvalidEntity("update", entityCourse, err)
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.CourseModel{}).Where("id = ?", c.ID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return database.NotFound("update", entityCourse, c.ID)
		}
		return tx.Model(&model.CourseModel{ID: c.ID}).Select("*").Omit("id", clause.Associations).Updates(c).Error
	})
	return database.NewWriteError("update", entityCourse, err)
}

// Delete: enrollment, announcement, assignment milik course ikut terhapus
// dalam satu transaksi. Key yang tidak ada dianggap sukses.
func (a *courseAccessor) Delete(ctx context.Context, id uint) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return deleteCourseTx(tx, id)
	})
	return database.NewWriteError("delete", entityCourse, err)
}

func deleteCourseTx(tx *gorm.DB, id uint) error {
	if err := tx.Where("course_id = ?", id).Delete(&model.UserCourseCrossRef{}).Error; err != nil {
		return err
	}
	if err := tx.Where("course_id = ?", id).Delete(&announcementModel.AnnouncementModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("course_id = ?", id).Delete(&assignmentModel.AssignmentModel{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.CourseModel{}, id).Error
}

// Upsert: baris dari remote menimpa baris lokal dengan id yang sama.
func (a *courseAccessor) Upsert(ctx context.Context, courses ...model.CourseModel) error {
	if len(courses) == 0 {
		return nil
	}
	for i := range courses {
		if err := courses[i].Validate(); err != nil {
			return database.InvalidEntity("upsert", entityCourse, err)
		}
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
			Create(&courses).Error
	})
	return database.NewWriteError("upsert", entityCourse, err)
}

func (a *courseAccessor) GetByID(ctx context.Context, id uint) (*model.CourseModel, error) {
	var c model.CourseModel
	if err := a.store.Read(ctx, func(tx *gorm.DB) error { return tx.First(&c, id).Error }); err != nil {
		return nil, database.Classify(err)
	}
	return &c, nil
}

func detailQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("courses").
		Select("courses.*, departments.name AS department_name, levels.name AS level_name").
		Joins("LEFT JOIN departments ON departments.id = courses.department_id").
		Joins("LEFT JOIN levels ON levels.id = courses.level_id")
}

func (a *courseAccessor) GetDetail(ctx context.Context, id uint) (*model.CourseDetail, error) {
	var rows []model.CourseDetail
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return detailQuery(tx).Where("courses.id = ?", id).Limit(1).Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, database.Classify(gorm.ErrRecordNotFound)
	}
	return &rows[0], nil
}

func (a *courseAccessor) ListWithDetails(ctx context.Context) ([]model.CourseDetail, error) {
	var out []model.CourseDetail
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return detailQuery(tx).Order("courses.id ASC").Scan(&out).Error
	})
	return out, err
}

func (a *courseAccessor) list(ctx context.Context, query string, args ...any) ([]model.CourseModel, error) {
	var out []model.CourseModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		q := tx
		if query != "" {
			q = q.Where(query, args...)
		}
		return q.Order("id ASC").Find(&out).Error
	})
	return out, err
}

func (a *courseAccessor) ListAll(ctx context.Context) ([]model.CourseModel, error) {
	return a.list(ctx, "")
}

func (a *courseAccessor) ListByDepartmentAndLevel(ctx context.Context, departmentID, levelID uint) ([]model.CourseModel, error) {
	return a.list(ctx, "department_id = ? AND level_id = ?", departmentID, levelID)
}

func (a *courseAccessor) ListByLecturer(ctx context.Context, lecturerID string) ([]model.CourseModel, error) {
	return a.list(ctx, "lecturer_id = ?", lecturerID)
}

/* =========================
   Enrollments (user ↔ course)
========================= */

type Enrollments interface {
	// Enroll pasangan yang sudah ada = sukses tanpa baris baru.
	Enroll(ctx context.Context, userID string, courseID uint) error
	Unenroll(ctx context.Context, userID string, courseID uint) error
	// ReplaceForUser: daftar course user disamakan dengan courseIDs (write-through).
	ReplaceForUser(ctx context.Context, userID string, courseIDs []uint) error
	IsEnrolled(ctx context.Context, userID string, courseID uint) (bool, error)
	ListAll(ctx context.Context) ([]model.UserCourseCrossRef, error)
	CoursesForUser(ctx context.Context, userID string) ([]model.CourseModel, error)
	UsersForCourse(ctx context.Context, courseID uint) ([]string, error)
}

type enrollmentAccessor struct {
	store *database.Store
}

func NewEnrollments(store *database.Store) Enrollments {
	return &enrollmentAccessor{store: store}
}

func (a *enrollmentAccessor) Enroll(ctx context.Context, userID string, courseID uint) error {
	if userID == "" || courseID == 0 {
		return database.InvalidEntity("insert", "enrollment", errors.New("user_id dan course_id wajib diisi"))
	}
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.UserCourseCrossRef{UserID: userID, CourseID: courseID}).Error
	})
	return database.NewWriteError("insert", "enrollment", err)
}

func (a *enrollmentAccessor) Unenroll(ctx context.Context, userID string, courseID uint) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		return tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			Delete(&model.UserCourseCrossRef{}).Error
	})
	return database.NewWriteError("delete", "enrollment", err)
}

func (a *enrollmentAccessor) ReplaceForUser(ctx context.Context, userID string, courseIDs []uint) error {
	err := a.store.Write(ctx, func(tx *gorm.DB) error {
		q := tx.Where("user_id = ?", userID)
		if len(courseIDs) > 0 {
			q = q.Where("course_id NOT IN ?", courseIDs)
		}
		if err := q.Delete(&model.UserCourseCrossRef{}).Error; err != nil {
			return err
		}
		for _, cid := range courseIDs {
			err := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.UserCourseCrossRef{UserID: userID, CourseID: cid}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	return database.NewWriteError("replace", "enrollment", err)
}

func (a *enrollmentAccessor) IsEnrolled(ctx context.Context, userID string, courseID uint) (bool, error) {
	var n int64
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Model(&model.UserCourseCrossRef{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Count(&n).Error
	})
	return n > 0, err
}

func (a *enrollmentAccessor) ListAll(ctx context.Context) ([]model.UserCourseCrossRef, error) {
	var out []model.UserCourseCrossRef
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Order("user_id ASC, course_id ASC").Find(&out).Error
	})
	return out, err
}

func (a *enrollmentAccessor) CoursesForUser(ctx context.Context, userID string) ([]model.CourseModel, error) {
	var out []model.CourseModel
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Joins("JOIN user_course_cross_refs ucr ON ucr.course_id = courses.id").
			Where("ucr.user_id = ?", userID).
			Order("courses.id ASC").
			Find(&out).Error
	})
	return out, err
}

func (a *enrollmentAccessor) UsersForCourse(ctx context.Context, courseID uint) ([]string, error) {
	var out []string
	err := a.store.Read(ctx, func(tx *gorm.DB) error {
		return tx.Model(&model.UserCourseCrossRef{}).
			Where("course_id = ?", courseID).
			Order("user_id ASC").
			Pluck("user_id", &out).Error
	})
	return out, err
}
