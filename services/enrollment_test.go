package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lms/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and serializes
	// concurrent transactions at the pool.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Module{},
		&models.Enrollment{},
	))
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, status models.CourseStatus, active bool, moduleCount int) *models.Course {
	t.Helper()

	course := models.Course{
		Title:        "Test Course",
		Description:  "A course used in tests",
		InstructorID: 42,
		Status:       status,
		IsActive:     active,
	}
	require.NoError(t, db.Create(&course).Error)

	for i := 0; i < moduleCount; i++ {
		module := models.Module{CourseID: course.ID, Title: "Module", OrderIndex: i}
		require.NoError(t, db.Create(&module).Error)
	}
	return &course
}

func reloadCourse(t *testing.T, db *gorm.DB, id uint) *models.Course {
	t.Helper()
	var course models.Course
	require.NoError(t, db.First(&course, id).Error)
	return &course
}

func TestEnrollCreatesActiveEnrollment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)
	assert.False(t, result.Reactivated)
	assert.Equal(t, models.EnrollmentActive, result.Enrollment.Status)
	assert.NotNil(t, result.Enrollment.EnrolledAt)
	assert.NotNil(t, result.Enrollment.LastAccessed)
	assert.Equal(t, 0, result.Enrollment.CompletedModules)
	assert.Equal(t, float64(0), result.Enrollment.Progress)

	assert.Equal(t, 1, reloadCourse(t, db, course.ID).EnrollmentCount)
}

func TestEnrollTwiceFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	_, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(1, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	var rows int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", 1, course.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)
	assert.Equal(t, 1, reloadCourse(t, db, course.ID).EnrollmentCount)
}

func TestEnrollRequiresPublishedActiveCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)

	draft := seedCourse(t, db, models.CourseDraft, true, 0)
	_, err := svc.Enroll(1, draft.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	inactive := seedCourse(t, db, models.CoursePublished, false, 0)
	_, err = svc.Enroll(1, inactive.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.Enroll(1, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUnenrollWithdraws(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	_, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(1, course.ID))

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, models.EnrollmentWithdrawn, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, 0, reloadCourse(t, db, course.ID).EnrollmentCount)
}

func TestUnenrollNotEnrolled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	err := svc.Unenroll(1, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
	assert.Equal(t, 0, reloadCourse(t, db, course.ID).EnrollmentCount)

	// withdrawing twice is also NotEnrolled and must not double-decrement
	_, err = svc.Enroll(1, course.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Unenroll(1, course.ID))
	err = svc.Unenroll(1, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
	assert.Equal(t, 0, reloadCourse(t, db, course.ID).EnrollmentCount)
}

func TestReenrollPreservesProgress(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 4)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	two := 2
	_, err = svc.UpdateProgress(result.Enrollment.ID, 1, ProgressUpdate{CompletedModules: &two})
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(1, course.ID))
	assert.Equal(t, 0, reloadCourse(t, db, course.ID).EnrollmentCount)

	reenrolled, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)
	assert.True(t, reenrolled.Reactivated)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, course.ID).First(&enrollment).Error)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Equal(t, 2, enrollment.CompletedModules)
	assert.Equal(t, float64(50), enrollment.Progress)

	// reactivation increments symmetrically with the withdrawal decrement
	assert.Equal(t, 1, reloadCourse(t, db, course.ID).EnrollmentCount)
}

func TestEnrollCompletedOrSuspendedFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 2)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	all := 2
	_, err = svc.UpdateProgress(result.Enrollment.ID, 1, ProgressUpdate{CompletedModules: &all})
	require.NoError(t, err)

	_, err = svc.Enroll(1, course.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	// suspended rows are equally blocked from self-service re-enrollment
	_, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentSuspended, Actor{ID: 7, Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Enroll(1, course.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateProgressCompletesEnrollment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)
	countBefore := reloadCourse(t, db, course.ID).EnrollmentCount

	three := 3
	updated, err := svc.UpdateProgress(result.Enrollment.ID, 1, ProgressUpdate{CompletedModules: &three})
	require.NoError(t, err)

	assert.Equal(t, models.EnrollmentCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, float64(100), updated.Progress)

	// completion keeps membership, so the counter must not move
	assert.Equal(t, countBefore, reloadCourse(t, db, course.ID).EnrollmentCount)
}

func TestUpdateProgressClampsCompletedModules(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	ten := 10
	updated, err := svc.UpdateProgress(result.Enrollment.ID, 1, ProgressUpdate{CompletedModules: &ten})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.CompletedModules)
	assert.Equal(t, float64(100), updated.Progress)

	negative := -5
	db2 := setupTestDB(t)
	svc2 := NewEnrollmentService(db2)
	course2 := seedCourse(t, db2, models.CoursePublished, true, 3)
	result2, err := svc2.Enroll(1, course2.ID)
	require.NoError(t, err)
	updated2, err := svc2.UpdateProgress(result2.Enrollment.ID, 1, ProgressUpdate{CompletedModules: &negative})
	require.NoError(t, err)
	assert.Equal(t, 0, updated2.CompletedModules)
	assert.Equal(t, float64(0), updated2.Progress)
}

func TestUpdateProgressZeroModuleCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 0)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	five := 5
	updated, err := svc.UpdateProgress(result.Enrollment.ID, 1, ProgressUpdate{CompletedModules: &five})
	require.NoError(t, err)

	// zero modules means zero progress and no completion trigger
	assert.Equal(t, 0, updated.CompletedModules)
	assert.Equal(t, float64(0), updated.Progress)
	assert.Equal(t, models.EnrollmentActive, updated.Status)
}

func TestUpdateProgressLastAccessed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateProgress(result.Enrollment.ID, 1, ProgressUpdate{LastAccessed: &at})
	require.NoError(t, err)
	require.NotNil(t, updated.LastAccessed)
	assert.True(t, updated.LastAccessed.Equal(at))
	// progress fields untouched
	assert.Equal(t, 0, updated.CompletedModules)
	assert.Equal(t, models.EnrollmentActive, updated.Status)
}

func TestUpdateProgressWrongUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	one := 1
	_, err = svc.UpdateProgress(result.Enrollment.ID, 2, ProgressUpdate{CompletedModules: &one})
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestSetStatusPermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3) // instructor 42

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	// a different instructor may not touch it
	_, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentSuspended, Actor{ID: 7, Role: models.RoleInstructor})
	assert.ErrorIs(t, err, ErrForbidden)

	// students never may
	_, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentSuspended, Actor{ID: 1, Role: models.RoleStudent})
	assert.ErrorIs(t, err, ErrForbidden)

	// the owning instructor may
	updated, err := svc.SetStatus(result.Enrollment.ID, models.EnrollmentSuspended, Actor{ID: 42, Role: models.RoleInstructor})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentSuspended, updated.Status)

	// and so may an admin
	updated, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentActive, Actor{ID: 99, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentActive, updated.Status)
}

func TestSetStatusValidatesTransitions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 2)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	all := 2
	_, err = svc.UpdateProgress(result.Enrollment.ID, 1, ProgressUpdate{CompletedModules: &all})
	require.NoError(t, err)

	// COMPLETED cannot be overridden back to ACTIVE
	_, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentActive, Actor{ID: 99, Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// unknown target status is refused
	_, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentStatus("PAUSED"), Actor{ID: 99, Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.SetStatus(9999, models.EnrollmentSuspended, Actor{ID: 99, Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestSetStatusAdjustsCounter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	result, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloadCourse(t, db, course.ID).EnrollmentCount)

	// ACTIVE -> SUSPENDED leaves membership, counter drops
	_, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentSuspended, Actor{ID: 99, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 0, reloadCourse(t, db, course.ID).EnrollmentCount)

	// SUSPENDED -> ACTIVE rejoins, counter rises
	_, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentActive, Actor{ID: 99, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, reloadCourse(t, db, course.ID).EnrollmentCount)

	// ACTIVE -> WITHDRAWN leaves membership again
	_, err = svc.SetStatus(result.Enrollment.ID, models.EnrollmentWithdrawn, Actor{ID: 99, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 0, reloadCourse(t, db, course.ID).EnrollmentCount)
}

func TestReconcileRepairsDrift(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	_, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(2, course.ID)
	require.NoError(t, err)

	count, drifted, err := svc.Reconcile(course.ID)
	require.NoError(t, err)
	assert.False(t, drifted)
	assert.EqualValues(t, 2, count)

	// corrupt the counter behind the service's back
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", course.ID).
		UpdateColumn("enrollment_count", 17).Error)

	count, drifted, err = svc.Reconcile(course.ID)
	require.NoError(t, err)
	assert.True(t, drifted)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, 2, reloadCourse(t, db, course.ID).EnrollmentCount)

	_, _, err = svc.Reconcile(9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestConcurrentEnrollSamePair(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEnrollmentService(db)
	course := seedCourse(t, db, models.CoursePublished, true, 3)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Enroll(1, course.ID)
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyEnrolled):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	var rows int64
	db.Model(&models.Enrollment{}).Where("user_id = ? AND course_id = ?", 1, course.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)
	assert.Equal(t, 1, reloadCourse(t, db, course.ID).EnrollmentCount)
}
