package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"lms/models"
)

// EnrollmentService owns the enrollment ledger and the cached course
// enrollment counter. Every write to either goes through here inside a single
// transaction, so the counter can only change together with the ledger row
// that justifies it. Concurrent operations on the same (user, course) pair
// are serialized by the unique index on the pair plus conditional updates
// that assert the expected current status.
type EnrollmentService struct {
	db *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// EnrollResult distinguishes a first-time enrollment from a reactivation so
// handlers can answer 201 vs 200.
type EnrollResult struct {
	Enrollment  models.Enrollment
	Reactivated bool
}

// ProgressUpdate carries the optional fields of a progress patch. Nil means
// "leave unchanged".
type ProgressUpdate struct {
	CompletedModules *int
	LastAccessed     *time.Time
}

// Actor identifies who is performing a status override.
type Actor struct {
	ID   uint
	Role models.Role
}

// Enroll enrolls a student into a published, active course. A WITHDRAWN row
// for the pair is reactivated in place with its progress intact; the counter
// is incremented on every membership gain, symmetrically to the decrement
// done on withdrawal.
func (s *EnrollmentService) Enroll(userID, courseID uint) (*EnrollResult, error) {
	var result EnrollResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
		if !course.Enrollable() {
			return ErrCourseNotFound
		}

		now := time.Now()

		var existing models.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
		switch {
		case err == nil:
			switch existing.Status {
			case models.EnrollmentActive:
				return ErrAlreadyEnrolled
			case models.EnrollmentWithdrawn:
				// Reactivate in place. The status guard in the WHERE clause
				// makes a concurrent reactivation of the same row lose the
				// race instead of double-incrementing the counter.
				res := tx.Model(&models.Enrollment{}).
					Where("id = ? AND status = ?", existing.ID, models.EnrollmentWithdrawn).
					Updates(map[string]interface{}{
						"status":        models.EnrollmentActive,
						"enrolled_at":   now,
						"last_accessed": now,
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return ErrAlreadyEnrolled
				}
				if err := incrementEnrollmentCount(tx, courseID); err != nil {
					return err
				}
				existing.Status = models.EnrollmentActive
				existing.EnrolledAt = &now
				existing.LastAccessed = &now
				result = EnrollResult{Enrollment: existing, Reactivated: true}
				return nil
			default:
				// COMPLETED and SUSPENDED rows have no self-service
				// reactivation path.
				return ErrInvalidState
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			enrollment := models.Enrollment{
				UserID:       userID,
				CourseID:     courseID,
				Status:       models.EnrollmentActive,
				EnrolledAt:   &now,
				LastAccessed: &now,
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				// The unique (user_id, course_id) index turns a racing
				// duplicate insert into a conflict.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyEnrolled
				}
				return err
			}
			if err := incrementEnrollmentCount(tx, courseID); err != nil {
				return err
			}
			result = EnrollResult{Enrollment: enrollment}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Unenroll withdraws an ACTIVE enrollment and decrements the course counter.
func (s *EnrollmentService) Unenroll(userID, courseID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.EnrollmentActive).
			Updates(map[string]interface{}{
				"status":       models.EnrollmentWithdrawn,
				"completed_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotEnrolled
		}
		return decrementEnrollmentCount(tx, courseID)
	})
}

// UpdateProgress patches completedModules and/or lastAccessed on the caller's
// own enrollment. completedModules is clamped to [0, totalModules]; reaching
// the total on a course with at least one module completes the enrollment.
// Membership is unaffected, so the course counter is never touched here.
func (s *EnrollmentService) UpdateProgress(enrollmentID, userID uint, upd ProgressUpdate) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", enrollmentID, userID).First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}

		if upd.CompletedModules != nil {
			totalModules, err := countCourseModules(tx, enrollment.CourseID)
			if err != nil {
				return err
			}

			completed := *upd.CompletedModules
			if completed < 0 {
				completed = 0
			}
			if completed > totalModules {
				completed = totalModules
			}

			enrollment.CompletedModules = completed
			enrollment.Progress = ComputeProgress(completed, totalModules)

			if totalModules > 0 && completed >= totalModules &&
				models.CanTransition(enrollment.Status, models.EnrollmentCompleted) {
				now := time.Now()
				enrollment.Status = models.EnrollmentCompleted
				enrollment.CompletedAt = &now
			}
		}

		if upd.LastAccessed != nil {
			enrollment.LastAccessed = upd.LastAccessed
		}

		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// SetStatus is the instructor/admin status override. The transition is
// validated against the status table, and the course counter is adjusted by
// the membership delta so the override path cannot make it drift.
func (s *EnrollmentService) SetStatus(enrollmentID uint, newStatus models.EnrollmentStatus, actor Actor) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Course").First(&enrollment, enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}

		switch actor.Role {
		case models.RoleAdmin:
			// admins may override any enrollment
		case models.RoleInstructor:
			if enrollment.Course == nil || enrollment.Course.InstructorID != actor.ID {
				return ErrForbidden
			}
		default:
			return ErrForbidden
		}

		if !newStatus.Valid() || !models.CanTransition(enrollment.Status, newStatus) {
			return ErrInvalidTransition
		}

		prev := enrollment.Status
		res := tx.Model(&models.Enrollment{}).
			Where("id = ? AND status = ?", enrollment.ID, prev).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// someone changed the row between the read and the write
			return ErrInvalidTransition
		}
		enrollment.Status = newStatus

		switch {
		case !prev.Member() && newStatus.Member():
			return incrementEnrollmentCount(tx, enrollment.CourseID)
		case prev.Member() && !newStatus.Member():
			return decrementEnrollmentCount(tx, enrollment.CourseID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Reconcile recomputes a course's enrollment_count from the ledger (ACTIVE
// and COMPLETED rows are members). Returns the correct count and whether the
// stored value had drifted.
func (s *EnrollmentService) Reconcile(courseID uint) (int64, bool, error) {
	var members int64
	var drifted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		if err := tx.Model(&models.Enrollment{}).
			Where("course_id = ? AND status IN ?", courseID,
				[]models.EnrollmentStatus{models.EnrollmentActive, models.EnrollmentCompleted}).
			Count(&members).Error; err != nil {
			return err
		}

		if int64(course.EnrollmentCount) == members {
			return nil
		}
		drifted = true
		return tx.Model(&models.Course{}).Where("id = ?", courseID).
			UpdateColumn("enrollment_count", members).Error
	})
	return members, drifted, err
}

// TotalModules returns the active module count for a course.
func (s *EnrollmentService) TotalModules(courseID uint) (int, error) {
	return countCourseModules(s.db, courseID)
}

func countCourseModules(tx *gorm.DB, courseID uint) (int, error) {
	var total int64
	err := tx.Model(&models.Module{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&total).Error
	return int(total), err
}

func incrementEnrollmentCount(tx *gorm.DB, courseID uint) error {
	return tx.Model(&models.Course{}).Where("id = ?", courseID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + 1")).Error
}

// decrementEnrollmentCount floors at zero so a stray decrement can never push
// the counter negative.
func decrementEnrollmentCount(tx *gorm.DB, courseID uint) error {
	return tx.Model(&models.Course{}).Where("id = ? AND enrollment_count > 0", courseID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count - 1")).Error
}
