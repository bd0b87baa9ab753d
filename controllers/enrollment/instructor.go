package enrollmentController

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	enrollmentValidator "lms/validators/enrollment"
)

// GetCourseStudents lists every enrollment on a course owned by the
// requesting instructor, newest first.
func GetCourseStudents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.
		Where("id = ? AND instructor_id = ? AND is_deleted = ?", courseID, userID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Preload("User").
		Where("course_id = ?", courseID).
		Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", enrollments)
}

// GetEnrollmentAnalytics returns status counts and the progress spread for a
// course owned by the requesting instructor.
func GetEnrollmentAnalytics(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.
		Where("id = ? AND instructor_id = ? AND is_deleted = ?", courseID, userID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	type statusCount struct {
		Status models.EnrollmentStatus `json:"status"`
		Count  int64                   `json:"count"`
	}
	var statusCounts []statusCount
	if err := database.Database.Db.Model(&models.Enrollment{}).
		Select("status, COUNT(id) AS count").
		Where("course_id = ?", courseID).
		Group("status").Scan(&statusCounts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch analytics!", nil)
	}

	type progressStats struct {
		AvgProgress float64 `json:"avg_progress"`
		MaxProgress float64 `json:"max_progress"`
		MinProgress float64 `json:"min_progress"`
	}
	var stats progressStats
	database.Database.Db.Model(&models.Enrollment{}).
		Select("COALESCE(AVG(progress), 0) AS avg_progress, COALESCE(MAX(progress), 0) AS max_progress, COALESCE(MIN(progress), 0) AS min_progress").
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Scan(&stats)

	var total int64
	for _, sc := range statusCounts {
		total += sc.Count
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"enrollment_stats":  statusCounts,
		"progress_stats":    stats,
		"total_enrollments": total,
	})
}

// UpdateEnrollmentStatus is the instructor status override for enrollments on
// their own courses.
func UpdateEnrollmentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	reqData, ok := c.Locals("validatedStatus").(*enrollmentValidator.StatusUpdateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := enrollmentService().SetStatus(enrollmentID, reqData.Status, services.Actor{
		ID:   userID,
		Role: models.RoleInstructor,
	})
	if err != nil {
		return statusOverrideError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status updated successfully!", enrollment)
}

func statusOverrideError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEnrollmentNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	case errors.Is(err, services.ErrForbidden):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You don't have permission to modify this enrollment!", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Disallowed enrollment status transition!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment status!", nil)
	}
}
