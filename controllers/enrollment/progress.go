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

// GetCourseProgress reports progress for one of the student's enrollments.
// The percentage is computed fresh from the current module count, so a
// changed course layout is reflected immediately.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	var enrollment models.Enrollment
	if err := database.Database.Db.
		Where("id = ? AND user_id = ?", enrollmentID, userID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	totalModules, err := enrollmentService().TotalModules(enrollment.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment_id":     enrollment.ID,
		"course_id":         enrollment.CourseID,
		"progress":          services.ComputeProgress(enrollment.CompletedModules, totalModules),
		"completed_modules": enrollment.CompletedModules,
		"total_modules":     totalModules,
		"status":            enrollment.Status,
		"enrolled_at":       enrollment.EnrolledAt,
		"last_accessed":     enrollment.LastAccessed,
	})
}

// UpdateProgress patches completed module count and/or last access time on
// one of the student's enrollments.
func UpdateProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	reqData, ok := c.Locals("validatedProgress").(*enrollmentValidator.ProgressUpdateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := enrollmentService().UpdateProgress(enrollmentID, userID, services.ProgressUpdate{
		CompletedModules: reqData.CompletedModules,
		LastAccessed:     reqData.LastAccessedAt,
	})
	if err != nil {
		if errors.Is(err, services.ErrEnrollmentNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}
