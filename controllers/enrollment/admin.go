package enrollmentController

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	enrollmentValidator "lms/validators/enrollment"
)

// AdminGetAllEnrollments lists enrollments across the system with optional
// status/course/user filters and pagination.
func AdminGetAllEnrollments(c *fiber.Ctx) error {
	page := c.Locals("page").(int)
	limit := c.Locals("limit").(int)
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Enrollment{})
	if status := strings.ToUpper(c.Query("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if courseID := c.QueryInt("courseId"); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}
	if userID := c.QueryInt("userId"); userID > 0 {
		db = db.Where("user_id = ?", userID)
	}

	var total int64
	db.Count(&total)

	var enrollments []models.Enrollment
	if err := db.Preload("User").Preload("Course").Preload("Course.Instructor").
		Offset(offset).Limit(limit).Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}

// AdminGetEnrollmentAnalytics reports system-wide enrollment trends over a
// trailing window, the status distribution, and the completion rate.
func AdminGetEnrollmentAnalytics(c *fiber.Ctx) error {
	period := c.Locals("period").(int)
	startDate := time.Now().AddDate(0, 0, -period)

	type trendRow struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}
	var trends []trendRow
	if err := database.Database.Db.Model(&models.Enrollment{}).
		Select("DATE(enrolled_at) AS date, COUNT(id) AS count").
		Where("enrolled_at >= ?", startDate).
		Group("DATE(enrolled_at)").
		Order("DATE(enrolled_at) ASC").
		Scan(&trends).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch analytics!", nil)
	}

	type statusCount struct {
		Status models.EnrollmentStatus `json:"status"`
		Count  int64                   `json:"count"`
	}
	var distribution []statusCount
	database.Database.Db.Model(&models.Enrollment{}).
		Select("status, COUNT(id) AS count").
		Group("status").Scan(&distribution)

	var total, completed int64
	for _, sc := range distribution {
		total += sc.Count
		if sc.Status == models.EnrollmentCompleted {
			completed = sc.Count
		}
	}
	completionRate := 0.0
	if total > 0 {
		completionRate = services.ComputeProgress(int(completed), int(total))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"enrollment_trends":   trends,
		"status_distribution": distribution,
		"completion_stats": fiber.Map{
			"total_enrollments":     total,
			"completed_enrollments": completed,
			"completion_rate":       completionRate,
		},
		"period": period,
	})
}

// AdminUpdateEnrollmentStatus is the admin status override for any enrollment.
func AdminUpdateEnrollmentStatus(c *fiber.Ctx) error {
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
		Role: models.RoleAdmin,
	})
	if err != nil {
		return statusOverrideError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status updated successfully!", enrollment)
}
