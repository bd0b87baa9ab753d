package courseController

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
)

// AdminPublishCourse moves a DRAFT course to PUBLISHED so it becomes
// enrollable.
func AdminPublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Status != models.CourseDraft {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only draft courses can be published!", nil)
	}

	if err := database.Database.Db.Model(&course).
		Updates(map[string]interface{}{"status": models.CoursePublished, "is_active": true}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

// AdminRejectCourse marks a DRAFT course as REJECTED.
func AdminRejectCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Status != models.CourseDraft {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only draft courses can be rejected!", nil)
	}

	if err := database.Database.Db.Model(&course).
		Updates(map[string]interface{}{"status": models.CourseRejected, "is_active": false}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course rejected!", course)
}

// AdminGetAllCourses lists courses in any status with pagination.
func AdminGetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = ?", false)

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Preload("Instructor").Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}
