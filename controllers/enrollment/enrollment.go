package enrollmentController

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	"lms/utils"
)

func enrollmentService() *services.EnrollmentService {
	return services.NewEnrollmentService(database.Database.Db)
}

// EnrollInCourse enrolls the requesting student into a course. First-time
// enrollments answer 201; reactivating a withdrawn enrollment answers 200.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	result, err := enrollmentService().Enroll(userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not available for enrollment!", nil)
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
		case errors.Is(err, services.ErrInvalidState):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment state does not allow re-enrollment!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
	}

	if result.Reactivated {
		go utils.NotifyEnrollmentEvent("enrollment.reactivated", userID, courseID, result.Enrollment.ID)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully re-enrolled in course!", result.Enrollment)
	}

	go utils.NotifyEnrollmentEvent("enrollment.created", userID, courseID, result.Enrollment.ID)
	go utils.SendEnrollmentEmail(userID, courseID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Successfully enrolled in course!", result.Enrollment)
}

// UnenrollFromCourse withdraws the requesting student's active enrollment.
func UnenrollFromCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if err := enrollmentService().Unenroll(userID, courseID); err != nil {
		if errors.Is(err, services.ErrNotEnrolled) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "You are not enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll from course!", nil)
	}

	go utils.NotifyEnrollmentEvent("enrollment.withdrawn", userID, courseID, 0)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully unenrolled from course!", nil)
}

// GetStudentEnrollments lists the requesting student's enrollments, filtered
// by status (ACTIVE by default, ALL for everything), newest first.
func GetStudentEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	status := c.Locals("statusFilter").(string)
	page := c.Locals("page").(int)
	limit := c.Locals("limit").(int)
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Enrollment{}).Where("user_id = ?", userID)
	if status != "ALL" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var enrollments []models.Enrollment
	if err := db.Preload("Course").Preload("Course.Instructor").
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

// GetMyCourses is the simplified courses view, ordered by recent access.
func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	status := c.Locals("statusFilter").(string)

	db := database.Database.Db.Where("user_id = ?", userID)
	if status != "ALL" {
		db = db.Where("status = ?", status)
	}

	var enrollments []models.Enrollment
	if err := db.Preload("Course").Preload("Course.Instructor").
		Order("last_accessed desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", enrollments)
}

// GetEnrollmentDetails returns one of the student's own enrollments with the
// course and its ordered modules.
func GetEnrollmentDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	var enrollment models.Enrollment
	if err := database.Database.Db.Preload("Course").Preload("Course.Instructor").
		Where("id = ? AND user_id = ?", enrollmentID, userID).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	var modules []models.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Order("order_index asc").Find(&modules)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"modules":    modules,
	})
}
