package courseController

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseValidator "lms/validators/course"
)

// CreateModule adds a module to an owned course.
func CreateModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	course, err := findOwnCourse(c, userID)
	if course == nil {
		return err
	}

	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module := models.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// UpdateModule edits a module of an owned course.
func UpdateModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	course, err := findOwnCourse(c, userID)
	if course == nil {
		return err
	}

	moduleID := c.Locals("moduleID").(uint)

	var module models.Module
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, course.ID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module.Title = reqData.Title
	module.Description = reqData.Description
	module.OrderIndex = reqData.OrderIndex

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule soft-deletes a module. Progress denominators shrink
// accordingly the next time progress is computed.
func DeleteModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	course, err := findOwnCourse(c, userID)
	if course == nil {
		return err
	}

	moduleID := c.Locals("moduleID").(uint)

	res := database.Database.Db.Model(&models.Module{}).
		Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, course.ID, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// ListModules returns the ordered modules of an owned course.
func ListModules(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	course, err := findOwnCourse(c, userID)
	if course == nil {
		return err
	}

	var modules []models.Module
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

// CreateLesson adds a lesson to a module of an owned course.
func CreateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	course, err := findOwnCourse(c, userID)
	if course == nil {
		return err
	}

	moduleID := c.Locals("moduleID").(uint)

	var module models.Module
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, course.ID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson := models.Lesson{
		ModuleID:   module.ID,
		Title:      reqData.Title,
		Content:    datatypes.JSON(reqData.Content),
		OrderIndex: reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// UpdateLesson edits a lesson in a module of an owned course.
func UpdateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	course, err := findOwnCourse(c, userID)
	if course == nil {
		return err
	}

	moduleID := c.Locals("moduleID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	var module models.Module
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, course.ID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var lesson models.Lesson
	if err := database.Database.Db.
		Where("id = ? AND module_id = ? AND is_deleted = ?", lessonID, module.ID, false).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson.Title = reqData.Title
	lesson.Content = datatypes.JSON(reqData.Content)
	lesson.OrderIndex = reqData.OrderIndex

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// DeleteLesson soft-deletes a lesson.
func DeleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	course, err := findOwnCourse(c, userID)
	if course == nil {
		return err
	}

	moduleID := c.Locals("moduleID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	var module models.Module
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, course.ID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	res := database.Database.Db.Model(&models.Lesson{}).
		Where("id = ? AND module_id = ? AND is_deleted = ?", lessonID, module.ID, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// ListLessons returns the ordered lessons of a module for an enrolled student
// or the owning instructor.
func ListLessons(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	moduleID := c.Locals("moduleID").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Owning instructors see lessons directly; everyone else has to hold a
	// membership enrollment on the course.
	if course.InstructorID != userID {
		var enrollment models.Enrollment
		err := database.Database.Db.
			Where("user_id = ? AND course_id = ? AND status IN ?", userID, courseID,
				[]models.EnrollmentStatus{models.EnrollmentActive, models.EnrollmentCompleted}).
			First(&enrollment).Error
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
		}
	}

	var module models.Module
	if err := database.Database.Db.
		Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).
		First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var lessons []models.Lesson
	if err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", fiber.Map{
		"module":  module,
		"lessons": lessons,
	})
}
