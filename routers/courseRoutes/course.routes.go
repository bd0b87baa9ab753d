package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"
)

// SetupCourseRoutes sets up catalog, instructor, and admin course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (any authenticated user)
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Lesson viewing (enrolled students and the owning instructor)
	courseGroup.Get("/:id/module/:module_id/lessons",
		middleware.JWTMiddleware,
		validators.CourseID(), validators.ModuleID(),
		controllers.ListLessons)

	// Instructor course management
	instructorOnly := middleware.RequireRoles(models.RoleInstructor)

	instructorGroup := app.Group("/instructor/course", middleware.JWTMiddleware, instructorOnly)
	instructorGroup.Get("/list", controllers.GetOwnCourses)
	instructorGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	instructorGroup.Put("/:id", validators.CourseID(), validators.CreateCourse(), controllers.UpdateCourse)
	instructorGroup.Post("/:id/archive", validators.CourseID(), controllers.ArchiveCourse)

	// Module management
	instructorGroup.Get("/:id/modules", validators.CourseID(), controllers.ListModules)
	instructorGroup.Post("/:id/module", validators.CourseID(), validators.CreateModule(), controllers.CreateModule)
	instructorGroup.Put("/:id/module/:module_id", validators.CourseID(), validators.ModuleID(), validators.CreateModule(), controllers.UpdateModule)
	instructorGroup.Delete("/:id/module/:module_id", validators.CourseID(), validators.ModuleID(), controllers.DeleteModule)

	// Lesson management
	instructorGroup.Post("/:id/module/:module_id/lesson",
		validators.CourseID(), validators.ModuleID(), validators.CreateLesson(),
		controllers.CreateLesson)
	instructorGroup.Put("/:id/module/:module_id/lesson/:lesson_id",
		validators.CourseID(), validators.ModuleID(), validators.LessonID(), validators.CreateLesson(),
		controllers.UpdateLesson)
	instructorGroup.Delete("/:id/module/:module_id/lesson/:lesson_id",
		validators.CourseID(), validators.ModuleID(), validators.LessonID(),
		controllers.DeleteLesson)

	// Admin course moderation
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin))
	adminGroup.Get("/list", validators.CourseList(), controllers.AdminGetAllCourses)
	adminGroup.Post("/:id/publish", validators.CourseID(), controllers.AdminPublishCourse)
	adminGroup.Post("/:id/reject", validators.CourseID(), controllers.AdminRejectCourse)
}
