package enrollmentRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/enrollment"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/enrollment"
)

// SetupEnrollmentRoutes sets up student, instructor and admin enrollment routes
func SetupEnrollmentRoutes(app *fiber.App) {
	group := app.Group("/enrollment", middleware.JWTMiddleware)

	studentOnly := middleware.RequireRoles(models.RoleStudent)

	// Instructor enrollment management
	instructorGroup := group.Group("/instructor", middleware.RequireRoles(models.RoleInstructor))
	instructorGroup.Get("/:courseId/students", validators.CourseID(), controllers.GetCourseStudents)
	instructorGroup.Get("/:courseId/analytics", validators.CourseID(), controllers.GetEnrollmentAnalytics)
	instructorGroup.Patch("/:id/status", validators.EnrollmentID(), validators.UpdateStatus(), controllers.UpdateEnrollmentStatus)

	// Admin enrollment management
	adminGroup := group.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	adminGroup.Get("/all", validators.AdminList(), controllers.AdminGetAllEnrollments)
	adminGroup.Get("/analytics", validators.AnalyticsPeriod(), controllers.AdminGetEnrollmentAnalytics)
	adminGroup.Patch("/:id/status", validators.EnrollmentID(), validators.UpdateStatus(), controllers.AdminUpdateEnrollmentStatus)

	// Student enrollment management
	group.Get("/", studentOnly, validators.ListEnrollments(), controllers.GetStudentEnrollments)
	group.Get("/my-courses", studentOnly, validators.ListEnrollments(), controllers.GetMyCourses)
	group.Get("/:id", studentOnly, validators.EnrollmentID(), controllers.GetEnrollmentDetails)
	group.Post("/:courseId/enroll", studentOnly, validators.CourseID(), controllers.EnrollInCourse)
	group.Post("/:courseId/unenroll", studentOnly, validators.CourseID(), controllers.UnenrollFromCourse)
	group.Get("/:id/progress", studentOnly, validators.EnrollmentID(), controllers.GetCourseProgress)
	group.Patch("/:id/progress", studentOnly, validators.EnrollmentID(), validators.UpdateProgress(), controllers.UpdateProgress)
}
