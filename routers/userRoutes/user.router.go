package userRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/user"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/user"
)

// SetupUserRoutes sets up profile and admin user-management routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, controllers.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, controllers.UpdateProfile)

	adminGroup := app.Group("/user/admin")
	adminGroup.Patch("/:id/approve",
		middleware.JWTMiddleware,
		middleware.RequireRoles(models.RoleAdmin),
		validators.UserID(),
		controllers.ApproveInstructor)
}
