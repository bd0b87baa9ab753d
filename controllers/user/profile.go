package userController

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
)

func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	reqData := new(struct {
		Name         *string `json:"name"`
		Bio          *string `json:"bio"`
		ProfileImage *string `json:"profile_image"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Name != nil {
		name := strings.TrimSpace(*reqData.Name)
		if len(name) < 2 {
			return middleware.ValidationErrorResponse(c, map[string]string{"name": "Name must be at least 2 characters long!"})
		}
		user.Name = name
	}
	if reqData.Bio != nil {
		user.Bio = strings.TrimSpace(*reqData.Bio)
	}
	if reqData.ProfileImage != nil {
		user.ProfileImage = strings.TrimSpace(*reqData.ProfileImage)
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// ApproveInstructor flips a PENDING instructor account to APPROVED (admin only).
func ApproveInstructor(c *fiber.Ctx) error {
	targetID, ok := c.Locals("targetUserID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.Role != models.RoleInstructor || user.Status != models.UserPending {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User is not a pending instructor!", nil)
	}

	if err := database.Database.Db.Model(&user).Update("status", models.UserApproved).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve instructor!", nil)
	}

	go utils.SendInstructorApprovedEmail(user.Email, user.Name)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructor approved successfully!", user)
}
