package enrollmentValidator

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models"
)

var validate = validator.New()

type ProgressUpdateRequest struct {
	CompletedModules *int    `json:"completed_modules" validate:"omitempty,gte=0"`
	LastAccessed     *string `json:"last_accessed"`

	// parsed form of LastAccessed, filled in by UpdateProgress
	LastAccessedAt *time.Time `json:"-"`
}

type StatusUpdateRequest struct {
	Status models.EnrollmentStatus `json:"status" validate:"required,oneof=ACTIVE COMPLETED WITHDRAWN SUSPENDED"`
	Reason string                  `json:"reason" validate:"max=500"`
}

func paramID(param, localKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params(param))
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+"!", nil)
		}
		c.Locals(localKey, uint(id))
		return c.Next()
	}
}

func CourseID() fiber.Handler {
	return paramID("courseId", "courseID")
}

func EnrollmentID() fiber.Handler {
	return paramID("id", "enrollmentID")
}

// ListEnrollments validates the status filter and pagination for enrollment
// listings. Status defaults to ACTIVE; ALL disables the filter.
func ListEnrollments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := strings.ToUpper(strings.TrimSpace(c.Query("status", "ACTIVE")))
		if status != "ALL" && !models.EnrollmentStatus(status).Valid() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status filter!", nil)
		}

		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil || page < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Page must be greater than 0!", nil)
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil || limit < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Limit must be greater than 0!", nil)
		}

		c.Locals("statusFilter", status)
		c.Locals("page", page)
		c.Locals("limit", limit)
		return c.Next()
	}
}

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressUpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validationErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		if reqData.LastAccessed != nil {
			t, err := time.Parse(time.RFC3339, *reqData.LastAccessed)
			if err != nil {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"last_accessed": "Must be an RFC3339 timestamp!",
				})
			}
			reqData.LastAccessedAt = &t
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StatusUpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validationErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

// AdminList validates the admin enrollment listing filters.
func AdminList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if status := c.Query("status"); status != "" && !models.EnrollmentStatus(strings.ToUpper(status)).Valid() {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status filter!", nil)
		}

		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil || page < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Page must be greater than 0!", nil)
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil || limit < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Limit must be greater than 0!", nil)
		}

		c.Locals("page", page)
		c.Locals("limit", limit)
		return c.Next()
	}
}

// AnalyticsPeriod validates the trailing-days window for analytics queries.
func AnalyticsPeriod() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period, err := strconv.Atoi(c.Query("period", "30"))
		if err != nil || period < 1 || period > 365 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Period must be between 1 and 365 days!", nil)
		}
		c.Locals("period", period)
		return c.Next()
	}
}

func validationErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[strings.ToLower(fe.Field())] = "Failed validation: " + fe.Tag()
		}
		return errors
	}
	errors["request"] = err.Error()
	return errors
}
