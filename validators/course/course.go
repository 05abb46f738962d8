package courseValidator

import (
	"lms/middleware"
	"strconv"

	controllers "lms/controllers/course"

	"github.com/gofiber/fiber/v2"
)

// CourseID parses and validates the :courseId route param
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("courseId"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// VideoID parses and validates the :videoId route param
func VideoID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("videoId"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid video id!", nil)
		}
		c.Locals("videoID", id)
		return c.Next()
	}
}

// List validator middleware for paginated listings
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if page := c.QueryInt("page", 0); page > 0 {
			reqData.Page = &page
		}
		if limit := c.QueryInt("limit", 0); limit > 0 {
			if limit > 100 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Limit cannot exceed 100!", nil)
			}
			reqData.Limit = &limit
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// ProgressSave validator middleware for the player's save snapshots
func ProgressSave() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(controllers.SaveProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Position < 0 {
			errors["position"] = "Position cannot be negative!"
		}
		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}
		if reqData.Sequence <= 0 {
			errors["sequence"] = "Sequence must be a positive number!"
		}
		// Malformed segments are dropped during the merge, not rejected here

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgressSave", reqData)
		return c.Next()
	}
}
