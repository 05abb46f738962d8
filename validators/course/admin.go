package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CertificateID parses and validates the :certificateId route param
func CertificateID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("certificateId"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate id!", nil)
		}
		c.Locals("certificateID", id)
		return c.Next()
	}
}

// ResourceID parses and validates the :resourceId route param
func ResourceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("resourceId"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid resource id!", nil)
		}
		c.Locals("resourceID", id)
		return c.Next()
	}
}

// TargetUserID parses and validates the :userId route param
func TargetUserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("userId"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
		}
		c.Locals("targetUserID", id)
		return c.Next()
	}
}

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			Author       string `json:"author"`
			ThumbnailURL string `json:"thumbnail_url"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validator middleware
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			Author       string `json:"author"`
			ThumbnailURL string `json:"thumbnail_url"`
			Status       string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Status != "" && reqData.Status != "DRAFT" && reqData.Status != "ACTIVE" && reqData.Status != "INACTIVE" {
			errors["status"] = "Status must be DRAFT, ACTIVE or INACTIVE!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// PublishCourse validator middleware
func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Publish bool `json:"publish"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}

// CreateVideo validator middleware
func CreateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string  `json:"title"`
			Description  string  `json:"description"`
			VideoURL     string  `json:"video_url"`
			ThumbnailURL string  `json:"thumbnail_url"`
			Duration     float64 `json:"duration"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.VideoURL == "" {
			errors["video_url"] = "Video URL is required!"
		}
		if reqData.Duration <= 0 {
			errors["duration"] = "Duration must be a positive number of seconds!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideo", reqData)
		return c.Next()
	}
}

// UpdateVideo validator middleware
func UpdateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string  `json:"title"`
			Description  string  `json:"description"`
			VideoURL     string  `json:"video_url"`
			ThumbnailURL string  `json:"thumbnail_url"`
			Duration     float64 `json:"duration"`
			IsActive     *bool   `json:"is_active"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideoUpdate", reqData)
		return c.Next()
	}
}

// ReorderVideos validator middleware
func ReorderVideos() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			VideoIDs []uint `json:"video_ids"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.VideoIDs) == 0 {
			errors["video_ids"] = "Video list cannot be empty!"
		}
		seen := make(map[uint]bool, len(reqData.VideoIDs))
		for _, id := range reqData.VideoIDs {
			if seen[id] {
				errors["video_ids"] = "Video list contains duplicates!"
				break
			}
			seen[id] = true
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}

// AddResource validator middleware
func AddResource() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    string `json:"title"`
			FileURL  string `json:"file_url"`
			FileSize int64  `json:"file_size"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.FileURL == "" {
			errors["file_url"] = "File URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResource", reqData)
		return c.Next()
	}
}

// EnrollmentQuery validator middleware for the admin enrollment listing
func EnrollmentQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   *int   `json:"page"`
			Limit  *int   `json:"limit"`
			Status string `json:"status"`
		})

		if page := c.QueryInt("page", 0); page > 0 {
			reqData.Page = &page
		}
		if limit := c.QueryInt("limit", 0); limit > 0 {
			reqData.Limit = &limit
		}
		reqData.Status = c.Query("status")

		if reqData.Status != "" && reqData.Status != "ENROLLED" && reqData.Status != "IN_PROGRESS" && reqData.Status != "COMPLETED" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be ENROLLED, IN_PROGRESS or COMPLETED!", nil)
		}

		c.Locals("validatedEnrollmentQuery", reqData)
		return c.Next()
	}
}

// CertificateQuery validator middleware for the admin certificate listing
func CertificateQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int   `json:"page"`
			Limit    *int   `json:"limit"`
			CourseID *int   `json:"course_id"`
			Company  string `json:"company"`
			Active   *bool  `json:"active"`
		})

		if page := c.QueryInt("page", 0); page > 0 {
			reqData.Page = &page
		}
		if limit := c.QueryInt("limit", 0); limit > 0 {
			reqData.Limit = &limit
		}
		if courseID := c.QueryInt("course_id", 0); courseID > 0 {
			reqData.CourseID = &courseID
		}
		reqData.Company = c.Query("company")
		if raw := c.Query("active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Active must be true or false!", nil)
			}
			reqData.Active = &active
		}

		c.Locals("validatedCertificateQuery", reqData)
		return c.Next()
	}
}

// Revoke validator middleware requiring an explicit confirmation flag
func Revoke() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Confirm bool `json:"confirm"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedRevoke", reqData)
		return c.Next()
	}
}

// IssueDate validator middleware for the manual issue-date override
func IssueDate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			IssueDate *string `json:"issue_date"` // RFC3339, null clears the override
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedIssueDate", reqData)
		return c.Next()
	}
}

// Settings validator middleware for the certificate signer settings
func Settings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			SignerName    string `json:"signer_name"`
			SignerTitle   string `json:"signer_title"`
			SignatureURL  string `json:"signature_url"`
			LetterheadURL string `json:"letterhead_url"`
			StampURL      string `json:"stamp_url"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.SignerName) == "" {
			errors["signer_name"] = "Signer name is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSettings", reqData)
		return c.Next()
	}
}
