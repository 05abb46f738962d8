package supportValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ConversationID parses and validates the :conversationId route param
func ConversationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("conversationId"))
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid conversation id!", nil)
		}
		c.Locals("conversationID", id)
		return c.Next()
	}
}

// CreateConversation validator middleware
func CreateConversation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Subject string `json:"subject"`
			Body    string `json:"body"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Subject)) < 3 {
			errors["subject"] = "Subject must be at least 3 characters long!"
		}
		if strings.TrimSpace(reqData.Body) == "" {
			errors["body"] = "Message body is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedConversation", reqData)
		return c.Next()
	}
}

// PostMessage validator middleware
func PostMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Body          string `json:"body"`
			AttachmentURL string `json:"attachment_url"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// An attachment-only message is allowed
		if strings.TrimSpace(reqData.Body) == "" && reqData.AttachmentURL == "" {
			errors["body"] = "Message body or attachment is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMessage", reqData)
		return c.Next()
	}
}

// ConversationQuery validator middleware for the admin conversation listing
func ConversationQuery() fiber.Handler {
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

		if reqData.Status != "" && reqData.Status != "OPEN" && reqData.Status != "CLOSED" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be OPEN or CLOSED!", nil)
		}

		c.Locals("validatedConversationQuery", reqData)
		return c.Next()
	}
}

// ConversationStatus validator middleware for close/reopen
func ConversationStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Status != "OPEN" && reqData.Status != "CLOSED" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be OPEN or CLOSED!", nil)
		}

		c.Locals("validatedConversationStatus", reqData)
		return c.Next()
	}
}
