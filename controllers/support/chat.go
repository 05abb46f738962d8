package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreateConversation opens a support conversation with its first message
func CreateConversation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedConversation").(*struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	now := time.Now()
	conversation := models.SupportConversation{
		UserID:         userID,
		Subject:        reqData.Subject,
		Status:         "OPEN",
		LastMessageAt:  now,
		UnreadForAdmin: 1,
	}

	tx := database.Database.Db.Begin()

	if err := tx.Create(&conversation).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create conversation!", nil)
	}

	message := models.SupportMessage{
		ConversationID: conversation.ID,
		SenderID:       userID,
		SenderRole:     "USER",
		Body:           reqData.Body,
	}

	if err := tx.Create(&message).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create message!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Conversation created successfully!", fiber.Map{
		"conversation": conversation,
		"message":      message,
	})
}

// GetUserConversations lists the current user's conversations
func GetUserConversations(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var conversations []models.SupportConversation
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("last_message_at desc").Find(&conversations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch conversations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversations fetched successfully!", fiber.Map{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

// GetConversation returns a conversation thread. Fetching the thread marks
// the other side's messages as read for the caller.
func GetConversation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	conversationID := c.Locals("conversationID").(int)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var conversation models.SupportConversation
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", conversationID, false).First(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Conversation not found!", nil)
	}

	isAdmin := user.Role == "ADMIN"
	if !isAdmin && conversation.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not your conversation!", nil)
	}

	var messages []models.SupportMessage
	if err := database.Database.Db.Where("conversation_id = ? AND is_deleted = ?", conversationID, false).
		Order("created_at asc").Find(&messages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	// Reading the thread clears the caller's unread counter
	otherRole := "ADMIN"
	if isAdmin {
		otherRole = "USER"
		conversation.UnreadForAdmin = 0
	} else {
		conversation.UnreadForUser = 0
	}
	database.Database.Db.Model(&models.SupportMessage{}).
		Where("conversation_id = ? AND sender_role = ? AND is_read = ?", conversationID, otherRole, false).
		Update("is_read", true)
	database.Database.Db.Save(&conversation)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversation fetched successfully!", fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	})
}

// PostMessage appends a message to a conversation
func PostMessage(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	conversationID := c.Locals("conversationID").(int)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedMessage").(*struct {
		Body          string `json:"body"`
		AttachmentURL string `json:"attachment_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var conversation models.SupportConversation
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", conversationID, false).First(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Conversation not found!", nil)
	}

	isAdmin := user.Role == "ADMIN"
	if !isAdmin && conversation.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not your conversation!", nil)
	}

	if conversation.Status == "CLOSED" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Conversation is closed!", nil)
	}

	senderRole := "USER"
	if isAdmin {
		senderRole = "ADMIN"
	}

	message := models.SupportMessage{
		ConversationID: conversation.ID,
		SenderID:       userID,
		SenderRole:     senderRole,
		Body:           reqData.Body,
		AttachmentURL:  reqData.AttachmentURL,
	}

	tx := database.Database.Db.Begin()

	if err := tx.Create(&message).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to post message!", nil)
	}

	conversation.LastMessageAt = time.Now()
	if isAdmin {
		conversation.UnreadForUser++
	} else {
		conversation.UnreadForAdmin++
	}

	if err := tx.Save(&conversation).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update conversation!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message posted successfully!", message)
}

// AdminGetConversations lists every conversation, optionally filtered by status
func AdminGetConversations(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedConversationQuery").(*struct {
		Page   *int   `json:"page"`
		Limit  *int   `json:"limit"`
		Status string `json:"status"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.SupportConversation{}).Where("is_deleted = ?", false)

	if reqData != nil && reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	db.Count(&total)

	var conversations []models.SupportConversation
	if err := db.Offset(offset).Limit(limit).Order("last_message_at desc").Find(&conversations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch conversations!", nil)
	}

	type ConversationWithUser struct {
		models.SupportConversation
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}

	result := make([]ConversationWithUser, len(conversations))
	for i, conv := range conversations {
		result[i] = ConversationWithUser{SupportConversation: conv, UserName: "Unknown"}
		var convUser models.User
		if err := database.Database.Db.Where("id = ?", conv.UserID).First(&convUser).Error; err == nil {
			result[i].UserName = convUser.Name
			result[i].UserEmail = convUser.Email
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversations fetched successfully!", fiber.Map{
		"conversations": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminCloseConversation closes or reopens a conversation
func AdminCloseConversation(c *fiber.Ctx) error {
	conversationID := c.Locals("conversationID").(int)

	reqData, ok := c.Locals("validatedConversationStatus").(*struct {
		Status string `json:"status"`
	})
	if !ok || (reqData.Status != "OPEN" && reqData.Status != "CLOSED") {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be OPEN or CLOSED!", nil)
	}

	var conversation models.SupportConversation
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", conversationID, false).First(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Conversation not found!", nil)
	}

	conversation.Status = reqData.Status

	if err := database.Database.Db.Save(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update conversation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversation updated successfully!", conversation)
}
