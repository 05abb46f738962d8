package models

import (
	"time"

	"gorm.io/gorm"
)

// SupportConversation is one support thread between a user and the admin team
type SupportConversation struct {
	gorm.Model
	UserID         uint      `json:"user_id" gorm:"index;not null"`
	Subject        string    `json:"subject"`
	Status         string    `json:"status" gorm:"default:'OPEN'"` // OPEN, CLOSED
	LastMessageAt  time.Time `json:"last_message_at"`
	UnreadForUser  int       `json:"unread_for_user" gorm:"default:0"`
	UnreadForAdmin int       `json:"unread_for_admin" gorm:"default:0"`
	IsDeleted      bool      `json:"is_deleted" gorm:"default:false"`
}

// SupportMessage is a single message inside a conversation
type SupportMessage struct {
	gorm.Model
	ConversationID uint   `json:"conversation_id" gorm:"index;not null"`
	SenderID       uint   `json:"sender_id"`
	SenderRole     string `json:"sender_role" gorm:"default:'USER'"` // USER, ADMIN
	Body           string `json:"body" gorm:"type:text"`
	AttachmentURL  string `json:"attachment_url"`
	IsRead         bool   `json:"is_read" gorm:"default:false"`
	IsDeleted      bool   `json:"is_deleted" gorm:"default:false"`
}
