package supportRoutes

import (
	supportControllers "lms/controllers/support"
	"lms/middleware"
	supportValidators "lms/validators/support"

	"github.com/gofiber/fiber/v2"
)

func SetupSupportRoutes(app *fiber.App) {
	supportGroup := app.Group("/support", middleware.JWTMiddleware)

	supportGroup.Post("/conversation", supportValidators.CreateConversation(), supportControllers.CreateConversation)
	supportGroup.Get("/conversation/list", supportControllers.GetUserConversations)
	supportGroup.Get("/conversation/:conversationId", supportValidators.ConversationID(), supportControllers.GetConversation)
	supportGroup.Post("/conversation/:conversationId/message",
		supportValidators.ConversationID(), supportValidators.PostMessage(),
		supportControllers.PostMessage)

	adminGroup := app.Group("/admin/support", middleware.JWTMiddleware, middleware.AdminOnly)

	adminGroup.Get("/conversation/list", supportValidators.ConversationQuery(), supportControllers.AdminGetConversations)
	adminGroup.Put("/conversation/:conversationId/status",
		supportValidators.ConversationID(), supportValidators.ConversationStatus(),
		supportControllers.AdminCloseConversation)
}
