package userRoutes

import (
	userControllers "lms/controllers/userControllers"
	"lms/middleware"
	userValidators "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", userControllers.GetProfile)
	userGroup.Put("/profile", userValidators.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Post("/upload", userControllers.UploadFile)
}
