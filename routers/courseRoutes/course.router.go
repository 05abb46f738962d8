package courseRoutes

import (
	courseControllers "lms/controllers/course"
	"lms/middleware"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course", middleware.JWTMiddleware)

	courseGroup.Get("/list", courseValidators.List(), courseControllers.GetAllCourses)
	courseGroup.Get("/enrollments", courseControllers.GetUserEnrollmentsList)
	courseGroup.Get("/certificates", courseControllers.GetUserCertificates)

	courseGroup.Get("/:courseId", courseValidators.CourseID(), courseControllers.GetCourseDetails)
	courseGroup.Post("/:courseId/enroll", courseValidators.CourseID(), courseControllers.EnrollInCourse)
	courseGroup.Get("/:courseId/progress", courseValidators.CourseID(), courseControllers.GetUserProgress)
	courseGroup.Get("/:courseId/certificate", courseValidators.CourseID(), courseControllers.GetCourseCertificate)

	courseGroup.Post("/:courseId/video/:videoId/progress",
		courseValidators.CourseID(), courseValidators.VideoID(), courseValidators.ProgressSave(),
		courseControllers.SaveVideoProgress)
}
