package courseRoutes

import (
	courseControllers "lms/controllers/course"
	"lms/middleware"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)

	adminGroup.Get("/dashboard", courseControllers.AdminDashboardStats)

	// Course management
	adminGroup.Get("/course/list", courseValidators.List(), courseControllers.AdminGetAllCourses)
	adminGroup.Post("/course", courseValidators.CreateCourse(), courseControllers.AdminCreateCourse)
	adminGroup.Get("/course/:courseId", courseValidators.CourseID(), courseControllers.AdminGetCourseDetails)
	adminGroup.Put("/course/:courseId", courseValidators.CourseID(), courseValidators.UpdateCourse(), courseControllers.AdminUpdateCourse)
	adminGroup.Delete("/course/:courseId", courseValidators.CourseID(), courseControllers.AdminDeleteCourse)
	adminGroup.Put("/course/:courseId/publish", courseValidators.CourseID(), courseValidators.PublishCourse(), courseControllers.AdminPublishCourse)

	// Video management
	adminGroup.Post("/course/:courseId/video", courseValidators.CourseID(), courseValidators.CreateVideo(), courseControllers.AdminCreateVideo)
	adminGroup.Put("/course/:courseId/video/reorder", courseValidators.CourseID(), courseValidators.ReorderVideos(), courseControllers.AdminReorderVideos)
	adminGroup.Put("/video/:videoId", courseValidators.VideoID(), courseValidators.UpdateVideo(), courseControllers.AdminUpdateVideo)
	adminGroup.Delete("/video/:videoId", courseValidators.VideoID(), courseControllers.AdminDeleteVideo)
	adminGroup.Post("/video/:videoId/resource", courseValidators.VideoID(), courseValidators.AddResource(), courseControllers.AdminAddVideoResource)
	adminGroup.Delete("/resource/:resourceId", courseValidators.ResourceID(), courseControllers.AdminDeleteVideoResource)

	// Enrollment and progress reporting
	adminGroup.Get("/course/:courseId/enrollments", courseValidators.CourseID(), courseValidators.EnrollmentQuery(), courseControllers.AdminGetCourseEnrollments)
	adminGroup.Get("/course/:courseId/completed", courseValidators.CourseID(), courseControllers.AdminGetCompletedStudents)
	adminGroup.Get("/student/:userId/progress", courseValidators.TargetUserID(), courseControllers.AdminGetStudentProgress)
	adminGroup.Delete("/student/:userId/course/:courseId/history",
		courseValidators.TargetUserID(), courseValidators.CourseID(), courseValidators.Revoke(),
		courseControllers.AdminResetViewingHistory)

	// Certificate management
	adminGroup.Get("/certificate/list", courseValidators.CertificateQuery(), courseControllers.AdminGetCertificates)
	adminGroup.Post("/certificate/:certificateId/reissue", courseValidators.CertificateID(), courseControllers.AdminReissueCertificate)
	adminGroup.Put("/certificate/:certificateId/revoke", courseValidators.CertificateID(), courseValidators.Revoke(), courseControllers.AdminRevokeCertificate)
	adminGroup.Put("/certificate/:certificateId/issue-date", courseValidators.CertificateID(), courseValidators.IssueDate(), courseControllers.AdminOverrideIssueDate)
	adminGroup.Get("/certificate/settings", courseControllers.AdminGetCertificateSettings)
	adminGroup.Put("/certificate/settings", courseValidators.Settings(), courseControllers.AdminUpdateCertificateSettings)
}
