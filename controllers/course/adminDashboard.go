package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboardStats gets fleet-wide dashboard statistics
func AdminDashboardStats(c *fiber.Ctx) error {
	var totalCourses, publishedCourses, totalStudents, totalEnrollments, completedEnrollments, activeCertificates int64

	database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)
	database.Database.Db.Model(&models.User{}).Where("is_deleted = ? AND role = ?", false, "USER").Count(&totalStudents)
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, "COMPLETED").Count(&completedEnrollments)
	database.Database.Db.Model(&courseModels.Certificate{}).Where("is_deleted = ? AND is_active = ?", false, true).Count(&activeCertificates)

	// Get recent enrollments
	type RecentEnrollment struct {
		UserName    string    `json:"user_name"`
		CourseTitle string    `json:"course_title"`
		EnrolledAt  time.Time `json:"enrolled_at"`
	}

	var recentEnrollments []courseModels.Enrollment
	database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Limit(5).Find(&recentEnrollments)

	recent := make([]RecentEnrollment, len(recentEnrollments))
	for i, e := range recentEnrollments {
		// Placeholders when the joined rows are gone
		recent[i] = RecentEnrollment{UserName: "Unknown", CourseTitle: "Unknown", EnrolledAt: e.CreatedAt}

		var enrolledUser models.User
		if err := database.Database.Db.Where("id = ?", e.UserID).First(&enrolledUser).Error; err == nil {
			recent[i].UserName = enrolledUser.Name
		}
		var crs courseModels.Course
		if err := database.Database.Db.Where("id = ?", e.CourseID).First(&crs).Error; err == nil {
			recent[i].CourseTitle = crs.Title
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"total_courses":         totalCourses,
			"published_courses":     publishedCourses,
			"total_students":        totalStudents,
			"total_enrollments":     totalEnrollments,
			"completed_enrollments": completedEnrollments,
			"active_certificates":   activeCertificates,
		},
		"recent_enrollments": recent,
	})
}

// AdminGetCourseEnrollments gets all enrolled students for a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, _ := c.Locals("validatedEnrollmentQuery").(*struct {
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

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", courseID, false)

	if reqData != nil && reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	db.Count(&total)

	type EnrollmentWithUser struct {
		courseModels.Enrollment
		UserName    string `json:"user_name"`
		UserEmail   string `json:"user_email"`
		UserCompany string `json:"user_company"`
	}

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithUser, len(enrollments))
	for i, e := range enrollments {
		result[i] = EnrollmentWithUser{Enrollment: e, UserName: "Unknown"}
		var enrolledUser models.User
		if err := database.Database.Db.Where("id = ?", e.UserID).First(&enrolledUser).Error; err == nil {
			result[i].UserName = enrolledUser.Name
			result[i].UserEmail = enrolledUser.Email
			result[i].UserCompany = enrolledUser.Company
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminGetCompletedStudents gets students who completed a course
func AdminGetCompletedStudents(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	type CompletedStudent struct {
		UserID      uint       `json:"user_id"`
		UserName    string     `json:"user_name"`
		UserEmail   string     `json:"user_email"`
		Progress    float64    `json:"progress"`
		CompletedAt *time.Time `json:"completed_at"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ? AND status = ? AND is_deleted = ?", courseID, "COMPLETED", false).
		Order("completed_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch completed students!", nil)
	}

	result := make([]CompletedStudent, len(enrollments))
	for i, e := range enrollments {
		result[i] = CompletedStudent{
			UserID:      e.UserID,
			UserName:    "Unknown",
			Progress:    e.Progress,
			CompletedAt: e.CompletedAt,
		}
		var enrolledUser models.User
		if err := database.Database.Db.Where("id = ?", e.UserID).First(&enrolledUser).Error; err == nil {
			result[i].UserName = enrolledUser.Name
			result[i].UserEmail = enrolledUser.Email
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completed students fetched successfully!", fiber.Map{
		"completed_students": result,
		"total":              len(result),
	})
}

// AdminGetStudentProgress gets detailed watch progress for a student
func AdminGetStudentProgress(c *fiber.Ctx) error {
	targetUserID := c.Locals("targetUserID").(int)

	var targetUser models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", targetUserID, false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type CourseProgress struct {
		CourseID        uint       `json:"course_id"`
		CourseTitle     string     `json:"course_title"`
		Status          string     `json:"status"`
		Progress        float64    `json:"progress"`
		CompletedVideos int        `json:"completed_videos"`
		TotalVideos     int        `json:"total_videos"`
		EnrolledAt      time.Time  `json:"enrolled_at"`
		CompletedAt     *time.Time `json:"completed_at"`
	}

	courseProgress := make([]CourseProgress, len(enrollments))
	for i, e := range enrollments {
		courseProgress[i] = CourseProgress{
			CourseID:        e.CourseID,
			CourseTitle:     "Unknown",
			Status:          e.Status,
			Progress:        e.Progress,
			CompletedVideos: e.CompletedVideos,
			TotalVideos:     e.TotalVideos,
			EnrolledAt:      e.CreatedAt,
			CompletedAt:     e.CompletedAt,
		}
		var crs courseModels.Course
		if err := database.Database.Db.Where("id = ?", e.CourseID).First(&crs).Error; err == nil {
			courseProgress[i].CourseTitle = crs.Title
		}
	}

	// Per-video view-log detail with total watched time
	type VideoDetail struct {
		VideoID         uint       `json:"video_id"`
		VideoTitle      string     `json:"video_title"`
		CourseID        uint       `json:"course_id"`
		ProgressPercent float64    `json:"progress_percent"`
		WatchedSeconds  float64    `json:"watched_seconds"`
		Status          string     `json:"status"`
		CompletedAt     *time.Time `json:"completed_at"`
	}

	var viewLogs []courseModels.ViewLog
	database.Database.Db.Where("user_id = ? AND is_deleted = ?", targetUserID, false).Order("updated_at desc").Find(&viewLogs)

	var totalWatched float64
	videoDetails := make([]VideoDetail, len(viewLogs))
	for i, vl := range viewLogs {
		totalWatched += vl.WatchedSeconds
		videoDetails[i] = VideoDetail{
			VideoID:         vl.VideoID,
			VideoTitle:      "Deleted video",
			CourseID:        vl.CourseID,
			ProgressPercent: vl.ProgressPercent,
			WatchedSeconds:  vl.WatchedSeconds,
			Status:          vl.Status,
			CompletedAt:     vl.CompletedAt,
		}
		var video courseModels.Video
		if err := database.Database.Db.Where("id = ?", vl.VideoID).First(&video).Error; err == nil {
			videoDetails[i].VideoTitle = video.Title
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"student": fiber.Map{
			"id":      targetUser.ID,
			"name":    targetUser.Name,
			"email":   targetUser.Email,
			"company": targetUser.Company,
		},
		"course_progress":       courseProgress,
		"video_details":         videoDetails,
		"total_watched_seconds": totalWatched,
	})
}

// AdminResetViewingHistory hard-deletes a student's view logs for a course
// and resets the enrollment rollup. This is the only deletion path for view
// logs.
func AdminResetViewingHistory(c *fiber.Ctx) error {
	targetUserID := c.Locals("targetUserID").(int)
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedRevoke").(*struct {
		Confirm bool `json:"confirm"`
	})
	if !ok || !reqData.Confirm {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "History reset requires explicit confirmation!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", targetUserID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	tx := database.Database.Db.Begin()

	if err := tx.Unscoped().Where("user_id = ? AND course_id = ?", targetUserID, courseID).Delete(&courseModels.ViewLog{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset viewing history!", nil)
	}

	enrollment.Status = "ENROLLED"
	enrollment.Progress = 0
	enrollment.CompletedVideos = 0
	enrollment.CompletedAt = nil

	if err := tx.Save(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset enrollment!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Viewing history reset successfully!", enrollment)
}
