package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/progress"
	"lms/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SaveProgressRequest is the payload posted by the player on every save
// trigger (periodic timer, pause, end, tab hidden, unload). Segments carry
// the session's full watched-span list, not a delta: the tracker already
// holds every span it recorded this session, and posting them all lets the
// merge de-duplicate rewatches that land in different saves.
type SaveProgressRequest struct {
	Position float64            `json:"position"`
	Duration float64            `json:"duration"` // fallback when the catalog has no duration
	Sequence int64              `json:"sequence"` // save counter, restarts at 1 each session
	Segments []progress.Segment `json:"segments"` // all watched spans of the current session
}

// SaveVideoProgress persists a progress snapshot for the current user and video
func SaveVideoProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	videoID := c.Locals("videoID").(int)

	reqData, ok := c.Locals("validatedProgressSave").(*SaveProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check video exists and is active
	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_active = ?", videoID, courseID, false, true).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	viewLog, stale, err := ApplyProgressSave(database.Database.Db, userID, video, reqData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}
	if stale {
		// A newer save already landed; nothing to do.
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress already up to date.", fiber.Map{
			"view_log": viewLog,
			"stale":    true,
		})
	}

	// Refresh the enrollment rollup after every accepted save
	UpdateEnrollmentProgress(database.Database.Db, userID, uint(courseID))

	// Issue the certificate when this save completed the last active video
	var refreshed courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&refreshed).Error; err == nil {
		if refreshed.Status == "COMPLETED" {
			if err := IssueCertificateIfMissing(database.Database.Db, user, uint(courseID)); err != nil {
				log.Printf("Failed to issue certificate for user %d course %d: %v", userID, courseID, err)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved successfully!", fiber.Map{
		"view_log": viewLog,
		"stale":    false,
	})
}

// ApplyProgressSave merges the session's posted segments into the user's view
// log for the video and recomputes the derived fields. A save whose sequence
// is not newer than the stored one is ignored, so snapshots racing over a
// flaky network cannot rewind a fresher state.
//
// Watched time is session baseline + de-duplicated sum of the session's
// segments. The baseline is the watched time already earned when the session's
// first save (sequence 1) arrives, so a span rewatched after a seek cannot be
// counted twice no matter how the spans split across save triggers.
func ApplyProgressSave(db *gorm.DB, userID uint, video courseModels.Video, req *SaveProgressRequest) (*courseModels.ViewLog, bool, error) {
	duration := video.Duration
	if duration <= 0 {
		duration = req.Duration
	}

	now := time.Now()

	var viewLog courseModels.ViewLog
	err := db.Where("user_id = ? AND video_id = ? AND is_deleted = ?", userID, video.ID, false).First(&viewLog).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, false, err
		}
		viewLog = courseModels.ViewLog{
			UserID:    userID,
			VideoID:   video.ID,
			CourseID:  video.CourseID,
			Status:    courseModels.ViewNotStarted,
			StartedAt: now,
		}
	} else if req.Sequence == 1 && viewLog.Sequence > 1 {
		// The counter restarting at 1 marks a new playback session
		viewLog.SessionBaseline = viewLog.WatchedSeconds
	} else if req.Sequence <= viewLog.Sequence {
		// Covers replays of a session's first save too: when the stored
		// counter is still 1, another sequence 1 cannot be told apart from
		// its own retry and is ignored.
		return &viewLog, true, nil
	}

	watched := viewLog.SessionBaseline + progress.WatchedSeconds(req.Segments, duration)
	if watched < viewLog.WatchedSeconds {
		watched = viewLog.WatchedSeconds
	}
	if duration > 0 && watched > duration {
		watched = duration
	}

	percent := progress.Percent(req.Position, watched, duration)

	// Progress percent reflects the furthest consistent state recorded
	if percent < viewLog.ProgressPercent {
		percent = viewLog.ProgressPercent
	}

	viewLog.CurrentPosition = req.Position
	viewLog.WatchedSeconds = watched
	viewLog.ProgressPercent = percent
	viewLog.Sequence = req.Sequence
	viewLog.EndedAt = &now

	status := progress.VideoStatus(percent, watched)

	// Completion is a one-way transition: the first completion timestamp is
	// kept even when later partial saves arrive.
	if viewLog.CompletedAt != nil {
		status = courseModels.ViewCompleted
	} else if status == courseModels.ViewCompleted {
		viewLog.CompletedAt = &now
	}
	viewLog.Status = status

	if err := db.Save(&viewLog).Error; err != nil {
		return nil, false, err
	}
	return &viewLog, false, nil
}

// UpdateEnrollmentProgress recomputes the enrollment rollup from the view
// logs: mean of per-video percents over the course's active videos, and
// COMPLETED only when every active video is individually completed.
func UpdateEnrollmentProgress(db *gorm.DB, userID uint, courseID uint) {
	var videos []courseModels.Video
	if err := db.Where("course_id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).Find(&videos).Error; err != nil {
		return
	}

	var viewLogs []courseModels.ViewLog
	db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&viewLogs)

	logByVideo := make(map[uint]courseModels.ViewLog, len(viewLogs))
	for _, vl := range viewLogs {
		logByVideo[vl.VideoID] = vl
	}

	percents := make([]float64, len(videos))
	statuses := make([]string, len(videos))
	completed := 0
	for i, v := range videos {
		vl, found := logByVideo[v.ID]
		if !found {
			statuses[i] = courseModels.ViewNotStarted
			continue
		}
		percents[i] = vl.ProgressPercent
		statuses[i] = vl.Status
		if vl.Status == courseModels.ViewCompleted {
			completed++
		}
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return
	}

	enrollment.Progress = progress.CourseProgress(percents)
	enrollment.CompletedVideos = completed
	enrollment.TotalVideos = len(videos)

	if progress.CourseCompleted(statuses) {
		if enrollment.Status != "COMPLETED" {
			enrollment.Status = "COMPLETED"
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else if enrollment.Progress > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	db.Save(&enrollment)
}

// IssueCertificateIfMissing creates the active certificate for a completed
// course when none exists yet. Name and title are snapshotted at issue time.
func IssueCertificateIfMissing(db *gorm.DB, user models.User, courseID uint) error {
	var existing courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ? AND is_active = ? AND is_deleted = ?", user.ID, courseID, true, false).First(&existing).Error; err == nil {
		return nil
	}

	var crs courseModels.Course
	if err := db.Where("id = ?", courseID).First(&crs).Error; err != nil {
		return err
	}

	completionDate, watchedTotal := CompletionSummary(db, user.ID, courseID)

	var settings courseModels.CertificateSettings
	db.Order("id desc").First(&settings)
	snapshot, _ := json.Marshal(settings)

	certificate := courseModels.Certificate{
		UserID:            user.ID,
		CourseID:          courseID,
		CertificateNumber: utils.GenerateCertificateNumber(),
		UserName:          user.Name,
		CourseTitle:       crs.Title,
		CompletionDate:    completionDate,
		WatchedSeconds:    watchedTotal,
		SettingsSnapshot:  snapshot,
		IsActive:          true,
	}

	if err := db.Create(&certificate).Error; err != nil {
		return err
	}

	// Notify asynchronously; a failed mail never fails the save
	go utils.SendCertificateEmail(user.Email, user.Name, crs.Title, certificate.CertificateNumber)

	return nil
}

// CompletionSummary derives the authoritative completion date and total
// watched time from the user's view logs for a course. The date is the max
// CompletedAt among completed logs, falling back to now when none exist.
func CompletionSummary(db *gorm.DB, userID uint, courseID uint) (time.Time, float64) {
	var viewLogs []courseModels.ViewLog
	db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&viewLogs)

	completionDate := time.Now()
	var latest *time.Time
	var watchedTotal float64
	for _, vl := range viewLogs {
		watchedTotal += vl.WatchedSeconds
		if vl.Status == courseModels.ViewCompleted && vl.CompletedAt != nil {
			if latest == nil || vl.CompletedAt.After(*latest) {
				latest = vl.CompletedAt
			}
		}
	}
	if latest != nil {
		completionDate = *latest
	}
	return completionDate, watchedTotal
}

// GetUserProgress gets the user's progress in a course, recomputed from the
// view logs on every read.
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// The rollup may be stale, e.g. a video was deactivated since the last
	// save. Refresh it so the convenience columns match the recomputed state.
	UpdateEnrollmentProgress(database.Database.Db, userID, uint(courseID))
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment)

	var videos []courseModels.Video
	database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).Order("order_index asc").Find(&videos)

	var viewLogs []courseModels.ViewLog
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&viewLogs)

	logByVideo := make(map[uint]courseModels.ViewLog, len(viewLogs))
	for _, vl := range viewLogs {
		logByVideo[vl.VideoID] = vl
	}

	type VideoProgress struct {
		VideoID         uint    `json:"video_id"`
		Title           string  `json:"title"`
		Duration        float64 `json:"duration"`
		CurrentPosition float64 `json:"current_position"`
		WatchedSeconds  float64 `json:"watched_seconds"`
		ProgressPercent float64 `json:"progress_percent"`
		Status          string  `json:"status"`
	}

	videoProgress := make([]VideoProgress, len(videos))
	percents := make([]float64, len(videos))
	statuses := make([]string, len(videos))
	for i, v := range videos {
		videoProgress[i] = VideoProgress{
			VideoID:  v.ID,
			Title:    v.Title,
			Duration: v.Duration,
			Status:   courseModels.ViewNotStarted,
		}
		statuses[i] = courseModels.ViewNotStarted
		if vl, found := logByVideo[v.ID]; found {
			videoProgress[i].CurrentPosition = vl.CurrentPosition
			videoProgress[i].WatchedSeconds = vl.WatchedSeconds
			videoProgress[i].ProgressPercent = vl.ProgressPercent
			videoProgress[i].Status = vl.Status
			percents[i] = vl.ProgressPercent
			statuses[i] = vl.Status
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":       enrollment,
		"video_progress":   videoProgress,
		"course_progress":  progress.CourseProgress(percents),
		"course_completed": progress.CourseCompleted(statuses),
	})
}
