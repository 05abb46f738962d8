package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateVideo adds a video lesson to a course
func AdminCreateVideo(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedVideo").(*struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		VideoURL     string  `json:"video_url"`
		ThumbnailURL string  `json:"thumbnail_url"`
		Duration     float64 `json:"duration"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// New videos go to the end of the course ordering
	var maxOrder int
	database.Database.Db.Model(&courseModels.Video{}).Where("course_id = ? AND is_deleted = ?", courseID, false).
		Select("COALESCE(MAX(order_index), -1)").Scan(&maxOrder)

	video := courseModels.Video{
		CourseID:     uint(courseID),
		Title:        reqData.Title,
		Description:  reqData.Description,
		VideoURL:     reqData.VideoURL,
		ThumbnailURL: reqData.ThumbnailURL,
		Duration:     reqData.Duration,
		OrderIndex:   maxOrder + 1,
		IsActive:     true,
	}

	if err := database.Database.Db.Create(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video created successfully!", video)
}

// AdminUpdateVideo updates a video lesson
func AdminUpdateVideo(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(int)

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	reqData, ok := c.Locals("validatedVideoUpdate").(*struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		VideoURL     string  `json:"video_url"`
		ThumbnailURL string  `json:"thumbnail_url"`
		Duration     float64 `json:"duration"`
		IsActive     *bool   `json:"is_active"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		video.Title = reqData.Title
	}
	if reqData.Description != "" {
		video.Description = reqData.Description
	}
	if reqData.VideoURL != "" {
		video.VideoURL = reqData.VideoURL
	}
	if reqData.ThumbnailURL != "" {
		video.ThumbnailURL = reqData.ThumbnailURL
	}
	if reqData.Duration > 0 {
		video.Duration = reqData.Duration
	}
	if reqData.IsActive != nil {
		video.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Save(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video updated successfully!", video)
}

// AdminDeleteVideo soft deletes a video lesson
func AdminDeleteVideo(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(int)

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	video.IsDeleted = true
	video.IsActive = false

	if err := database.Database.Db.Save(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video deleted successfully!", nil)
}

// AdminReorderVideos persists a new drag-and-drop ordering of the course's videos
func AdminReorderVideos(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedReorder").(*struct {
		VideoIDs []uint `json:"video_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var videos []courseModels.Video
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&videos)

	// The posted list must be exactly the course's video set
	if len(reqData.VideoIDs) != len(videos) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Reorder list must contain every video of the course!", nil)
	}
	known := make(map[uint]bool, len(videos))
	for _, v := range videos {
		known[v.ID] = true
	}
	for _, id := range reqData.VideoIDs {
		if !known[id] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Reorder list contains a video not in this course!", nil)
		}
		delete(known, id)
	}

	tx := database.Database.Db.Begin()
	for index, id := range reqData.VideoIDs {
		if err := tx.Model(&courseModels.Video{}).Where("id = ?", id).Update("order_index", index).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder videos!", nil)
		}
	}
	tx.Commit()

	var reordered []courseModels.Video
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&reordered)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Videos reordered successfully!", reordered)
}

// AdminAddVideoResource attaches a downloadable resource to a video
func AdminAddVideoResource(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(int)

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	reqData, ok := c.Locals("validatedResource").(*struct {
		Title    string `json:"title"`
		FileURL  string `json:"file_url"`
		FileSize int64  `json:"file_size"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	resource := courseModels.VideoResource{
		VideoID:  uint(videoID),
		Title:    reqData.Title,
		FileURL:  reqData.FileURL,
		FileSize: reqData.FileSize,
	}

	if err := database.Database.Db.Create(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to attach resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Resource attached successfully!", resource)
}

// AdminDeleteVideoResource soft deletes a video resource
func AdminDeleteVideoResource(c *fiber.Ctx) error {
	resourceID := c.Locals("resourceID").(int)

	var resource courseModels.VideoResource
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", resourceID, false).First(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	}

	resource.IsDeleted = true

	if err := database.Database.Db.Save(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource deleted successfully!", nil)
}
