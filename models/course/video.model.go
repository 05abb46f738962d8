package course

import "gorm.io/gorm"

// Video represents a single video lesson within a course
type Video struct {
	gorm.Model
	CourseID     uint    `json:"course_id" gorm:"index;not null"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	VideoURL     string  `json:"video_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Duration     float64 `json:"duration" gorm:"default:0"` // duration in seconds
	OrderIndex   int     `json:"order_index" gorm:"default:0"`
	IsActive     bool    `json:"is_active" gorm:"default:true"`
	IsDeleted    bool    `gorm:"default:false"`
}

// VideoResource is a downloadable attachment on a video lesson
type VideoResource struct {
	gorm.Model
	VideoID   uint   `json:"video_id" gorm:"index;not null"`
	Title     string `json:"title"`
	FileURL   string `json:"file_url"`
	FileSize  int64  `json:"file_size" gorm:"default:0"` // bytes
	IsDeleted bool   `gorm:"default:false"`
}
