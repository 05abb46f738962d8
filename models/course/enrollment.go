package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course with a derived progress
// rollup. The rollup columns are convenience values refreshed after every
// accepted progress save; the view logs stay the source of truth.
type Enrollment struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"index;not null"`
	CourseID        uint       `json:"course_id" gorm:"index;not null"`
	Status          string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress        float64    `json:"progress" gorm:"default:0"`        // mean of per-video percents (0-100)
	CompletedVideos int        `json:"completed_videos" gorm:"default:0"`
	TotalVideos     int        `json:"total_videos" gorm:"default:0"`
	CompletedAt     *time.Time `json:"completed_at"`
	IsDeleted       bool       `gorm:"default:false"`
}
