package course

import (
	"time"

	"gorm.io/gorm"
)

// ViewLog statuses
const (
	ViewNotStarted = "NOT_STARTED"
	ViewInProgress = "IN_PROGRESS"
	ViewCompleted  = "COMPLETED"
)

// ViewLog records one user's watch progress on one video. One row per
// (user, video); created on the first save and mutated on every save after
// that. Rows are only removed by an explicit admin history reset.
type ViewLog struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"uniqueIndex:idx_user_video;not null"`
	VideoID         uint       `json:"video_id" gorm:"uniqueIndex:idx_user_video;not null"`
	CourseID        uint       `json:"course_id" gorm:"index;not null"`
	CurrentPosition float64    `json:"current_position" gorm:"default:0"` // seconds
	WatchedSeconds  float64    `json:"watched_seconds" gorm:"default:0"`  // de-duplicated
	ProgressPercent float64    `json:"progress_percent" gorm:"default:0"` // 0-100
	Status          string     `json:"status" gorm:"default:'NOT_STARTED'"`
	Sequence        int64      `json:"sequence" gorm:"default:0"`         // monotonic save counter from the player
	SessionBaseline float64    `json:"session_baseline" gorm:"default:0"` // watched seconds earned before the current session
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"` // one-way; never rewound after first completion
	EndedAt         *time.Time `json:"ended_at"`     // last playback activity
	IsDeleted       bool       `gorm:"default:false"`
}
