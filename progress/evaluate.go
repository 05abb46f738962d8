package progress

import "math"

// CompletionThreshold is the progress percent at which a video flips to
// completed. Exactly 90 completes; 89.999 does not.
const CompletionThreshold = 90.0

// Video statuses as stored on view logs.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Percent derives the progress percent from the furthest consistent playback
// state: the greater of the current position and the de-duplicated watched
// time, against the video duration. Rounded and clamped to 0-100. A video
// with unknown duration reports 0.
func Percent(position, watched, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	furthest := position
	if watched > furthest {
		furthest = watched
	}
	p := math.Round(furthest / duration * 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// VideoStatus maps a progress percent and watched time to a status.
func VideoStatus(percent, watched float64) string {
	if percent >= CompletionThreshold {
		return StatusCompleted
	}
	if watched > 0 {
		return StatusInProgress
	}
	return StatusNotStarted
}

// CourseProgress is the arithmetic mean of the per-video percents. Videos are
// weighted equally regardless of length; whether course progress should be
// time-weighted instead is an unresolved product question, so the simple mean
// is kept.
func CourseProgress(percents []float64) float64 {
	if len(percents) == 0 {
		return 0
	}
	var sum float64
	for _, p := range percents {
		sum += p
	}
	return sum / float64(len(percents))
}

// CourseCompleted reports whether a course is complete: every active video
// must individually be completed, and a course with no active videos is never
// complete.
func CourseCompleted(statuses []string) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if s != StatusCompleted {
			return false
		}
	}
	return true
}
