package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentThresholdScenario(t *testing.T) {
	// 600s video, 540s watched = exactly 90%
	p := Percent(540, 540, 600)
	assert.Equal(t, 90.0, p)
	assert.Equal(t, StatusCompleted, VideoStatus(p, 540))
}

func TestPercentUsesFurthestState(t *testing.T) {
	// position behind watched time after a seek back
	assert.Equal(t, 90.0, Percent(60, 540, 600))
	// position ahead of watched time after a seek forward
	assert.Equal(t, 90.0, Percent(540, 60, 600))
}

func TestPercentUnknownDuration(t *testing.T) {
	assert.Equal(t, 0.0, Percent(100, 100, 0))
}

func TestPercentClamped(t *testing.T) {
	assert.Equal(t, 100.0, Percent(700, 700, 600))
}

func TestVideoStatusBoundary(t *testing.T) {
	assert.Equal(t, StatusCompleted, VideoStatus(90, 10))
	assert.Equal(t, StatusInProgress, VideoStatus(89.999, 10))
	assert.Equal(t, StatusInProgress, VideoStatus(1, 5))
	assert.Equal(t, StatusNotStarted, VideoStatus(0, 0))
}

func TestCourseProgressMean(t *testing.T) {
	// unweighted mean regardless of video lengths
	assert.Equal(t, 50.0, CourseProgress([]float64{100, 0}))
	assert.Equal(t, 0.0, CourseProgress(nil))
}

func TestCourseCompleted(t *testing.T) {
	assert.True(t, CourseCompleted([]string{StatusCompleted, StatusCompleted}))
	assert.False(t, CourseCompleted([]string{StatusCompleted, StatusInProgress}))
	assert.False(t, CourseCompleted(nil), "course with no active videos is never completed")
}
