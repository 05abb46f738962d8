package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeSegmentsOverlap(t *testing.T) {
	merged := MergeSegments([]Segment{{0, 10}, {5, 15}})

	assert.Len(t, merged, 1)
	assert.Equal(t, Segment{0, 15}, merged[0])
	assert.Equal(t, 15.0, WatchedSeconds([]Segment{{0, 10}, {5, 15}}, 600))
}

func TestMergeSegmentsDisjoint(t *testing.T) {
	merged := MergeSegments([]Segment{{30, 40}, {0, 10}})

	assert.Len(t, merged, 2)
	assert.Equal(t, Segment{0, 10}, merged[0])
	assert.Equal(t, Segment{30, 40}, merged[1])
}

func TestMergeSegmentsAdjacentGap(t *testing.T) {
	// sub-second gaps are sampling noise and merge into one span
	merged := MergeSegments([]Segment{{0, 10}, {10.4, 20}})
	assert.Len(t, merged, 1)

	merged = MergeSegments([]Segment{{0, 10}, {11, 20}})
	assert.Len(t, merged, 2)
}

func TestMergeSegmentsDropsInvalid(t *testing.T) {
	merged := MergeSegments([]Segment{{10, 10}, {20, 5}, {-5, 3}})
	assert.Nil(t, merged)
}

func TestWatchedSecondsRewindReplay(t *testing.T) {
	// user watches [0,540] of a 600s video, seeks back and rewatches [0,60]
	segments := []Segment{{0, 540}, {0, 60}}

	watched := WatchedSeconds(segments, 600)
	assert.Equal(t, 540.0, watched, "rewatched span must not double-count")
}

func TestWatchedSecondsClampedToDuration(t *testing.T) {
	watched := WatchedSeconds([]Segment{{0, 700}}, 600)
	assert.Equal(t, 600.0, watched)

	// unknown duration: no clamp
	watched = WatchedSeconds([]Segment{{0, 700}}, 0)
	assert.Equal(t, 700.0, watched)
}

func TestWatchedSecondsNeverExceedsDuration(t *testing.T) {
	segments := []Segment{{0, 100}, {50, 200}, {150, 300}, {290, 600}, {0, 600}}
	assert.LessOrEqual(t, WatchedSeconds(segments, 600), 600.0)
}
