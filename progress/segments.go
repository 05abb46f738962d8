package progress

import "sort"

// Segment is a contiguous interval of playback, in seconds from the start of
// the video. Segments are reported by the player per save and are never
// persisted; only their merged total feeds the view log.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Two segments closer than this are treated as one continuous span. The
// player samples once per second, so sub-second gaps are sampling noise.
const mergeGap = 0.5

// MergeSegments drops invalid segments, sorts the rest by start and merges
// overlapping or adjacent ones into a disjoint, ordered list. Rewatching the
// same span therefore never counts twice.
func MergeSegments(segments []Segment) []Segment {
	valid := make([]Segment, 0, len(segments))
	for _, s := range segments {
		if s.End > s.Start && s.Start >= 0 {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Start < valid[j].Start })

	merged := []Segment{valid[0]}
	for _, s := range valid[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End+mergeGap {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// WatchedSeconds returns the total de-duplicated watch time for the given
// segments. When duration is known (> 0) the total is clamped to it, so the
// reported time can never exceed the length of the video.
func WatchedSeconds(segments []Segment, duration float64) float64 {
	var total float64
	for _, s := range MergeSegments(segments) {
		total += s.End - s.Start
	}
	if duration > 0 && total > duration {
		total = duration
	}
	return total
}
