package game

import "time"

// secondsToDuration converts a frame time in seconds to a Duration,
// treating negative values as zero.
func secondsToDuration(sec float32) time.Duration {
	if sec <= 0 {
		return 0
	}
	return time.Duration(float64(sec) * float64(time.Second))
}
