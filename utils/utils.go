package utils

import "time"

// MinUint64 returns the smaller of a and b
func MinUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// NowMillis returns the current wall-clock time in milliseconds.
// All auction and order timestamps use millisecond resolution.
func NowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}
