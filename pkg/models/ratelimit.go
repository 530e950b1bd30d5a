// pkg/models/ratelimit.go
package models

import "time"

// RateWindow is one fixed-window counter row, keyed by
// (identifier, endpoint, windowStart). RequestCount covers both admitted
// and rejected requests inside [WindowStart, WindowStart+windowSize).
type RateWindow struct {
	Identifier   string    `json:"identifier"`
	Endpoint     string    `json:"endpoint"`
	WindowStart  time.Time `json:"windowStart"`
	RequestCount uint32    `json:"requestCount"`
}

// Decision is the outcome of a rate-limit check
type Decision struct {
	Allowed      bool          `json:"allowed"`
	CurrentCount uint32        `json:"currentCount"`
	RetryAfter   time.Duration `json:"retryAfter,omitempty"`
}

// WindowStart computes the fixed window boundary containing t
func WindowStart(t time.Time, window time.Duration) time.Time {
	return t.Truncate(window)
}
